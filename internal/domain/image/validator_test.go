package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		allowed  map[string]bool
		expected bool
	}{
		{name: "default png", filename: "photo.png", expected: true},
		{name: "default uppercase", filename: "photo.JPG", expected: true},
		{name: "default jpeg", filename: "photo.jpeg", expected: true},
		{name: "no dot", filename: "photo", expected: false},
		{name: "empty name", filename: "", expected: false},
		{name: "default rejects tiff", filename: "scan.tiff", expected: false},
		{name: "medical accepts tiff", filename: "scan.tiff", allowed: MedicalExtensions, expected: true},
		{name: "medical accepts dcm", filename: "scan.dcm", allowed: MedicalExtensions, expected: true},
		{name: "advanced rejects gif", filename: "anim.gif", allowed: AdvancedExtensions, expected: false},
		{name: "advanced accepts jpg", filename: "photo.jpg", allowed: AdvancedExtensions, expected: true},
		{name: "trailing dot", filename: "photo.", expected: false},
		{name: "dot in directory-ish name", filename: "archive.tar.png", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedFile(tt.filename, tt.allowed); got != tt.expected {
				t.Errorf("AllowedFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestDetectFormat_Stream(t *testing.T) {
	reader := bytes.NewReader(pngBytes(t))

	format, err := DetectFormat(FromStream(reader))
	if err != nil {
		t.Fatalf("DetectFormat returned error: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}
}

func TestDetectFormat_RestoresStreamPosition(t *testing.T) {
	reader := bytes.NewReader(pngBytes(t))

	before, _ := reader.Seek(0, io.SeekCurrent)
	if _, err := DetectFormat(FromStream(reader)); err != nil {
		t.Fatalf("DetectFormat returned error: %v", err)
	}
	after, _ := reader.Seek(0, io.SeekCurrent)

	if before != after {
		t.Errorf("stream position changed: before=%d after=%d", before, after)
	}
}

func TestDetectFormat_RejectsNonImage(t *testing.T) {
	reader := bytes.NewReader([]byte("this is not an image at all, just text"))

	if _, err := DetectFormat(FromStream(reader)); err == nil {
		t.Fatal("expected error for non-image content")
	}
}

func TestDetectFormat_EmptyStream(t *testing.T) {
	if _, err := DetectFormat(FromStream(bytes.NewReader(nil))); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDetectFormat_Decoded(t *testing.T) {
	format, err := DetectFormat(FromDecoded("JPEG"))
	if err != nil {
		t.Fatalf("DetectFormat returned error: %v", err)
	}
	if format != "jpg" {
		t.Errorf("expected jpeg normalized to jpg, got %s", format)
	}

	if _, err := DetectFormat(FromDecoded("")); err == nil {
		t.Fatal("expected error for missing decoded format")
	}
}

func TestValidate_BothGates(t *testing.T) {
	data := pngBytes(t)

	// extension gate fails before content is consulted
	if _, err := Validate("photo.exe", FromStream(bytes.NewReader(data)), nil); err == nil {
		t.Fatal("expected extension rejection")
	}

	// extension passes but content is not an image
	if _, err := Validate("photo.png", FromStream(bytes.NewReader([]byte("junk data here"))), nil); err == nil {
		t.Fatal("expected content rejection")
	}

	format, err := Validate("photo.png", FromStream(bytes.NewReader(data)), nil)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}
}

func TestDecodeAndQuality(t *testing.T) {
	img, format, err := Decode(pngBytes(t))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}

	report := Quality(img)
	if report.Width != 8 || report.Height != 8 {
		t.Errorf("unexpected dimensions: %dx%d", report.Width, report.Height)
	}
	// tiny uniform image: low resolution and flat contrast must be flagged
	if len(report.Issues) == 0 {
		t.Error("expected quality issues for a tiny flat image")
	}
}
