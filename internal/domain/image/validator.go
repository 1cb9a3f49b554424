package image

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"imagesense/internal/platform/errors"
)

// sniffLimit bounds how much of the stream is read to identify the format.
const sniffLimit = 512

// DefaultExtensions is the allow-set applied when an endpoint does not
// configure its own.
var DefaultExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
}

// MedicalExtensions widens the default set for medical imagery.
var MedicalExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "tiff": true, "dcm": true,
}

// AdvancedExtensions narrows the default set for the advanced analysis path.
var AdvancedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true,
}

// AllowedFile reports whether filename carries an allowed extension. A nil
// allow-set means DefaultExtensions.
func AllowedFile(filename string, allowed map[string]bool) bool {
	if filename == "" {
		return false
	}
	if allowed == nil {
		allowed = DefaultExtensions
	}

	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return false
	}
	return allowed[strings.ToLower(filename[dot+1:])]
}

// DetectFormat determines the true image format of the input, independent of
// any claimed filename. For stream inputs the read position is restored to
// its pre-call offset, since the same stream is persisted afterwards.
func DetectFormat(in Input) (string, error) {
	switch in.Kind {
	case SourceStream:
		return sniffStream(in.Stream)
	case SourceDecoded:
		if in.Format == "" {
			return "", errors.New(errors.KindValidation, "image.detect", "decoded image has no format")
		}
		return normalizeFormat(in.Format), nil
	default:
		return "", errors.New(errors.KindValidation, "image.detect", "unsupported input kind")
	}
}

func sniffStream(stream io.ReadSeeker) (string, error) {
	if stream == nil {
		return "", errors.New(errors.KindValidation, "image.detect", "missing image stream")
	}

	start, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", errors.Wrap(errors.KindValidation, "image.detect", "record stream position", err)
	}

	header := make([]byte, sniffLimit)
	n, err := io.ReadFull(stream, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrap(errors.KindValidation, "image.detect", "read image header", err)
	}

	if _, err := stream.Seek(start, io.SeekStart); err != nil {
		return "", errors.Wrap(errors.KindValidation, "image.detect", "restore stream position", err)
	}

	if n == 0 {
		return "", errors.New(errors.KindValidation, "image.detect", "empty image payload")
	}

	mtype := mimetype.Detect(header[:n])
	if !strings.HasPrefix(mtype.String(), "image/") && !mtype.Is("application/dicom") {
		return "", errors.New(errors.KindValidation, "image.detect",
			fmt.Sprintf("not an image: detected %s", mtype.String()))
	}

	format := strings.TrimPrefix(mtype.Extension(), ".")
	if format == "" {
		return "", errors.New(errors.KindValidation, "image.detect", "unrecognised image format")
	}
	return normalizeFormat(format), nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	if format == "jpeg" {
		format = "jpg"
	}
	return format
}

// Validate applies both gates independently: the filename extension must be
// in the allow-set, and the content must sniff as a real image. It returns
// the detected normalized format.
func Validate(filename string, in Input, allowed map[string]bool) (string, error) {
	if !AllowedFile(filename, allowed) {
		return "", errors.New(errors.KindValidation, "image.validate",
			fmt.Sprintf("file type not allowed: %s", filename))
	}

	format, err := DetectFormat(in)
	if err != nil {
		return "", err
	}
	return format, nil
}
