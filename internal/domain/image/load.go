package image

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagesense/internal/platform/errors"
)

// Decode decodes the full image from raw bytes. Format registration covers
// the upload allow-sets except dcm, which no Go decoder handles; dcm uploads
// pass validation but cannot be pixel-analyzed.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.KindValidation, "image.decode", "decode image", err)
	}
	return img, normalizeFormat(format), nil
}

// Quality computes advisory brightness/contrast/resolution metrics over a
// sparse pixel grid.
func Quality(img image.Image) QualityReport {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	report := QualityReport{Width: width, Height: height}
	if width == 0 || height == 0 {
		report.Issues = append(report.Issues, "empty image")
		return report
	}

	// sample at most ~64x64 points
	stepX, stepY := width/64, height/64
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	var sum, sumSq float64
	var count int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, _ := img.At(x, y).RGBA()
			v := (float64(r>>8) + float64(g>>8) + float64(b>>8)) / 3.0
			sum += v
			sumSq += v * v
			count++
		}
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}

	report.Brightness = mean
	report.Contrast = math.Sqrt(variance)

	if report.Brightness < 30 {
		report.Issues = append(report.Issues, "image too dark")
	} else if report.Brightness > 225 {
		report.Issues = append(report.Issues, "image too bright")
	}
	if report.Contrast < 20 {
		report.Issues = append(report.Issues, "low contrast")
	}
	if width*height < 200*200 {
		report.Issues = append(report.Issues, fmt.Sprintf("resolution too low: %dx%d", width, height))
	}

	return report
}
