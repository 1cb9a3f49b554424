// Package colors computes the channel distribution and dominant color
// palette of an image by clustering its pixels.
package colors

import (
	"image"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"golang.org/x/image/draw"

	"imagesense/internal/platform/errors"
)

// Analysis is the color profile of one image.
type Analysis struct {
	Bins           []int     `json:"bins"`
	Distribution   []float64 `json:"distribution"`
	DominantColors [][3]int  `json:"dominant_colors"`
	Percentages    []float64 `json:"percentages"`
}

// Analyzer clusters pixels into a fixed palette size. Images are
// downscaled to SampleDim on the long edge before clustering to keep
// the observation count bounded.
type Analyzer struct {
	Clusters  int
	SampleDim int
}

// NewAnalyzer applies the defaults of five clusters over a 128px sample.
func NewAnalyzer(numClusters, sampleDim int) *Analyzer {
	if numClusters <= 0 {
		numClusters = 5
	}
	if sampleDim <= 0 {
		sampleDim = 128
	}
	return &Analyzer{Clusters: numClusters, SampleDim: sampleDim}
}

// Analyze returns the per-channel means and the dominant palette with
// coverage percentages, ordered largest share first.
func (a *Analyzer) Analyze(img image.Image) (*Analysis, error) {
	if img == nil {
		return nil, errors.New(errors.KindValidation, "colors.Analyze", "no image loaded")
	}

	pixels := a.samplePixels(img)
	if len(pixels) == 0 {
		return nil, errors.New(errors.KindValidation, "colors.Analyze", "image has no pixels")
	}

	// the clusterer seeds its centers in the unit cube, so observations
	// are normalized to [0,1] and scaled back afterwards
	var sumR, sumG, sumB float64
	observations := make(clusters.Observations, 0, len(pixels))
	for _, p := range pixels {
		sumR += p[0]
		sumG += p[1]
		sumB += p[2]
		observations = append(observations, clusters.Coordinates{p[0] / 255, p[1] / 255, p[2] / 255})
	}
	n := float64(len(pixels))
	distribution := []float64{sumR / n, sumG / n, sumB / n}

	k := a.Clusters
	if len(observations) < k {
		k = len(observations)
	}

	km := kmeans.New()
	partition, err := km.Partition(observations, k)
	if err != nil {
		return nil, errors.Wrap(errors.KindUnknown, "colors.Analyze", "color clustering failed", err)
	}

	type bucket struct {
		color [3]int
		share float64
	}
	bucketList := make([]bucket, 0, len(partition))
	for _, c := range partition {
		center := c.Center
		bucketList = append(bucketList, bucket{
			color: [3]int{clampChannel(center[0] * 255), clampChannel(center[1] * 255), clampChannel(center[2] * 255)},
			share: float64(len(c.Observations)) / float64(len(observations)) * 100,
		})
	}
	sort.SliceStable(bucketList, func(i, j int) bool {
		return bucketList[i].share > bucketList[j].share
	})

	analysis := &Analysis{
		Bins:           []int{0, 1, 2},
		Distribution:   distribution,
		DominantColors: make([][3]int, 0, len(bucketList)),
		Percentages:    make([]float64, 0, len(bucketList)),
	}
	for _, b := range bucketList {
		analysis.DominantColors = append(analysis.DominantColors, b.color)
		analysis.Percentages = append(analysis.Percentages, b.share)
	}
	return analysis, nil
}

// samplePixels downscales the image so its long edge is at most
// SampleDim and returns the RGB triples of every remaining pixel.
func (a *Analyzer) samplePixels(img image.Image) [][3]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	if w > a.SampleDim || h > a.SampleDim {
		scale := float64(a.SampleDim) / float64(max(w, h))
		dw, dh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
		scaled := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
		bounds = scaled.Bounds()
		w, h = dw, dh
	}

	pixels := make([][3]float64, 0, w*h)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, [3]float64{float64(r >> 8), float64(g >> 8), float64(b >> 8)})
		}
	}
	return pixels
}

func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}
