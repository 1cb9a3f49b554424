package image

import "io"

// SourceKind distinguishes a raw byte stream from an image that is already
// decoded in memory.
type SourceKind int

const (
	SourceStream SourceKind = iota
	SourceDecoded
)

// Input is the two-variant validator input: either a seekable byte stream
// whose format must be sniffed, or the format attribute of an image decoded
// elsewhere.
type Input struct {
	Kind   SourceKind
	Stream io.ReadSeeker
	Format string
}

func FromStream(r io.ReadSeeker) Input {
	return Input{Kind: SourceStream, Stream: r}
}

func FromDecoded(format string) Input {
	return Input{Kind: SourceDecoded, Format: format}
}

// QualityReport carries advisory quality metrics. Issues are logged as
// warnings upstream, never treated as fatal.
type QualityReport struct {
	Brightness float64
	Contrast   float64
	Width      int
	Height     int
	Issues     []string
}
