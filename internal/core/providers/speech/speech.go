// Package speech synthesizes spoken audio from text.
package speech

import (
	"context"

	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"imagesense/internal/platform/errors"
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// EdgeSynthesizer speaks through the Edge TTS service.
type EdgeSynthesizer struct {
	voice string
}

// NewEdge builds a synthesizer for the given voice.
func NewEdge(voice string) *EdgeSynthesizer {
	if voice == "" {
		voice = "en-US-AriaNeural"
	}
	return &EdgeSynthesizer{voice: voice}
}

// Synthesize renders text as MP3 audio.
func (s *EdgeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, errors.New(errors.KindValidation, "speech.Synthesize", "no text provided")
	}

	communicate, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(s.voice))
	if err != nil {
		return nil, errors.Wrap(errors.KindUpstream, "speech.Synthesize", "failed to create TTS communicator", err)
	}

	audio, err := communicate.Stream()
	if err != nil {
		return nil, errors.Wrap(errors.KindUpstream, "speech.Synthesize", "speech synthesis failed", err)
	}
	return audio, nil
}
