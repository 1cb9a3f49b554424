// Package sentiment scores text with a VADER lexicon and maps the
// compound score onto a Positive/Negative/Neutral category.
package sentiment

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"imagesense/internal/domain/outcome"
)

const (
	// EmptyTextCode classifies a blank input.
	EmptyTextCode = "EMPTY_TEXT_ERROR"

	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Details breaks the score into its polarity components.
type Details struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Compound float64 `json:"compound"`
}

// Result is the scored sentiment for one piece of text.
type Result struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Details  Details `json:"details"`
}

// Analyze scores text and classifies it. Blank text is a failure, not
// a neutral score.
func Analyze(text string) outcome.Outcome[Result] {
	if strings.TrimSpace(text) == "" {
		return outcome.Fail[Result](EmptyTextCode, "No text provided for sentiment analysis")
	}

	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)

	return outcome.Ok(Result{
		Score:    score.Compound,
		Category: Categorize(score.Compound),
		Details: Details{
			Positive: score.Positive,
			Negative: score.Negative,
			Neutral:  score.Neutral,
			Compound: score.Compound,
		},
	})
}

// Categorize maps a compound score onto its label.
func Categorize(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return "Positive"
	case compound <= negativeThreshold:
		return "Negative"
	default:
		return "Neutral"
	}
}
