// Package pipeline orchestrates the enrichment flows. Each flow walks
// the same backbone (describe the image, derive a context, then branch
// into flow-specific generation) and stops at the first failed stage,
// reporting it as a classified Abort.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"strings"

	"imagesense/internal/core/providers/caption"
	"imagesense/internal/domain/colors"
	domainimage "imagesense/internal/domain/image"
	"imagesense/internal/domain/outcome"
	"imagesense/internal/domain/sentiment"
	"imagesense/internal/domain/textops"
	"imagesense/internal/platform/logging"
)

// Stage failure codes not owned by the generation layer.
const (
	ProcessingCode    = "PROCESSING_ERROR"
	ImageLoadCode     = "IMAGE_LOAD_ERROR"
	DescriptionCode   = "BLIP_ERROR"
	EnhancementCode   = "ENHANCEMENT_ERROR"
	ColorAnalysisCode = "COLOR_ANALYSIS_ERROR"
	SentimentCode     = "SENTIMENT_ERROR"
)

// Abort reports the first stage that failed a flow.
type Abort struct {
	Code    string
	Message string
}

// TextGenerator is the generation surface the flows build on.
type TextGenerator interface {
	GenerateContext(ctx context.Context, altText string) outcome.Outcome[string]
	EnhanceContext(ctx context.Context, base string) outcome.Outcome[string]
	SocialCaption(ctx context.Context, imageContext string) outcome.Outcome[string]
	ProductDescription(ctx context.Context, imageContext, altText string) outcome.Outcome[string]
	SEOTitle(ctx context.Context, imageContext, altText string) outcome.Outcome[string]
	MedicalReport(ctx context.Context, altText string) outcome.Outcome[string]
}

// ColorAnalyzer profiles the colors of a decoded image.
type ColorAnalyzer interface {
	Analyze(img image.Image) (*colors.Analysis, error)
}

// Pipeline wires the providers into the enrichment flows.
type Pipeline struct {
	describer caption.Provider
	generator TextGenerator
	colors    ColorAnalyzer
	logger    *logging.Logger
}

// New builds a pipeline from its providers.
func New(describer caption.Provider, generator TextGenerator, colorAnalyzer ColorAnalyzer, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		describer: describer,
		generator: generator,
		colors:    colorAnalyzer,
		logger:    logger,
	}
}

// SocialResult is the social-media enrichment of one image.
type SocialResult struct {
	Caption   string           `json:"caption"`
	Hashtags  string           `json:"hashtags"`
	Sentiment sentiment.Result `json:"sentiment"`
}

// Social captions an image for social media, scores the caption's
// sentiment and derives hashtags.
func (p *Pipeline) Social(ctx context.Context, data []byte, format string) (*SocialResult, *Abort) {
	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, abort
	}

	contextResult := p.generator.GenerateContext(ctx, altText)
	if !contextResult.Success() {
		return nil, abortFrom(contextResult)
	}
	imageContext := contextResult.Value()

	captionResult := p.generator.SocialCaption(ctx, imageContext)
	if !captionResult.Success() {
		return nil, abortFrom(captionResult)
	}
	socialCaption := captionResult.Value()

	sentimentResult := sentiment.Analyze(socialCaption)
	if !sentimentResult.Success() {
		return nil, &Abort{Code: SentimentCode, Message: sentimentResult.Message()}
	}

	return &SocialResult{
		Caption:   socialCaption,
		Hashtags:  textops.Hashtags(socialCaption, imageContext),
		Sentiment: sentimentResult.Value(),
	}, nil
}

// GeneralResult is the descriptive enrichment of one image.
type GeneralResult struct {
	AltText             string `json:"alt_text"`
	Context             string `json:"context"`
	EnhancedDescription string `json:"enhanced_description"`
}

// General produces alt text, a context and an enhanced description.
func (p *Pipeline) General(ctx context.Context, data []byte, format string) (*GeneralResult, *Abort) {
	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, abort
	}

	contextResult := p.generator.GenerateContext(ctx, altText)
	if !contextResult.Success() {
		return nil, abortFrom(contextResult)
	}

	enhancedResult := p.generator.EnhanceContext(ctx, contextResult.Value())
	if !enhancedResult.Success() {
		return nil, abortFrom(enhancedResult)
	}

	return &GeneralResult{
		AltText:             altText,
		Context:             contextResult.Value(),
		EnhancedDescription: enhancedResult.Value(),
	}, nil
}

// SEOResult is the listing copy for one product image.
type SEOResult struct {
	SEOTitle string            `json:"seo_title"`
	Sections map[string]string `json:"sections"`
	Keywords []string          `json:"keywords"`
}

// SEO writes a product description and title, splits the description
// into its sections and ranks keywords over the combined copy.
func (p *Pipeline) SEO(ctx context.Context, data []byte, format string) (*SEOResult, *Abort) {
	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, abort
	}

	contextResult := p.generator.GenerateContext(ctx, altText)
	if !contextResult.Success() {
		return nil, abortFrom(contextResult)
	}
	imageContext := contextResult.Value()

	descriptionResult := p.generator.ProductDescription(ctx, imageContext, altText)
	if !descriptionResult.Success() {
		return nil, abortFrom(descriptionResult)
	}
	titleResult := p.generator.SEOTitle(ctx, imageContext, altText)
	if !titleResult.Success() {
		return nil, abortFrom(titleResult)
	}
	description, title := descriptionResult.Value(), titleResult.Value()

	sections := textops.SplitSections(description, textops.SEOSectionHeaders)
	for _, key := range []string{"about", "technical", "additional"} {
		if _, ok := sections[key]; !ok {
			sections[key] = ""
		}
	}

	return &SEOResult{
		SEOTitle: title,
		Sections: sections,
		Keywords: textops.Keywords(description + " " + title),
	}, nil
}

// MedicalResult is the narrative report for one medical image.
type MedicalResult struct {
	AltText         string  `json:"alt_text"`
	Findings        string  `json:"findings"`
	Diagnosis       string  `json:"diagnosis"`
	Recommendations string  `json:"recommendations"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Default section text used when the model's report misses a section.
const (
	DefaultFindings        = "Standard medical image analysis protocol should be followed. Detailed examination of anatomical structures is recommended."
	DefaultDiagnosis       = "Further clinical correlation and detailed examination is recommended for accurate interpretation."
	DefaultRecommendations = "Follow standard medical imaging protocols. Consult with healthcare providers for proper interpretation and next steps."
)

// Medical writes a three-section report for a medical image. Sections
// missing from the generated report are filled with standard guidance
// rather than failing the request.
func (p *Pipeline) Medical(ctx context.Context, data []byte, format string) (*MedicalResult, *Abort) {
	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, abort
	}

	reportResult := p.generator.MedicalReport(ctx, altText)
	if !reportResult.Success() {
		return nil, abortFrom(reportResult)
	}

	sections := textops.SplitSections(reportResult.Value(), textops.MedicalSectionHeaders)
	findings := sections["key findings"]
	if findings == "" {
		findings = DefaultFindings
	}
	diagnosis := sections["potential observations"]
	if diagnosis == "" {
		diagnosis = DefaultDiagnosis
	}
	recommendations := sections["recommendations"]
	if recommendations == "" {
		recommendations = DefaultRecommendations
	}

	return &MedicalResult{
		AltText:         altText,
		Findings:        findings,
		Diagnosis:       diagnosis,
		Recommendations: recommendations,
		ConfidenceScore: Confidence(findings, recommendations),
	}, nil
}

// Confidence scores a report by the detail of its findings and
// recommendations, on top of a 0.7 base and capped at 0.95.
func Confidence(findings, recommendations string) float64 {
	score := 0.7
	score += min(0.1, float64(len(strings.Fields(findings)))/1000)
	score += min(0.1, float64(len(strings.Fields(recommendations)))/500)
	return min(0.95, score)
}

// AnalyzerSentiment is the sentiment block of the analyzer flow, with
// a reader-facing summary sentence.
type AnalyzerSentiment struct {
	Score   float64 `json:"score"`
	Label   string  `json:"label"`
	Details string  `json:"details"`
}

// AnalyzerResult is the quick-look analysis of one image.
type AnalyzerResult struct {
	AltText   string            `json:"alt_text"`
	Context   string            `json:"context"`
	Sentiment AnalyzerSentiment `json:"sentiment"`
}

// Analyzer describes an image, derives a context and scores the
// sentiment of the description itself.
func (p *Pipeline) Analyzer(ctx context.Context, data []byte, format string) (*AnalyzerResult, *Abort) {
	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, abort
	}

	contextResult := p.generator.GenerateContext(ctx, altText)
	if !contextResult.Success() {
		return nil, abortFrom(contextResult)
	}

	sentimentResult := sentiment.Analyze(altText)
	if !sentimentResult.Success() {
		return nil, &Abort{Code: SentimentCode, Message: sentimentResult.Message()}
	}
	s := sentimentResult.Value()

	return &AnalyzerResult{
		AltText: altText,
		Context: contextResult.Value(),
		Sentiment: AnalyzerSentiment{
			Score: s.Score,
			Label: s.Category,
			Details: fmt.Sprintf("The description has a %s tone with %.1f%% confidence.",
				strings.ToLower(s.Category), s.Score*100),
		},
	}, nil
}

// AdvancedSentiment is the sentiment block of the advanced flow.
type AdvancedSentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// AdvancedResult is the full multi-signal analysis of one image.
type AdvancedResult struct {
	Description         string            `json:"blip_description"`
	EnhancedDescription string            `json:"enhanced_description"`
	ColorAnalysis       *colors.Analysis  `json:"color_analysis"`
	Sentiment           AdvancedSentiment `json:"sentiment"`
}

// Advanced runs the whole signal set over one image: description,
// enhanced description, color clustering and sentiment. Each stage
// reports its own code so callers can tell which signal failed.
func (p *Pipeline) Advanced(ctx context.Context, data []byte, format string) (*AdvancedResult, *Abort) {
	img, _, err := domainimage.Decode(data)
	if err != nil {
		p.logger.ErrorTag("PIPELINE", "failed to load image: %v", err)
		return nil, &Abort{Code: ImageLoadCode, Message: "Failed to load image file"}
	}

	altText, abort := p.describe(ctx, data, format)
	if abort != nil {
		return nil, &Abort{Code: DescriptionCode, Message: "Failed to generate image description"}
	}
	contextResult := p.generator.GenerateContext(ctx, altText)
	if !contextResult.Success() {
		p.logger.ErrorTag("PIPELINE", "description stage failed: %s", contextResult.Message())
		return nil, &Abort{Code: DescriptionCode, Message: "Failed to generate image description"}
	}
	description := contextResult.Value()

	enhancedResult := p.generator.EnhanceContext(ctx, description)
	if !enhancedResult.Success() {
		p.logger.ErrorTag("PIPELINE", "enhancement stage failed: %s", enhancedResult.Message())
		return nil, &Abort{Code: EnhancementCode, Message: "Failed to enhance description"}
	}
	enhanced := enhancedResult.Value()

	colorAnalysis, err := p.colors.Analyze(img)
	if err != nil {
		p.logger.ErrorTag("PIPELINE", "color stage failed: %v", err)
		return nil, &Abort{Code: ColorAnalysisCode, Message: "Failed to analyze image colors"}
	}

	sentimentResult := sentiment.Analyze(enhanced)
	if !sentimentResult.Success() {
		p.logger.ErrorTag("PIPELINE", "sentiment stage failed: %s", sentimentResult.Message())
		return nil, &Abort{Code: SentimentCode, Message: "Failed to analyze sentiment"}
	}
	s := sentimentResult.Value()

	return &AdvancedResult{
		Description:         description,
		EnhancedDescription: enhanced,
		ColorAnalysis:       colorAnalysis,
		Sentiment:           AdvancedSentiment{Label: s.Category, Confidence: s.Score},
	}, nil
}

// describe runs the caption stage shared by every flow. A blank
// caption is a stage failure in its own right: nothing downstream can
// work from an empty description.
func (p *Pipeline) describe(ctx context.Context, data []byte, format string) (string, *Abort) {
	if img, _, err := domainimage.Decode(data); err == nil {
		for _, issue := range domainimage.Quality(img).Issues {
			p.logger.WarnTag("PIPELINE", "image quality: %s", issue)
		}
	}

	altText, err := p.describer.Describe(ctx, data, format)
	if err != nil {
		p.logger.ErrorTag("PIPELINE", "caption stage failed: %v", err)
		return "", &Abort{Code: ProcessingCode, Message: "Error processing image. Please try again."}
	}
	altText = strings.TrimSpace(altText)
	if altText == "" {
		p.logger.ErrorTag("PIPELINE", "caption stage returned no text")
		return "", &Abort{Code: ProcessingCode, Message: "Failed to generate image description"}
	}
	return altText, nil
}

func abortFrom(o outcome.Outcome[string]) *Abort {
	return &Abort{Code: o.Code(), Message: o.Message()}
}
