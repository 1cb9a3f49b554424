// Package textgen turns captions and contexts into the generated
// copy the service returns: contexts, social captions, SEO text and
// medical narratives. Every operation classifies its own failures so
// callers can surface a stable code.
package textgen

import (
	"context"
	"strings"

	"imagesense/internal/core/providers/llm"
	"imagesense/internal/domain/outcome"
	"imagesense/internal/domain/textops"
	"imagesense/internal/platform/config"
)

// Failure codes surfaced to API callers.
const (
	ContextGenerationCode  = "CONTEXT_GENERATION_ERROR"
	ContextEnhancementCode = "CONTEXT_ENHANCEMENT_ERROR"
	CaptionGenerationCode  = "CAPTION_GENERATION_ERROR"
	SEOGenerationCode      = "SEO_GENERATION_ERROR"
	MedicalAnalysisCode    = "MEDICAL_ANALYSIS_ERROR"
)

const contextWordLimit = 70

// Generator runs the text operations against a chat client.
type Generator struct {
	client llm.Client
	model  string
}

// NewGenerator wires a generator to its client. cfg supplies the
// default model for the lightweight operations; the heavyweight ones
// (SEO, medical) pin their own models.
func NewGenerator(client llm.Client, cfg *config.ProviderConfig) *Generator {
	return &Generator{client: client, model: cfg.ModelName}
}

// GenerateContext produces a brief context from alt text, capped at
// seventy words.
func (g *Generator) GenerateContext(ctx context.Context, altText string) outcome.Outcome[string] {
	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       g.model,
		System:      "You are a helpful assistant that provides concise context for images. Keep responses under 50 words.",
		User:        "Generate a brief context (maximum 70 words) for this image description:\n\n" + altText,
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err != nil {
		return outcome.Fail[string](ContextGenerationCode, "Error generating context: "+err.Error())
	}

	text = strings.TrimSpace(text)
	if len(strings.Fields(text)) > contextWordLimit {
		text = textops.TruncateWords(text, contextWordLimit) + "..."
	}
	return outcome.Ok(text)
}

// EnhanceContext rewrites a context with more descriptive detail.
func (g *Generator) EnhanceContext(ctx context.Context, base string) outcome.Outcome[string] {
	prompt := "Enhance this context with more descriptive details while maintaining accuracy:\n\n" +
		"Original: " + base + "\n\n" +
		"Requirements:\n" +
		"1. Add sensory details\n" +
		"2. Include specific measurements or technical details if applicable\n" +
		"3. Maintain factual accuracy\n" +
		"4. Keep the enhanced version under 100 words"

	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       g.model,
		System:      "You are a detail-oriented writer that enhances descriptions while maintaining accuracy.",
		User:        prompt,
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return outcome.Fail[string](ContextEnhancementCode, "Error enhancing context: "+err.Error())
	}
	return outcome.Ok(strings.TrimSpace(text))
}

// SocialCaption writes a short caption with hashtags for a context.
func (g *Generator) SocialCaption(ctx context.Context, imageContext string) outcome.Outcome[string] {
	prompt := "Create an engaging social media caption with relevant hashtags based on this context:\n\n" +
		"Context: " + imageContext + "\n\n" +
		"Requirements:\n" +
		"1. Engaging and conversational tone\n" +
		"2. Include 3-5 relevant hashtags\n" +
		"3. Maximum 2-3 sentences\n" +
		"4. Include emojis where appropriate"

	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       g.model,
		System:      "You are a social media expert that creates engaging captions.",
		User:        prompt,
		MaxTokens:   100,
		Temperature: 0.8,
	})
	if err != nil {
		return outcome.Fail[string](CaptionGenerationCode, "Error generating social media caption: "+err.Error())
	}
	return outcome.Ok(strings.TrimSpace(text))
}

// ProductDescription writes a sectioned product description from the
// context and alt text.
func (g *Generator) ProductDescription(ctx context.Context, imageContext, altText string) outcome.Outcome[string] {
	prompt := "Based on this image context and alt text, generate a comprehensive product description:\n\n" +
		"Context: " + imageContext + "\n" +
		"Alt Text: " + altText + "\n\n" +
		"Please provide detailed information in this exact format, ensuring each bullet point is a complete, detailed sentence:\n\n" +
		"About:\n" +
		"• Begin with the product's primary visual or design feature and its direct user benefit\n" +
		"• Follow with the main performance or functionality feature and its practical application\n" +
		"• Include the product's unique selling point with a specific use case example\n" +
		"• Highlight a user comfort, convenience, or safety feature that enhances daily use\n" +
		"• End with the most impressive capability and its real-world benefit\n\n" +
		"Technical:\n" +
		"• Detail primary performance metrics with exact numbers (e.g., power, speed, capacity, efficiency)\n" +
		"• Specify all relevant physical specifications (dimensions, weight, materials, display/size metrics)\n" +
		"• Include operational specifications (battery life, power usage, runtime, capacity, etc.)\n" +
		"• List storage, memory, or capacity specifications with exact measurements\n" +
		"• Detail connectivity, compatibility, or technical standards compliance\n\n" +
		"Additional:\n" +
		"• Begin with the most innovative or unique feature that sets this product apart\n" +
		"• Include any smart features, automation, or advanced technologies\n" +
		"• List included accessories, attachments, or complementary items\n" +
		"• Highlight customization options, adjustability, or versatility features\n" +
		"• End with compatibility features and integration capabilities"

	system := "You are an expert product content writer specializing in SEO-optimized descriptions. " +
		"You adapt technical detail to the product category, use precise specifications and measurements, " +
		"convert features into clear user benefits, follow exact formatting requirements and prioritize " +
		"search-relevant information."

	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       "gpt-4",
		System:      system,
		User:        prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return outcome.Fail[string](SEOGenerationCode, "Error generating SEO content: "+err.Error())
	}
	return outcome.Ok(strings.TrimSpace(text))
}

// SEOTitle writes an optimized listing title from the context and alt
// text.
func (g *Generator) SEOTitle(ctx context.Context, imageContext, altText string) outcome.Outcome[string] {
	prompt := "Create a highly optimized product title following this format:\n" +
		"[Brand Name] [Model/Series] [Identifier], [Primary Spec] ([Value/Rating]), [Secondary Spec], " +
		"[Capacity/Size] ([Color/Material], [Key Feature]) [Additional Info]\n\n" +
		"Use this context:\n" + imageContext + "\n" + altText + "\n\n" +
		"Requirements:\n" +
		"1. Include brand and complete model information\n" +
		"2. List 2-3 key specifications with values\n" +
		"3. Include relevant certifications or ratings\n" +
		"4. Add color/material and a key feature in parentheses\n" +
		"5. End with an important additional feature\n" +
		"6. Use proper technical terminology\n" +
		"7. Include measurements with units\n" +
		"8. Keep length between 50-65 characters\n" +
		"9. Use commas and parentheses for separation"

	system := "You are a product listing specialist who creates category-appropriate product titles with " +
		"critical specifications, proper technical terminology and industry-standard abbreviations, " +
		"keeping the length strictly between 50 and 65 characters."

	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       "gpt-4",
		System:      system,
		User:        prompt,
		MaxTokens:   100,
		Temperature: 0.3,
	})
	if err != nil {
		return outcome.Fail[string](SEOGenerationCode, "Error generating SEO content: "+err.Error())
	}
	return outcome.Ok(strings.TrimSpace(text))
}

// MedicalReport writes a structured three-section report from the alt
// text of a medical image.
func (g *Generator) MedicalReport(ctx context.Context, altText string) outcome.Outcome[string] {
	prompt := "Analyze this medical image description and provide a detailed medical report:\n\n" +
		"Image Description: " + altText + "\n\n" +
		"Please provide a comprehensive analysis following this exact format:\n\n" +
		"1. Key Findings:\n" +
		"- List all visible anatomical structures\n" +
		"- Note any abnormalities or unusual patterns\n" +
		"- Describe tissue characteristics and density variations\n" +
		"- Identify any visible medical devices or artifacts\n" +
		"- Highlight areas of particular interest\n\n" +
		"2. Potential Observations:\n" +
		"- Describe possible interpretations of the findings\n" +
		"- Note any patterns consistent with common conditions\n" +
		"- Consider differential possibilities\n" +
		"- Mention any limitations in the analysis\n" +
		"- Indicate areas that may need closer examination\n\n" +
		"3. Recommendations:\n" +
		"- Suggest appropriate follow-up imaging if needed\n" +
		"- Recommend additional tests or examinations if relevant\n" +
		"- Provide general guidance for healthcare providers\n" +
		"- Note any urgent findings requiring immediate attention\n" +
		"- Suggest documentation and monitoring protocols\n\n" +
		"Please maintain a professional, medical tone and be specific with anatomical terminology.\n" +
		"If you cannot make specific observations, please provide general anatomical descriptions and standard medical imaging protocols."

	system := "You are a medical imaging specialist providing detailed analysis. Use precise medical " +
		"terminology, be thorough but concise, maintain professional objectivity, acknowledge limitations, " +
		"focus on observable findings, avoid definitive diagnoses and always provide a complete analysis " +
		"even with limited information."

	text, err := g.client.Chat(ctx, llm.ChatRequest{
		Model:       "gpt-4",
		System:      system,
		User:        prompt,
		MaxTokens:   1000,
		Temperature: 0.4,
	})
	if err != nil {
		return outcome.Fail[string](MedicalAnalysisCode, "Error analyzing medical image: "+err.Error())
	}
	return outcome.Ok(strings.TrimSpace(text))
}
