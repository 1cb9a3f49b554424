package textgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"imagesense/internal/core/providers/llm"
	"imagesense/internal/platform/config"
)

// fakeClient replays a canned reply or error and records the request.
type fakeClient struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (f *fakeClient) Chat(_ context.Context, req llm.ChatRequest) (string, error) {
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newGenerator(client llm.Client) *Generator {
	cfg := config.DefaultConfig()
	return NewGenerator(client, &cfg.LLM)
}

func TestGenerateContext(t *testing.T) {
	fake := &fakeClient{reply: "  A quiet street at dusk.  "}
	g := newGenerator(fake)

	result := g.GenerateContext(context.Background(), "a street")
	if !result.Success() {
		t.Fatalf("GenerateContext failed: %s", result.Message())
	}
	if result.Value() != "A quiet street at dusk." {
		t.Errorf("unexpected context: %q", result.Value())
	}
	if !strings.Contains(fake.last.User, "a street") {
		t.Errorf("alt text missing from prompt: %q", fake.last.User)
	}
	if fake.last.MaxTokens != 100 {
		t.Errorf("max tokens = %d", fake.last.MaxTokens)
	}
}

func TestGenerateContext_TruncatesLongReplies(t *testing.T) {
	fake := &fakeClient{reply: strings.Repeat("word ", 90)}
	g := newGenerator(fake)

	result := g.GenerateContext(context.Background(), "x")
	if !result.Success() {
		t.Fatalf("GenerateContext failed: %s", result.Message())
	}
	words := strings.Fields(result.Value())
	if len(words) != 70 {
		t.Errorf("expected 70 words, got %d", len(words))
	}
	if !strings.HasSuffix(result.Value(), "...") {
		t.Errorf("expected ellipsis suffix: %q", result.Value())
	}
}

func TestGenerateContext_Failure(t *testing.T) {
	fake := &fakeClient{err: errors.New("upstream down")}
	g := newGenerator(fake)

	result := g.GenerateContext(context.Background(), "x")
	if result.Success() {
		t.Fatal("expected failure")
	}
	if result.Code() != ContextGenerationCode {
		t.Errorf("code = %s", result.Code())
	}
	if !strings.Contains(result.Message(), "upstream down") {
		t.Errorf("message = %q", result.Message())
	}
}

func TestFailureCodes(t *testing.T) {
	fake := &fakeClient{err: errors.New("boom")}
	g := newGenerator(fake)
	ctx := context.Background()

	tests := []struct {
		name string
		code string
		run  func() (bool, string)
	}{
		{"enhance", ContextEnhancementCode, func() (bool, string) {
			r := g.EnhanceContext(ctx, "c")
			return r.Success(), r.Code()
		}},
		{"caption", CaptionGenerationCode, func() (bool, string) {
			r := g.SocialCaption(ctx, "c")
			return r.Success(), r.Code()
		}},
		{"description", SEOGenerationCode, func() (bool, string) {
			r := g.ProductDescription(ctx, "c", "a")
			return r.Success(), r.Code()
		}},
		{"title", SEOGenerationCode, func() (bool, string) {
			r := g.SEOTitle(ctx, "c", "a")
			return r.Success(), r.Code()
		}},
		{"medical", MedicalAnalysisCode, func() (bool, string) {
			r := g.MedicalReport(ctx, "a")
			return r.Success(), r.Code()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, code := tt.run()
			if ok {
				t.Fatal("expected failure")
			}
			if code != tt.code {
				t.Errorf("code = %s, expected %s", code, tt.code)
			}
		})
	}
}

func TestHeavyweightOperationsPinModel(t *testing.T) {
	fake := &fakeClient{reply: "text"}
	g := newGenerator(fake)
	ctx := context.Background()

	g.MedicalReport(ctx, "a")
	if fake.last.Model != "gpt-4" {
		t.Errorf("medical model = %s", fake.last.Model)
	}
	if fake.last.MaxTokens != 1000 {
		t.Errorf("medical max tokens = %d", fake.last.MaxTokens)
	}

	g.SEOTitle(ctx, "c", "a")
	if fake.last.Model != "gpt-4" {
		t.Errorf("title model = %s", fake.last.Model)
	}
	if fake.last.Temperature != 0.3 {
		t.Errorf("title temperature = %v", fake.last.Temperature)
	}
}
