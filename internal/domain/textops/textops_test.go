package textops

import (
	"reflect"
	"strings"
	"testing"
)

func TestHashtags(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		context  string
		expected string
	}{
		{
			name:     "tags taken from caption",
			caption:  "Golden hour on the beach #sunset #ocean #travel",
			context:  "a sunset over the ocean",
			expected: "#sunset #ocean #travel",
		},
		{
			name:     "fallback to context words",
			caption:  "A lovely evening by the water",
			context:  "warm sunset over calm ocean water",
			expected: "#warm #sunset #over #calm #ocean",
		},
		{
			name:     "fallback skips short words",
			caption:  "",
			context:  "a red fox ran far",
			expected: "",
		},
		{
			name:     "empty everything",
			caption:  "",
			context:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hashtags(tt.caption, tt.context); got != tt.expected {
				t.Errorf("Hashtags() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestHashtags_FallbackCap(t *testing.T) {
	context := "mountain landscape photography adventure hiking wilderness exploration"
	got := Hashtags("no tags here", context)
	if n := len(strings.Fields(got)); n != 5 {
		t.Errorf("expected 5 fallback tags, got %d (%q)", n, got)
	}
}

func TestKeywords(t *testing.T) {
	text := "the camera lens captures light and the lens focuses light onto the sensor"
	got := Keywords(text)

	if len(got) == 0 {
		t.Fatal("expected keywords")
	}
	// lens and light appear twice, the rest once
	if got[0] != "lens" || got[1] != "light" {
		t.Errorf("unexpected ranking: %v", got)
	}
	for _, w := range got {
		if stopWords[w] {
			t.Errorf("stop word leaked through: %s", w)
		}
		if len(w) < 3 {
			t.Errorf("short word leaked through: %s", w)
		}
	}
}

func TestKeywords_Deterministic(t *testing.T) {
	text := "alpha beta gamma delta alpha beta gamma alpha beta epsilon zeta theta iota kappa"
	first := Keywords(text)
	for i := 0; i < 5; i++ {
		if next := Keywords(text); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %v vs %v", i, first, next)
		}
	}
}

func TestKeywords_TopTen(t *testing.T) {
	text := "one1x two2x three3 four4x five5 six6xx seven7 eight8 nine9x ten10x eleven twelve"
	if got := Keywords(text); len(got) > 10 {
		t.Errorf("expected at most 10 keywords, got %d", len(got))
	}
	if got := Keywords(""); len(got) != 0 {
		t.Errorf("expected no keywords for empty text, got %v", got)
	}
}

func TestSplitSections_SEO(t *testing.T) {
	text := "About:\n• Sleek design\n• Durable body\n\nTechnical:\n• 20MP sensor\n\nAdditional:\n• Carrying case included"
	got := SplitSections(text, SEOSectionHeaders)

	expected := map[string]string{
		"about":      "• Sleek design\n• Durable body",
		"technical":  "• 20MP sensor",
		"additional": "• Carrying case included",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SplitSections() = %v, expected %v", got, expected)
	}
}

func TestSplitSections_Medical(t *testing.T) {
	text := "1. Key Findings:\n- Normal bone density\n2. Potential Observations:\n- No acute findings\n3. Recommendations:\n- Routine follow-up"
	got := SplitSections(text, MedicalSectionHeaders)

	if got["key findings"] != "- Normal bone density" {
		t.Errorf("key findings = %q", got["key findings"])
	}
	if got["potential observations"] != "- No acute findings" {
		t.Errorf("potential observations = %q", got["potential observations"])
	}
	if got["recommendations"] != "- Routine follow-up" {
		t.Errorf("recommendations = %q", got["recommendations"])
	}
}

func TestSplitSections_EdgeCases(t *testing.T) {
	// lines before the first header are dropped
	got := SplitSections("preamble text\nAbout:\ncontent", SEOSectionHeaders)
	if got["about"] != "content" {
		t.Errorf("about = %q", got["about"])
	}
	if len(got) != 1 {
		t.Errorf("expected single section, got %v", got)
	}

	// unknown headers are plain content
	got = SplitSections("About:\nSummary:\nstill about", SEOSectionHeaders)
	if got["about"] != "Summary:\nstill about" {
		t.Errorf("about = %q", got["about"])
	}

	// no headers at all
	if got := SplitSections("just some text", SEOSectionHeaders); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}

	// header casing is ignored
	got = SplitSections("ABOUT:\nshouty content", SEOSectionHeaders)
	if got["about"] != "shouty content" {
		t.Errorf("about = %q", got["about"])
	}
}

func TestTruncateWords(t *testing.T) {
	if got := TruncateWords("one two three four", 2); got != "one two" {
		t.Errorf("TruncateWords() = %q", got)
	}
	if got := TruncateWords("one two", 5); got != "one two" {
		t.Errorf("TruncateWords() = %q", got)
	}
	if got := TruncateWords("", 5); got != "" {
		t.Errorf("TruncateWords() = %q", got)
	}
}
