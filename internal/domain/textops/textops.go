// Package textops holds the plain-text transforms shared by the
// enrichment flows: hashtag extraction, keyword ranking, and the
// header-delimited section parser used on model output.
package textops

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"up": true, "about": true, "into": true, "over": true, "after": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"should": true,
}

// Hashtags pulls '#'-prefixed tokens out of a caption. When the caption
// carries none, it falls back to tagging the longer context words, at
// most five. The result is a single space-joined string.
func Hashtags(caption, context string) string {
	tags := lo.Filter(strings.Fields(caption), func(w string, _ int) bool {
		return strings.HasPrefix(w, "#")
	})
	if len(tags) == 0 {
		words := lo.Filter(strings.Fields(context), func(w string, _ int) bool {
			return len(w) > 3
		})
		tags = lo.Map(words, func(w string, _ int) string {
			return "#" + strings.ToLower(w)
		})
		if len(tags) > 5 {
			tags = tags[:5]
		}
	}
	return strings.Join(tags, " ")
}

// Keywords ranks the non-stop-words of text by frequency and returns
// the top ten. Words shorter than three characters are skipped. The
// order is stable: ties resolve by first appearance.
func Keywords(text string) []string {
	if text == "" {
		return []string{}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) < 3 || stopWords[w] {
			continue
		}
		if _, ok := counts[w]; !ok {
			firstSeen[w] = i
		}
		counts[w]++
	}

	words := lo.Keys(counts)
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > 10 {
		words = words[:10]
	}
	return words
}

// SplitSections walks text line by line. A line whose lowercased form
// starts with one of the header prefixes opens a new section keyed by
// the mapped name; every other non-blank line belongs to the current
// section. Lines before the first header are dropped.
func SplitSections(text string, headers map[string]string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var content []string

	flush := func() {
		if current != "" {
			sections[current] = strings.Join(content, "\n")
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		matched := false
		lower := strings.ToLower(line)
		for prefix, key := range headers {
			if strings.HasPrefix(lower, strings.ToLower(prefix)) {
				flush()
				current = key
				content = nil
				matched = true
				break
			}
		}
		if !matched {
			content = append(content, line)
		}
	}
	flush()
	return sections
}

// SEOSectionHeaders maps the product description headers to their
// response keys.
var SEOSectionHeaders = map[string]string{
	"about:":      "about",
	"technical:":  "technical",
	"additional:": "additional",
}

// MedicalSectionHeaders maps the numbered report headers to their
// response keys.
var MedicalSectionHeaders = map[string]string{
	"1. key findings:":           "key findings",
	"2. potential observations:": "potential observations",
	"3. recommendations:":        "recommendations",
}

// TruncateWords caps text at n words, used on generated context.
func TruncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}
