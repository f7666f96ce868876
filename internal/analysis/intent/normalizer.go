package intent

import (
	"regexp"
	"strings"
)

// normalizeRule rewrites a known speech-to-text mis-transcription. Guard, when
// set, must match before the rule applies so homophone fixes do not fire on
// unrelated text.
type normalizeRule struct {
	pattern     *regexp.Regexp
	replacement string
	guard       func(lowered string) bool
	tag         string
}

var aiContextKeywords = []string{"research", "sources", "impact", "technology", "tech", "ai"}

var normalizeRules = []normalizeRule{
	{
		pattern:     regexp.MustCompile(`(?i)\bcontry\b`),
		replacement: "country",
		tag:         "contry->country",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bexport play\b`),
		replacement: "export plan",
		tag:         "export play->export plan",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\brise of i\b`),
		replacement: "rise of AI",
		guard: func(lowered string) bool {
			for _, k := range aiContextKeywords {
				if strings.Contains(lowered, k) {
					return true
				}
			}
			return false
		},
		tag: "rise of I->rise of AI",
	},
}

// Normalize corrects known speech-to-text mis-transcriptions before
// classification. It is pure and idempotent: running it on its own output
// changes nothing and yields no corrections.
func Normalize(text string) (string, []string) {
	normalized := text
	var corrections []string
	for _, rule := range normalizeRules {
		lowered := strings.ToLower(normalized)
		if rule.guard != nil && !rule.guard(lowered) {
			continue
		}
		if !rule.pattern.MatchString(normalized) {
			continue
		}
		normalized = rule.pattern.ReplaceAllString(normalized, rule.replacement)
		corrections = append(corrections, rule.tag)
	}
	return normalized, corrections
}
