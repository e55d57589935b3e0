package clean

import (
	"context"
	"regexp"
	"strings"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/sku"
)

// DefaultLLMConfidenceThreshold is the package-level default confidence
// cutoff for auto-applying an LLM color suggestion (§4.3, §9 open
// question 3). Overridable per source via CleaningConfig.LLMConfidenceThreshold.
const DefaultLLMConfidenceThreshold = 0.9

var (
	slashDashSpace = regexp.MustCompile(`\s*[/-]\s*`)
	ampersandSpace = regexp.MustCompile(`\s*&\s*`)
)

// NormalizeColor implements §4.3's color normalization: trim, collapse
// internal whitespace, strip whitespace around `/` and `-`, single-space
// around `&`.
func NormalizeColor(raw string) string {
	s := strings.TrimSpace(raw)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = slashDashSpace.ReplaceAllStringFunc(s, func(m string) string {
		return strings.TrimSpace(m)
	})
	s = ampersandSpace.ReplaceAllString(s, " & ")
	return s
}

// TitleCaseColor delegates to sku.TitleCase, the shared tokenizer used
// both here and for SKU rebuild.
func TitleCaseColor(s string) string {
	return sku.TitleCase(s)
}

// ColorAdvisor is the opaque LLM-backed color suggestion interface (§4.3,
// §9). Implementations must be timeout-bounded and must never block the
// pipeline: a failure or timeout means "no suggestion", not an error.
type ColorAdvisor interface {
	SuggestBatch(ctx context.Context, candidates []string) []ColorSuggestion
}

// ColorSuggestion is one LLM-advisor response.
type ColorSuggestion struct {
	Bad        string
	Good       string
	Confidence float64
}

// ResolveColor applies the global color-mapping table, then (for
// abbreviation-looking values not resolved by the map) consults the LLM
// advisor, auto-applying only suggestions at or above the confidence
// threshold. Values in the closed valid-color-word set bypass the
// advisor entirely, even in all caps.
func ResolveColor(ctx context.Context, raw string, mappings map[string]string, advisor ColorAdvisor, threshold float64, reviewSink func(ColorSuggestion)) string {
	normalized := NormalizeColor(raw)
	upper := strings.ToUpper(normalized)

	if good, ok := mappings[upper]; ok {
		return TitleCaseColor(good)
	}

	if validColorWords[upper] {
		return TitleCaseColor(normalized)
	}

	if !knownAbbreviations[upper] || advisor == nil {
		return TitleCaseColor(normalized)
	}

	if threshold <= 0 {
		threshold = DefaultLLMConfidenceThreshold
	}

	suggestions := advisor.SuggestBatch(ctx, []string{upper})
	for _, s := range suggestions {
		if s.Bad != upper {
			continue
		}
		if s.Confidence >= threshold {
			return TitleCaseColor(s.Good)
		}
		if reviewSink != nil {
			reviewSink(s)
		}
	}
	return TitleCaseColor(normalized)
}

// ResolveColorFromSource is a convenience wrapper binding ResolveColor to
// a domain.Source's configured threshold override.
func ResolveColorFromSource(ctx context.Context, raw string, mappings map[string]string, advisor ColorAdvisor, source domain.Source, reviewSink func(ColorSuggestion)) string {
	return ResolveColor(ctx, raw, mappings, advisor, source.Cleaning.LLMConfidenceThreshold, reviewSink)
}
