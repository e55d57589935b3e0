// Package clean implements the Cleaner (C3): style text normalization,
// size mandate, color normalization and mapping (with optional LLM
// suggestion), dedupe by (style, color, size), and SKU rebuild.
package clean

import (
	"regexp"
	"strings"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// CleanStyle applies §4.3's stable-order style cleaning pipeline: trim,
// collapse whitespace runs, removeFirstN/removeLastN, ordered
// find/replace rules (case-insensitive regex), ordered remove-patterns
// (literal strings escaped before regex use).
func CleanStyle(style string, cfg domain.CleaningConfig) string {
	s := style
	if cfg.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	s = collapseWhitespace(s)

	if cfg.RemoveFirstN > 0 && cfg.RemoveFirstN < len(s) {
		s = s[cfg.RemoveFirstN:]
	}
	if cfg.RemoveLastN > 0 && cfg.RemoveLastN < len(s) {
		s = s[:len(s)-cfg.RemoveLastN]
	}

	for _, rule := range cfg.FindReplaceRules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			continue
		}
		s = re.ReplaceAllString(s, rule.Replacement)
	}

	for _, pattern := range cfg.RemovePatterns {
		re := regexp.MustCompile(regexp.QuoteMeta(pattern))
		s = re.ReplaceAllString(s, "")
	}

	return strings.TrimSpace(s)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// ResolvePrefix computes step 8's style prefix: brand (if set by a
// layout parser) takes priority, then the first matching custom prefix
// rule, else the source's display name with a trailing "Sale"/"Sales"
// stripped for sale sources.
func ResolvePrefix(brand string, rawStyle string, source domain.Source) string {
	if brand != "" {
		return brand
	}
	if source.Cleaning.UseCustomPrefixes {
		for _, rule := range source.Cleaning.StylePrefixRules {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				continue
			}
			if re.MatchString(rawStyle) {
				return rule.Prefix
			}
		}
	}
	name := source.DisplayName
	if source.Role == domain.RoleSale {
		name = stripTrailingSaleSuffix(name)
	}
	return name
}

var saleSuffixRe = regexp.MustCompile(`(?i)\s+sales?$`)

func stripTrailingSaleSuffix(name string) string {
	return strings.TrimSpace(saleSuffixRe.ReplaceAllString(name, ""))
}
