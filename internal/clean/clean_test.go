package clean

import (
	"context"
	"testing"

	"github.com/fenwickretail/invpipe/internal/domain"
)

func TestRunDropsEmptySizeButKeepsZero(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "", Stock: 5},
		{Style: "A", Color: "Red", Size: "0", Stock: 2},
	}
	out, stats := Run(context.Background(), variants, domain.Source{}, nil, nil, nil)
	if stats.NoSizeDropped != 1 {
		t.Fatalf("expected 1 dropped for empty size, got %d", stats.NoSizeDropped)
	}
	if len(out) != 1 || out[0].Size != "0" {
		t.Fatalf("expected the zero-size variant to survive, got %+v", out)
	}
}

func TestDedupeKeepsHighestStock(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "M", Stock: 2},
		{Style: "A", Color: "red", Size: "m", Stock: 9},
	}
	out, stats := Run(context.Background(), variants, domain.Source{}, nil, nil, nil)
	if stats.Deduped != 1 {
		t.Fatalf("expected 1 dedupe, got %d", stats.Deduped)
	}
	if len(out) != 1 || out[0].Stock != 9 {
		t.Fatalf("expected surviving record to have stock 9, got %+v", out)
	}
}

func TestCleanStyleAppliesRemoveFirstN(t *testing.T) {
	cfg := domain.CleaningConfig{RemoveFirstN: 2, TrimWhitespace: true}
	got := CleanStyle("XX12345", cfg)
	if got != "12345" {
		t.Fatalf("CleanStyle = %q, want 12345", got)
	}
}

func TestCleanStyleRuleOrder(t *testing.T) {
	cfg := domain.CleaningConfig{
		TrimWhitespace: true,
		FindReplaceRules: []domain.FindReplaceRule{
			{Pattern: `(?i)style\s*#?`, Replacement: ""},
			{Pattern: `\s*\(sample\)`, Replacement: ""},
		},
		RemovePatterns: []string{"*"},
	}
	got := CleanStyle("  Style #88123* (sample)  ", cfg)
	if got != "88123" {
		t.Fatalf("CleanStyle = %q, want 88123", got)
	}
}

func TestCleanStyleRemoveLastN(t *testing.T) {
	cfg := domain.CleaningConfig{RemoveLastN: 3, TrimWhitespace: true}
	if got := CleanStyle("88123-US", cfg); got != "88123" {
		t.Fatalf("CleanStyle = %q, want 88123", got)
	}
}

func TestCleanStyleCollapsesWhitespace(t *testing.T) {
	if got := CleanStyle("AB   123\t456", domain.CleaningConfig{}); got != "AB 123 456" {
		t.Fatalf("CleanStyle = %q", got)
	}
}

func TestResolvePrefixSaleSuffixVariants(t *testing.T) {
	for _, name := range []string{"Jovani Sale", "Jovani Sales", "Jovani  sale"} {
		src := domain.Source{DisplayName: name, Role: domain.RoleSale}
		if got := ResolvePrefix("", "1012", src); got != "Jovani" {
			t.Errorf("ResolvePrefix(%q) = %q, want Jovani", name, got)
		}
	}
	regular := domain.Source{DisplayName: "Jovani Sale", Role: domain.RoleRegular}
	if got := ResolvePrefix("", "1012", regular); got != "Jovani Sale" {
		t.Fatalf("regular sources keep their display name verbatim, got %q", got)
	}
}
