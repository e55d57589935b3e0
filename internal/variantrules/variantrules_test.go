package variantrules

import (
	"testing"

	"github.com/fenwickretail/invpipe/internal/domain"
)

func TestSizeLimitPrefixOverride(t *testing.T) {
	max20, max30 := 20.0, 30.0
	min2 := 2.0
	cfg := domain.SizeLimitConfig{
		Enabled: true,
		Bounds:  domain.SizeBounds{MinNumeric: &min2, MaxNumeric: &max20},
		PrefixOverrides: []domain.PrefixOverride{
			{Pattern: `^Jovani`, Bounds: domain.SizeBounds{MinNumeric: &min2, MaxNumeric: &max30}},
		},
	}
	variants := []domain.Variant{
		{Style: "Jovani-37001", Color: "Red", Size: "24"},
		{Style: "Other-37001", Color: "Red", Size: "24"},
	}
	out, stats := Apply(variants, cfg, nil)
	if len(out) != 1 || out[0].Style != "Jovani-37001" {
		t.Fatalf("expected only the overridden-prefix style to survive, got %+v", out)
	}
	if stats.SizeLimitFiltered != 1 {
		t.Fatalf("expected 1 filtered, got %d", stats.SizeLimitFiltered)
	}
}

func TestExpandSizesTagsExpandedFrom(t *testing.T) {
	variants := []domain.Variant{{Style: "A", Color: "Red", Size: "8", Stock: 3}}
	rules := []domain.VariantRule{{FromSize: "8", ToSizes: []string{"2", "4", "6", "10"}}}
	out, stats := Apply(variants, domain.SizeLimitConfig{}, rules)
	if len(out) != 5 {
		t.Fatalf("expected 1 original + 4 expanded, got %d", len(out))
	}
	if stats.SizesExpanded != 4 {
		t.Fatalf("expected 4 expanded, got %d", stats.SizesExpanded)
	}
	for _, v := range out[1:] {
		if !v.Flags.IsExpandedSize || v.Flags.ExpandedFrom != "8" {
			t.Fatalf("expected expanded flag set correctly, got %+v", v.Flags)
		}
	}
}
