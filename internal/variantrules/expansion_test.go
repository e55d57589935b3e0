package variantrules

import (
	"testing"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
)

func TestExpandSizesRespectsPrefixOverride(t *testing.T) {
	min, max := 2.0, 20.0
	overrideMax := 30.0
	cfg := domain.SizeLimitConfig{
		Enabled: true,
		Bounds:  domain.SizeBounds{MinNumeric: &min, MaxNumeric: &max},
		PrefixOverrides: []domain.PrefixOverride{
			{Pattern: `^Jovani`, Bounds: domain.SizeBounds{MinNumeric: &min, MaxNumeric: &overrideMax}},
		},
	}
	rules := []domain.VariantRule{{FromSize: "20", ToSizes: []string{"22", "24", "26", "32"}}}

	jovani := []domain.Variant{{Style: "Jovani 37001", Size: "20", Stock: 1}}
	out, _ := Apply(jovani, cfg, rules)
	sizes := map[string]bool{}
	for _, v := range out {
		sizes[v.Size] = true
	}
	for _, want := range []string{"22", "24", "26"} {
		if !sizes[want] {
			t.Fatalf("override to 30 must admit %s: %v", want, sizes)
		}
	}
	if sizes["32"] {
		t.Fatal("32 exceeds even the override bound")
	}

	other := []domain.Variant{{Style: "Feriani 88", Size: "20", Stock: 1}}
	out2, _ := Apply(other, cfg, rules)
	for _, v := range out2 {
		if v.Flags.IsExpandedSize {
			t.Fatalf("source-wide max of 20 must reject every expansion, got %+v", v)
		}
	}
}

func TestZeroStockFilterKeepsFutureShipDates(t *testing.T) {
	cfg := domain.SizeLimitConfig{FilterZeroStock: true}
	ship := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Variant{
		{Style: "A", Size: "8", Stock: 0},
		{Style: "A", Size: "10", Stock: 0, ShipDate: &ship},
		{Style: "A", Size: "12", Stock: 0, Flags: domain.Flags{PreserveZeroStock: true}},
	}
	out, stats := Apply(in, cfg, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %+v", out)
	}
	if stats.ZeroStockFiltered != 1 {
		t.Fatalf("ZeroStockFiltered = %d", stats.ZeroStockFiltered)
	}
}

func TestLetterBounds(t *testing.T) {
	cfg := domain.SizeLimitConfig{
		Enabled: true,
		Bounds:  domain.SizeBounds{MinLetter: "XS", MaxLetter: "XL"},
	}
	in := []domain.Variant{
		{Style: "A", Size: "XXS", Stock: 1},
		{Style: "A", Size: "M", Stock: 1},
		{Style: "A", Size: "XXL", Stock: 1},
	}
	out, stats := Apply(in, cfg, nil)
	if len(out) != 1 || out[0].Size != "M" {
		t.Fatalf("letter bounds must keep only M: %+v", out)
	}
	if stats.SizeLimitFiltered != 2 {
		t.Fatalf("SizeLimitFiltered = %d", stats.SizeLimitFiltered)
	}
}

func TestOpenEndedBounds(t *testing.T) {
	max := 12.0
	cfg := domain.SizeLimitConfig{
		Enabled: true,
		Bounds:  domain.SizeBounds{MaxNumeric: &max},
	}
	in := []domain.Variant{
		{Style: "A", Size: "000", Stock: 1},
		{Style: "A", Size: "12", Stock: 1},
		{Style: "A", Size: "14", Stock: 1},
		{Style: "A", Size: "ONE SIZE", Stock: 1},
	}
	out, _ := Apply(in, cfg, nil)
	if len(out) != 3 {
		t.Fatalf("nil min must be open-ended and unknown tokens pass: %+v", out)
	}
	for _, v := range out {
		if v.Size == "14" {
			t.Fatal("14 exceeds the max bound")
		}
	}
}
