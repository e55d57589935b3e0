package rules

import (
	"regexp"
	"testing"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
)

func TestApplyRegularPriceConfigSkipsZeroPrice(t *testing.T) {
	zero := 0.0
	variants := []domain.Variant{{Style: "A", Color: "Red", Size: "M", Price: &zero}}
	source := domain.Source{RegularPrice: domain.RegularPriceConfig{SkipZeroPrice: true}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 0 {
		t.Fatalf("expected zero-price variant dropped, got %+v", out)
	}
	if stats.ZeroPriceDropped != 1 {
		t.Fatalf("expected 1 zero-price drop, got %d", stats.ZeroPriceDropped)
	}
}

func TestApplyPriceFloorCeilingClamps(t *testing.T) {
	price := 5.0
	floor := 10.0
	variants := []domain.Variant{{Style: "A", Color: "Red", Size: "M", Price: &price}}
	source := domain.Source{PriceFloorCeil: domain.PriceFloorCeilingConfig{Enabled: true, Floor: &floor}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 1 || *out[0].Price != 10.0 {
		t.Fatalf("expected price clamped to floor 10, got %+v", out)
	}
	if stats.PriceClamped != 1 {
		t.Fatalf("expected 1 clamp, got %d", stats.PriceClamped)
	}
}

func TestApplyMinimumStockThresholdPreservesFutureStock(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "M", Stock: 0},
		{Style: "A", Color: "Red", Size: "L", Stock: 0, Flags: domain.Flags{HasFutureStock: true}},
	}
	source := domain.Source{SizeLimit: domain.SizeLimitConfig{FilterZeroStock: true}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 1 || out[0].Size != "L" {
		t.Fatalf("expected only the future-stock variant to survive, got %+v", out)
	}
	if stats.MinStockDropped != 1 {
		t.Fatalf("expected 1 min-stock drop, got %d", stats.MinStockDropped)
	}
}

func TestApplyValueReplacements(t *testing.T) {
	variants := []domain.Variant{{Style: "A", Color: "Wine Red", Size: "8"}}
	source := domain.Source{ValueReplacement: []domain.ValueReplacementRule{
		{Field: "color", FindValue: "Wine Red", ReplaceWith: "Burgundy"},
	}}
	out, stats := Apply(variants, source, nil)
	if out[0].Color != "Burgundy" {
		t.Fatalf("color = %q, want Burgundy", out[0].Color)
	}
	if stats.ValueReplacements != 1 {
		t.Fatalf("ValueReplacements = %d", stats.ValueReplacements)
	}
}

func TestApplyStockTextMappingsFromRawData(t *testing.T) {
	variants := []domain.Variant{{
		Style: "A", Color: "Red", Size: "8", Stock: 0,
		RawData: map[string]string{"stockRaw": "Last Piece"},
	}}
	source := domain.Source{StockTextMapping: map[string]int{"last piece": 1}}
	out, stats := Apply(variants, source, nil)
	if out[0].Stock != 1 {
		t.Fatalf("stock = %d, want mapped 1", out[0].Stock)
	}
	if stats.StockTextMapped != 1 {
		t.Fatalf("StockTextMapped = %d", stats.StockTextMapped)
	}
}

func TestApplyComplexStockPatternRule(t *testing.T) {
	patterns := []parse.CompiledComplexStockPattern{{
		Name:             "eta",
		Regex:            regexp.MustCompile(`ETA (\d{4}-\d{2}-\d{2})`),
		ExtractStockTmpl: "0",
		ExtractDateTmpl:  "$1",
		MarkSpecialOrder: true,
	}}
	variants := []domain.Variant{{
		Style: "A", Color: "Red", Size: "8", Stock: 4,
		RawData: map[string]string{"stockRaw": "ETA 2026-09-15"},
	}}
	out, stats := Apply(variants, domain.Source{}, patterns)
	if out[0].Stock != 0 {
		t.Fatalf("stock = %d, want extracted 0", out[0].Stock)
	}
	if out[0].ShipDate == nil || out[0].ShipDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("ship date = %v", out[0].ShipDate)
	}
	if !out[0].Flags.SpecialOrder {
		t.Fatal("special-order flag must be set by the matching pattern")
	}
	if stats.ComplexStockMatched != 1 {
		t.Fatalf("ComplexStockMatched = %d", stats.ComplexStockMatched)
	}
}

func TestApplyDiscontinuedKeywordsSkip(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Size: "8", Stock: 2, RawData: map[string]string{"status": "DISCO - no reorder"}},
		{Style: "B", Size: "8", Stock: 2, RawData: map[string]string{"status": "active"}},
	}
	source := domain.Source{Discontinued: domain.DiscontinuedConfig{
		Enabled:          true,
		Keywords:         []string{"disco"},
		StatusColumn:     "status",
		SkipDiscontinued: true,
	}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 1 || out[0].Style != "B" {
		t.Fatalf("discontinued-by-keyword must be dropped: %+v", out)
	}
	if stats.DiscontinuedFiltered != 1 {
		t.Fatalf("DiscontinuedFiltered = %d", stats.DiscontinuedFiltered)
	}
}

func TestApplyDiscontinuedKeywordsFlagWithoutSkip(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Size: "8", Stock: 2, RawData: map[string]string{"status": "discontinued"}},
	}
	source := domain.Source{Discontinued: domain.DiscontinuedConfig{
		Enabled:      true,
		Keywords:     []string{"discontinued"},
		StatusColumn: "status",
	}}
	out, _ := Apply(variants, source, nil)
	if len(out) != 1 || !out[0].Flags.Discontinued {
		t.Fatalf("without skipDiscontinued the variant stays, flagged: %+v", out)
	}
}

func TestApplyColumnSalePricing(t *testing.T) {
	orig := 100.0
	variants := []domain.Variant{{
		Style: "A", Size: "8", Price: &orig,
		RawData: map[string]string{"sale_price": "$80"},
	}}
	source := domain.Source{SalePrice: domain.SalePriceConfig{
		ColumnSaleColumn: "sale_price",
		PriceMultiplier:  0.5,
	}}
	out, stats := Apply(variants, source, nil)
	if out[0].Price == nil || *out[0].Price != 40 {
		t.Fatalf("price = %v, want 80 x 0.5 = 40", out[0].Price)
	}
	if stats.SalePricingApplied != 1 {
		t.Fatalf("SalePricingApplied = %d", stats.SalePricingApplied)
	}
}

func TestApplyRequiredFields(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "8"},
		{Style: "B", Color: "", Size: "8"},
	}
	source := domain.Source{ColumnMapping: map[string]string{"__requiredFields": "style,color"}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 1 || out[0].Style != "A" {
		t.Fatalf("missing required color must drop the variant: %+v", out)
	}
	if stats.RequiredFieldDropped != 1 {
		t.Fatalf("RequiredFieldDropped = %d", stats.RequiredFieldDropped)
	}
}

func TestApplyPriceFloorCeilingDropsWhenConfigured(t *testing.T) {
	low, high := 5.0, 5000.0
	floor, ceiling := 50.0, 2000.0
	variants := []domain.Variant{
		{Style: "A", Size: "8", Price: &low},
		{Style: "B", Size: "8", Price: &high},
	}
	source := domain.Source{PriceFloorCeil: domain.PriceFloorCeilingConfig{
		Enabled: true, Floor: &floor, Ceiling: &ceiling, DropOutOfRange: true,
	}}
	out, stats := Apply(variants, source, nil)
	if len(out) != 0 {
		t.Fatalf("both out-of-range prices must drop: %+v", out)
	}
	if stats.PriceDropped != 2 {
		t.Fatalf("PriceDropped = %d", stats.PriceDropped)
	}
}
