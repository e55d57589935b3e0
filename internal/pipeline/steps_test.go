package pipeline

import (
	"testing"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
)

func TestFilterSkipHonorsContinueSelling(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Size: "8", Stock: 5, Flags: domain.Flags{ShouldSkip: true}},
		{Style: "B", Size: "8", Stock: 5, Flags: domain.Flags{ShouldSkip: true, SkipUnlessContinueSell: true}},
		{Style: "C", Size: "8", Stock: 0, Flags: domain.Flags{ShouldSkip: true, SkipUnlessContinueSell: true}},
		{Style: "D", Size: "8", Stock: 0},
	}
	out := filterSkip(variants)
	if len(out) != 2 {
		t.Fatalf("expected B (in stock, continue selling) and D, got %+v", out)
	}
	if out[0].Style != "B" || out[1].Style != "D" {
		t.Fatalf("survivors = %+v", out)
	}
}

func TestFilterDiscontinuedZeroStock(t *testing.T) {
	variants := []domain.Variant{
		{Style: "A", Size: "8", Stock: 0, Flags: domain.Flags{Discontinued: true}},
		{Style: "B", Size: "8", Stock: 2, Flags: domain.Flags{Discontinued: true}},
		{Style: "C", Size: "8", Stock: 0, Flags: domain.Flags{Discontinued: true, HasFutureStock: true}},
	}
	out := filterDiscontinuedZeroStock(variants)
	if len(out) != 2 {
		t.Fatalf("expected discontinued-with-stock and future-stock to survive, got %+v", out)
	}
}

func TestDedupeMergesShipDateFromLoser(t *testing.T) {
	ship := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "8", Stock: 0, ShipDate: &ship},
		{Style: "a", Color: "RED", Size: "8", Stock: 4},
	}
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := dedupeAndZeroPastShipDates(variants, 0, today)
	if len(out) != 1 {
		t.Fatalf("case-insensitive dedupe failed: %+v", out)
	}
	if out[0].Stock != 4 {
		t.Fatalf("highest stock must win, got %d", out[0].Stock)
	}
	if out[0].ShipDate == nil || !out[0].ShipDate.Equal(ship) {
		t.Fatalf("winner must inherit the loser's ship date, got %v", out[0].ShipDate)
	}
}

func TestDedupeClearsPastFutureStock(t *testing.T) {
	past := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	variants := []domain.Variant{
		{Style: "A", Color: "Red", Size: "8", Stock: 0, ShipDate: &past, Flags: domain.Flags{HasFutureStock: true}},
	}
	today := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	out := dedupeAndZeroPastShipDates(variants, 7, today)
	if len(out) != 1 {
		t.Fatalf("got %+v", out)
	}
	if out[0].Flags.HasFutureStock {
		t.Fatal("a ship date whose offset window has passed must clear the future-stock flag")
	}
}

func TestApplyPrefixUsesBrandThenRulesThenDisplayName(t *testing.T) {
	source := domain.Source{
		DisplayName: "Fallback Vendor",
		Cleaning: domain.CleaningConfig{
			UseCustomPrefixes: true,
			StylePrefixRules:  []domain.StylePrefixRule{{Pattern: `^9`, Prefix: "Niner"}},
		},
	}
	variants := []domain.Variant{
		{Style: "1001", Color: "red", Size: "8", Flags: domain.Flags{Brand: "Jovani"}},
		{Style: "9001", Color: "navy blue", Size: "8"},
		{Style: "5001", Color: "ivory", Size: "8"},
	}
	out := applyPrefix(variants, source)
	if out[0].Style != "Jovani 1001" {
		t.Fatalf("brand must win: %q", out[0].Style)
	}
	if out[1].Style != "Niner 9001" {
		t.Fatalf("custom prefix rule must apply: %q", out[1].Style)
	}
	if out[2].Style != "Fallback Vendor 5001" {
		t.Fatalf("display name fallback: %q", out[2].Style)
	}
	if out[1].Color != "Navy Blue" {
		t.Fatalf("color must be title-cased: %q", out[1].Color)
	}
	if out[0].SKU != "Jovani-1001-Red-8" {
		t.Fatalf("SKU must be rebuilt after prefixing: %q", out[0].SKU)
	}
}

func TestApplyPrefixStripsSaleSuffixForSaleSources(t *testing.T) {
	source := domain.Source{DisplayName: "Jovani Sale", Role: domain.RoleSale}
	out := applyPrefix([]domain.Variant{{Style: "1012", Color: "red", Size: "4"}}, source)
	if out[0].Style != "Jovani 1012" {
		t.Fatalf("sale suffix must be stripped from the prefix: %q", out[0].Style)
	}
}

func TestApplySalePricingMultiplier(t *testing.T) {
	price := 100.0
	variants := []domain.Variant{{Style: "A", Size: "8", Price: &price}}
	out := applySalePricing(variants, domain.SalePriceConfig{Enabled: true, PriceMultiplier: 0.5})
	if *out[0].Price != 50 {
		t.Fatalf("price = %v, want 50", *out[0].Price)
	}
	// Disabled config is identity.
	out2 := applySalePricing(variants, domain.SalePriceConfig{})
	if *out2[0].Price != 100 {
		t.Fatalf("disabled sale pricing must not touch prices, got %v", *out2[0].Price)
	}
}

func TestApplyCompareAtCost(t *testing.T) {
	variants := []domain.Variant{{Style: "A", Size: "8", SKU: "A-Red-8"}}
	lookup := func(sku string) (float64, bool) {
		if sku == "A-Red-8" {
			return 598, true
		}
		return 0, false
	}
	out := applyCompareAtCost(variants, domain.SalePriceConfig{Enabled: true, UseCompareAtPrice: true}, lookup)
	if out[0].Cost == nil || *out[0].Cost != 598 {
		t.Fatalf("compare-at cost = %v, want 598", out[0].Cost)
	}
}

func TestConsolidateUsesFirstHeaderOnly(t *testing.T) {
	a := []byte("style,qty\nA100,1\n")
	b := []byte("style,qty\nB200,2\n")
	g, name, err := consolidate([]Buffer{{Name: "a.csv", Data: a}, {Name: "b.csv", Data: b}})
	if err != nil {
		t.Fatal(err)
	}
	if name != "a.csv" {
		t.Fatalf("consolidated name = %q", name)
	}
	if g.NumRows() != 3 {
		t.Fatalf("expected header + 2 data rows, got %d", g.NumRows())
	}
	if g.Cell(2, 0) != "B200" {
		t.Fatalf("second file's data must follow the first's: %+v", g.Rows)
	}
}
