package stockinfo

import (
	"testing"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
)

func TestRenderPriorityInStockBeatsFutureDate(t *testing.T) {
	shipDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	v := domain.Variant{Stock: 10, ShipDate: &shipDate}
	cfg := domain.StockInfoConfig{
		InStockMessage:    "In stock",
		FutureDateMessage: "Ships {date}",
		OutOfStockMessage: "Out of stock",
		StockThreshold:    0,
	}
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	got := Render(v, cfg, nil, today)
	if got != "In stock" {
		t.Fatalf("Render = %q, want %q", got, "In stock")
	}
}

func TestRenderFutureDateWhenOutOfStock(t *testing.T) {
	shipDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	v := domain.Variant{Stock: 0, ShipDate: &shipDate}
	cfg := domain.StockInfoConfig{
		InStockMessage:    "In stock",
		FutureDateMessage: "Ships {date}",
		OutOfStockMessage: "Out of stock",
		StockThreshold:    0,
	}
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	got := Render(v, cfg, nil, today)
	want := "Ships March 1, 2026"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderExpandedSizeBeatsEverything(t *testing.T) {
	shipDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	v := domain.Variant{Stock: 10, ShipDate: &shipDate, Flags: domain.Flags{IsExpandedSize: true}}
	cfg := domain.StockInfoConfig{
		SizeExpansionMessage: "Made to order",
		InStockMessage:       "In stock",
		FutureDateMessage:    "Ships {date}",
		OutOfStockMessage:    "Out of stock",
	}
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := Render(v, cfg, nil, today); got != "Made to order" {
		t.Fatalf("Render = %q, expanded-size message has top priority (P10)", got)
	}
}

func TestRenderLegacyMetafieldFallback(t *testing.T) {
	v := domain.Variant{Stock: 3}
	legacy := &LegacyMetafieldRule{
		Active:          true,
		StockInfoConfig: domain.StockInfoConfig{InStockMessage: "Ready to ship"},
	}
	if got := Render(v, domain.StockInfoConfig{}, legacy, time.Now()); got != "Ready to ship" {
		t.Fatalf("Render = %q, want the legacy rule when the source has no config", got)
	}
}

func TestRenderNoConfigNoMessage(t *testing.T) {
	if got := Render(domain.Variant{Stock: 3}, domain.StockInfoConfig{}, nil, time.Now()); got != "" {
		t.Fatalf("Render = %q, want empty with neither config nor legacy rule", got)
	}
}

func TestRenderDateOffsetPushesPastDateToOutOfStock(t *testing.T) {
	shipDate := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	v := domain.Variant{Stock: 0, ShipDate: &shipDate}
	cfg := domain.StockInfoConfig{
		FutureDateMessage: "Ships {date}",
		OutOfStockMessage: "Out of stock",
		DateOffsetDays:    -15,
	}
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := Render(v, cfg, nil, today); got != "Out of stock" {
		t.Fatalf("Render = %q, offset date no longer in the future must fall through", got)
	}
}

func TestRenderOutOfStockFallback(t *testing.T) {
	v := domain.Variant{Stock: 0}
	cfg := domain.StockInfoConfig{OutOfStockMessage: "Out of stock {date}"}
	got := Render(v, cfg, nil, time.Now())
	if got != "Out of stock " {
		t.Fatalf("Render = %q, want trailing-date removed", got)
	}
}
