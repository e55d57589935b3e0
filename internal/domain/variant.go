package domain

import "time"

// Flags carries the boolean/string state attached to a Variant outside its
// core identity fields.
type Flags struct {
	Discontinued          bool
	HasFutureStock        bool
	PreserveZeroStock     bool
	IsExpandedSize        bool
	ExpandedFrom          string
	ShouldSkip            bool
	SkipUnlessContinueSell bool
	SpecialOrder          bool
	Brand                 string
	StockInfoMessage      string
	SaleOwnsStyle         bool
}

// Variant is the canonical pipeline record every layout parser emits and
// every transform step in the orchestrator consumes. Identity is the tuple
// (Style, Color, Size) — see invariant I2.
type Variant struct {
	Style    string
	Color    string
	Size     string
	Stock    int
	Price    *float64
	Cost     *float64
	ShipDate *time.Time
	SKU      string
	Flags    Flags

	// RawData carries source-row provenance (original cell values) for
	// debugging and validation spot checks. Never consulted by business
	// rules themselves.
	RawData map[string]string
}

// Key returns the (style, color, size) identity tuple used for dedupe and
// persisted-row uniqueness (P2).
func (v Variant) Key() VariantKey {
	return VariantKey{Style: v.Style, Color: v.Color, Size: v.Size}
}

// VariantKey is the comparable identity of a Variant, usable as a map key.
type VariantKey struct {
	Style string
	Color string
	Size  string
}

// InventoryItem is a Variant persisted against a source, optionally tagged
// with the file it came from.
type InventoryItem struct {
	Variant
	SourceID      string
	FileID        string
	SaleOwnsStyle bool
}
