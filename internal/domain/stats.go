package domain

import "time"

// StyleSummary is one per-style rollup inside an ImportStats report.
type StyleSummary struct {
	Style       string
	VariantCount int
	Colors      []string
	Sizes       []string
	TotalStock  int
	Discontinued bool
	HasFutureStock bool
	SKUs        []string // capped at 50
}

// ImportStats is written at the end of every successful run and consulted
// by the next run's historical delta checks (C13 family 4).
type ImportStats struct {
	Timestamp             time.Time
	SourceKind            SourceKind
	ItemCount             int
	TotalStock            int
	UniqueStyleCount      int
	UniqueColorCount      int
	ItemsWithPriceCount   int
	ItemsWithShipDateCount int
	DiscontinuedCount     int
	ExpandedSizeCount     int
	FutureStockCount      int
	StyleList             []string // capped at 2000
	ColorList             []string // capped at 500
	StyleSummaries        []StyleSummary
	Prefix                string
}

const (
	maxStyleList = 2000
	maxColorList = 500
	maxSKUsPerStyle = 50
)
