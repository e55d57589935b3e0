package domain

import "time"

// SourceKind identifies the acquisition channel a Source pulls from.
type SourceKind string

const (
	SourceKindManual SourceKind = "manual"
	SourceKindURL    SourceKind = "url"
	SourceKindEmail  SourceKind = "email"
)

// SourceRole distinguishes a regular inventory feed from a sale feed whose
// styles take precedence over a linked regular source (§4.7).
type SourceRole string

const (
	RoleRegular SourceRole = "regular"
	RoleSale    SourceRole = "sale"
)

// UpdateStrategy selects step 18's write semantics.
type UpdateStrategy string

const (
	StrategyFullSync UpdateStrategy = "full_sync"
	StrategyUpsert   UpdateStrategy = "upsert"
)

// Source (aka DataSource) is the configuration unit a user manages. Every
// import run is driven entirely by one Source value.
type Source struct {
	ID                 string
	DisplayName        string
	Kind               SourceKind
	Role               SourceRole
	LinkedSaleSourceID string
	MarketplaceStoreID string
	UpdateStrategy     UpdateStrategy
	SafetyThreshold    float64 // percent; 0 disables
	Schedule           Schedule
	Email              EmailSettings
	URLFetch           URLFetchSettings

	ColumnMapping    map[string]string // semantic field -> source header name
	Cleaning         CleaningConfig
	Discontinued     DiscontinuedConfig
	FutureStock      FutureStockConfig
	SizeLimit        SizeLimitConfig
	PriceExpansion   PriceExpansionConfig
	SalePrice        SalePriceConfig
	StockTextMapping map[string]int
	ComplexStock     []ComplexStockPattern
	ValueReplacement []ValueReplacementRule
	PriceFloorCeil   PriceFloorCeilingConfig
	RegularPrice     RegularPriceConfig
	StockInfo        StockInfoConfig
	Validation       ValidationConfig
	VariantRules     []VariantRule

	FormatType        string
	PivotConfigEnabled bool

	RetryIfNoEmail       bool
	RetryIntervalMinutes int
	RetryCutoffHour      int

	LastSyncAt       *time.Time
	LastImportStats  *ImportStats
}

// Schedule describes automatic acquisition timing for url/email sources.
type Schedule struct {
	Auto          bool
	FrequencyMins int
	LocalTime     string // wall-clock "HH:MM", local to the deployment
}

// EmailSettings configures the IMAP acquisition adapter.
type EmailSettings struct {
	Host                 string
	Port                 int
	TLS                  bool
	Username             string
	Password             string
	Folder               string
	SenderAllowlist       []string
	SubjectSubstring      string
	MarkAsRead           bool
	DeleteAfterDownload  bool
	ExtractLinksFromBody bool
	MultiFileMode        bool
	ExpectedFiles        int
}

// URLFetchSettings configures the scheduled HTTP GET acquisition adapter.
type URLFetchSettings struct {
	URL     string
	Headers map[string]string
	FileName string // used to drive format detection when the URL has no useful extension
}

// FindReplaceRule is an ordered case-insensitive regex replacement applied
// to style text during cleaning.
type FindReplaceRule struct {
	Pattern     string
	Replacement string
}

// StylePrefixRule maps a regex match against the raw style to a custom
// prefix, taking precedence over the source's display name (step 8).
type StylePrefixRule struct {
	Pattern string
	Prefix  string
}

// CleaningConfig drives C3's style/color cleaning pass.
type CleaningConfig struct {
	FindReplaceRules []FindReplaceRule
	RemoveFirstN     int
	RemoveLastN      int
	RemovePatterns   []string // literal strings, escaped before regex use
	TrimWhitespace   bool

	UseCustomPrefixes bool
	StylePrefixRules  []StylePrefixRule

	CombinedVariantColumn   string
	CombinedVariantDelimiter string
	CombinedVariantOrder    []string // e.g. []string{"style","color","size"}

	ConvertYesNo bool
	YesValue     string
	NoValue      string

	// LLMConfidenceThreshold overrides the package default (0.9) for this
	// source's color-suggestion advisor calls. Zero means "use default".
	LLMConfidenceThreshold float64
}

// DiscontinuedConfig controls the rule engine's discontinued detection
// (rule 5, pipeline step 10).
type DiscontinuedConfig struct {
	Enabled         bool
	Keywords        []string
	StatusColumn    string
	SkipDiscontinued bool
}

// FutureStockConfig controls the rule engine's future-stock handling
// (rule 7, pipeline step 10).
type FutureStockConfig struct {
	DateOnlyMode       bool
	UseFutureDateAsShipDate bool
	FutureDateColumn   string
}

// SizeBounds is an open-ended-on-nil set of inclusive bounds.
type SizeBounds struct {
	MinNumeric *float64
	MaxNumeric *float64
	MinLetter  string
	MaxLetter  string
}

// PrefixOverride supplies alternate SizeBounds for styles whose prefixed
// form matches Pattern (first match wins, §4.5).
type PrefixOverride struct {
	Pattern string
	Bounds  SizeBounds
}

// SizeLimitConfig is C5's size-limit filter configuration.
type SizeLimitConfig struct {
	Enabled          bool
	Bounds           SizeBounds
	PrefixOverrides  []PrefixOverride
	FilterZeroStock  bool
}

// PriceTier is one entry of PriceExpansionConfig.Tiers (§4.6).
type PriceTier struct {
	MinPrice   float64
	MaxPrice   *float64
	ExpandDown int
	ExpandUp   int
}

// PriceExpansionConfig drives C6.
type PriceExpansionConfig struct {
	Enabled           bool
	Tiers             []PriceTier
	DefaultExpandDown int
	DefaultExpandUp   int
}

// SalePriceConfig drives step 15's sale-source pricing pass.
type SalePriceConfig struct {
	Enabled          bool
	PriceMultiplier  float64
	UseCompareAtPrice bool

	// ColumnSaleConfig is the per-row override variant of sale pricing
	// (§9 open question, resolved in DESIGN.md: column config wins when
	// both are configured).
	ColumnSaleColumn string
}

// ComplexStockPattern matches raw stock-cell text and derives stock/date/
// flags from regex capture groups (§4.2, routed through C4).
type ComplexStockPattern struct {
	Name               string
	Pattern            string
	ExtractStockTmpl   string // literal "0" or a backreference like "$1"
	ExtractDateTmpl    string
	MarkDiscontinued   bool
	MarkSpecialOrder   bool
}

// ValueReplacementRule is a per-field literal string replacement (rule 1).
type ValueReplacementRule struct {
	Field       string
	FindValue   string
	ReplaceWith string
}

// PriceFloorCeilingConfig drives rule 9.
type PriceFloorCeilingConfig struct {
	Enabled bool
	Floor   *float64
	Ceiling *float64
	DropOutOfRange bool // false = clamp, true = drop
}

// RegularPriceConfig drives rule 8.
type RegularPriceConfig struct {
	SkipZeroPrice bool
	Multiplier    float64
}

// StockInfoConfig drives C8.
type StockInfoConfig struct {
	SizeExpansionMessage string
	InStockMessage       string
	FutureDateMessage    string
	OutOfStockMessage    string
	StockThreshold       int
	DateOffsetDays       int
}

// ValidationConfig drives C13's five check families.
type ValidationConfig struct {
	MinRowCount        int
	MaxRowCount        int
	RowCountTolerancePct float64
	// ExpectedColumns lists header names that must appear somewhere in
	// the file's header region for the import to proceed.
	ExpectedColumns []string

	// ChecksumEnabled gates family 2 explicitly because its zero
	// tolerance is meaningful (exact match), unlike the other families
	// whose zero values mean "skipped".
	ChecksumEnabled      bool
	ChecksumTolerancePct float64

	DistributionMinStockPct float64
	DistributionMinPricePct float64
	DistributionMinShipDatePct float64

	DeltaItemCountDropPct   float64
	DeltaTotalStockDropPct  float64
	DeltaUniqueStyleDropPct float64

	MinItems              int
	MaxItems              int
	MinFutureStockItems   int
	MaxDiscontinuedItems  int

	SpotChecks []SpotCheck
}

// SpotCheckCondition enumerates the condition a spot check asserts.
type SpotCheckCondition string

const (
	SpotExists          SpotCheckCondition = "exists"
	SpotStockPositive   SpotCheckCondition = "stock>0"
	SpotHasFutureDate   SpotCheckCondition = "has-future-date"
	SpotIsDiscontinued  SpotCheckCondition = "is-discontinued"
	SpotHasPrice        SpotCheckCondition = "has-price"
)

// SpotCheck asserts a condition about one (style, color?, size?) tuple.
type SpotCheck struct {
	Style     string
	Color     string
	Size      string
	Condition SpotCheckCondition
}

// VariantRule expands one size into a list of additional sizes (§4.5).
type VariantRule struct {
	FromSize string
	ToSizes  []string
}
