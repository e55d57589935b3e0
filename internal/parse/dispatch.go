package parse

// Parse dispatches to the layout-specific reader for the given format,
// falling back to the generic row parser for an unrecognized or empty
// format (§4.2).
func Parse(format Format, g Grid, cfg Config) []Row {
	switch format {
	case FormatTarikEdiz:
		return ParseTarikEdiz(g, cfg)
	case FormatJovaniSale:
		return ParseJovaniSale(g, cfg)
	case FormatSherriHill:
		return ParseSherriHill(g, cfg)
	case FormatFeriani:
		return ParseFeriani(g, cfg)
	case FormatGenericPivot:
		return ParseGenericPivot(g, cfg)
	case FormatOTS:
		return ParseOTS(g, cfg)
	case FormatPRDateHeaders:
		return ParsePRDateHeaders(g, cfg)
	case FormatGRNInvoice:
		return ParseGRNInvoice(g, cfg)
	case FormatStoreMultibrand:
		return ParseStoreMultibrand(g, cfg)
	case FormatRow, "":
		return ParseRow(g, cfg)
	default:
		return ParseRow(g, cfg)
	}
}
