package parse

// ResolveFormat implements C1 (detect) and C12 (learn) together: a source
// with a previously-learned FormatType skips probing and goes straight to
// that layout's parser. Only when the saved layout comes back empty does
// it re-probe, and only falls back to the row parser when fresh detection
// no longer confirms the saved format either (§4.12).
//
// usedFormat is always a production-ready format to parse with; shouldLearn
// is true exactly when the caller should persist a new FormatType back to
// the source config (first successful detection, or a correction down to
// the row parser after the saved format stopped matching).
func ResolveFormat(savedFormat Format, g Grid, sourceName, fileName string, cfg Config) (rows []Row, usedFormat Format, shouldLearn bool) {
	if savedFormat != "" {
		rows = Parse(savedFormat, g, cfg)
		if len(rows) > 0 {
			return rows, savedFormat, false
		}

		// Saved layout returned nothing. Re-probe; if detection still
		// confirms the saved format, trust it was simply an empty file
		// rather than overwrite a good saved layout.
		if detected, ok := detectWithoutRowFallback(g, sourceName, fileName); ok && detected == savedFormat {
			return rows, savedFormat, false
		}

		rowRows := Parse(FormatRow, g, cfg)
		if len(rowRows) > 0 {
			return rowRows, FormatRow, true
		}
		return rows, savedFormat, false
	}

	detected := Detect(g, sourceName, fileName)
	if detected == "" {
		return Parse(FormatRow, g, cfg), FormatRow, false
	}
	rows = Parse(detected, g, cfg)
	if len(rows) == 0 {
		rowRows := Parse(FormatRow, g, cfg)
		if len(rowRows) > 0 {
			return rowRows, FormatRow, false
		}
		return rows, detected, false
	}
	return rows, detected, true
}

func detectWithoutRowFallback(g Grid, sourceName, fileName string) (Format, bool) {
	f := Detect(g, sourceName, fileName)
	return f, f != ""
}
