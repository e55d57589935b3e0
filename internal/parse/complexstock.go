package parse

import "regexp"

// CompiledComplexStockPattern is a domain.ComplexStockPattern with its
// regex pre-compiled, assembled once per source config load.
type CompiledComplexStockPattern struct {
	Name             string
	Regex            *regexp.Regexp
	ExtractStockTmpl string
	ExtractDateTmpl  string
	MarkDiscontinued bool
	MarkSpecialOrder bool
}

// ApplyComplexStock matches raw stock-cell text against each configured
// pattern in order and returns the first match's derived stock/date/flags.
// ExtractStockTmpl may be a literal "0" or a backreference template like
// "$1" expanded against the match (§4.2).
func ApplyComplexStock(raw string, patterns []CompiledComplexStockPattern) (stock string, shipDate string, discontinued, specialOrder bool, matched bool) {
	for _, p := range patterns {
		loc := p.Regex.FindStringSubmatchIndex(raw)
		if loc == nil {
			continue
		}
		stock = string(p.Regex.ExpandString(nil, p.ExtractStockTmpl, raw, loc))
		shipDate = string(p.Regex.ExpandString(nil, p.ExtractDateTmpl, raw, loc))
		return stock, shipDate, p.MarkDiscontinued, p.MarkSpecialOrder, true
	}
	return "", "", false, false, false
}
