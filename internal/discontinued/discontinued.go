// Package discontinued implements the Discontinued-Styles Cross-Reference
// (C7): a sale source "owns" the styles it contains, and linked regular
// sources exclude variants matching an active registration.
package discontinued

import (
	"context"
	"strings"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// Registry persists and reads back domain.DiscontinuedStyleRegistration
// rows. The postgres implementation lives in internal/repository.
type Registry interface {
	UpsertActive(ctx context.Context, saleSourceID string, normalizedStyles []string) error
	DeactivateMissing(ctx context.Context, saleSourceID string, normalizedStyles []string) error
	ActiveStyles(ctx context.Context, saleSourceID string) (map[string]bool, error)
}

// RegisterSaleStyles implements step 20's post-import registration: the
// set of unique normalized styles from a successful sale-source import is
// upserted active, and anything previously active but absent from this
// run is deactivated (P5).
func RegisterSaleStyles(ctx context.Context, reg Registry, saleSourceID string, variants []domain.Variant) error {
	seen := make(map[string]bool)
	var styles []string
	for _, v := range variants {
		n := Normalize(v.Style)
		if !seen[n] {
			seen[n] = true
			styles = append(styles, n)
		}
	}
	if err := reg.UpsertActive(ctx, saleSourceID, styles); err != nil {
		return err
	}
	return reg.DeactivateMissing(ctx, saleSourceID, styles)
}

// FilterRegularSource implements §4.7's regular-source exclusion: any
// variant whose normalized style matches an active registration under
// the linked sale source is filtered out (P6).
func FilterRegularSource(ctx context.Context, reg Registry, linkedSaleSourceID string, variants []domain.Variant) ([]domain.Variant, []string, error) {
	if linkedSaleSourceID == "" {
		return variants, nil, nil
	}
	active, err := reg.ActiveStyles(ctx, linkedSaleSourceID)
	if err != nil {
		return nil, nil, err
	}

	var kept []domain.Variant
	var excludedStyles []string
	seenExcluded := make(map[string]bool)
	for _, v := range variants {
		n := Normalize(v.Style)
		if active[n] {
			if !seenExcluded[n] {
				seenExcluded[n] = true
				excludedStyles = append(excludedStyles, n)
			}
			continue
		}
		kept = append(kept, v)
	}
	return kept, excludedStyles, nil
}

// Normalize canonicalizes a style string for registry comparisons:
// upper-case, trimmed.
func Normalize(style string) string {
	return strings.ToUpper(strings.TrimSpace(style))
}
