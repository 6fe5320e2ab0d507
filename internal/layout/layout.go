// Package layout packs header contact fields into display rows by fractional width.
package layout

import (
	"slices"
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// RowCapacity is the width of one row; Tolerance absorbs drift from summing thirds.
const (
	RowCapacity = 1.0
	Tolerance   = 0.01
)

// ContactFields returns the fields eligible for packing: enabled, non-empty
// after trimming, not fullName/jobPosition, sorted by Order (stable).
func ContactFields(fields []types.HeaderField) []types.HeaderField {
	var out []types.HeaderField
	for _, f := range fields {
		if !f.Enabled || f.IsIdentity() || strings.TrimSpace(f.Value) == "" {
			continue
		}
		out = append(out, f)
	}
	slices.SortStableFunc(out, func(a, b types.HeaderField) int {
		return a.Order - b.Order
	})
	return out
}

// PackContactFields groups the eligible header fields into rows. It returns
// nil when no field is eligible so callers can render nothing.
func PackContactFields(fields []types.HeaderField) [][]types.HeaderField {
	eligible := ContactFields(fields)
	if len(eligible) == 0 {
		return nil
	}
	return pack(eligible, func(f types.HeaderField) float64 { return f.Layout.Width() })
}

// PackWidths applies the packing rule to bare widths.
func PackWidths(widths []float64) [][]float64 {
	if len(widths) == 0 {
		return nil
	}
	return pack(widths, func(w float64) float64 { return w })
}

func pack[T any](items []T, width func(T) float64) [][]T {
	var (
		rows    [][]T
		current []T
		used    float64
	)
	for _, it := range items {
		w := width(it)
		if len(current) > 0 && used+w > RowCapacity+Tolerance {
			rows = append(rows, current)
			current, used = nil, 0
		}
		current = append(current, it)
		used += w
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}
