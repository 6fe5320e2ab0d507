package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

func TestPackWidths(t *testing.T) {
	tests := []struct {
		name   string
		widths []float64
		want   [][]float64
	}{
		{
			name:   "mixed halves full and thirds",
			widths: []float64{0.5, 0.5, 1.0, 0.33, 0.33, 0.33},
			want:   [][]float64{{0.5, 0.5}, {1.0}, {0.33, 0.33, 0.33}},
		},
		{
			name:   "incomplete rows are kept",
			widths: []float64{0.5, 1.0, 0.33},
			want:   [][]float64{{0.5}, {1.0}, {0.33}},
		},
		{
			name:   "half and third share a row",
			widths: []float64{0.5, 0.33, 0.33},
			want:   [][]float64{{0.5, 0.33}, {0.33}},
		},
		{
			name:   "empty input yields nil",
			widths: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PackWidths(tt.widths)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, PackWidths(tt.widths), "packing must be deterministic")
		})
	}
}

func TestPackContactFields(t *testing.T) {
	fields := []types.HeaderField{
		{ID: "name", Type: types.FieldFullName, Value: "Jane Doe", Enabled: true, Order: 0, Layout: types.LayoutFull},
		{ID: "phone", Type: types.FieldPhone, Value: "555", Enabled: true, Order: 3, Layout: types.LayoutHalf},
		{ID: "email", Type: types.FieldEmail, Value: "jane@example.com", Enabled: true, Order: 2, Layout: types.LayoutHalf},
		{ID: "loc", Type: types.FieldLocation, Value: "Madrid", Enabled: false, Order: 4, Layout: types.LayoutFull},
		{ID: "li", Type: types.FieldLinkedIn, Value: "   ", Enabled: true, Order: 5, Layout: types.LayoutHalf},
		{ID: "web", Type: types.FieldPortfolio, Value: "jane.dev", Enabled: true, Order: 6, Layout: types.LayoutFull},
	}

	rows := PackContactFields(fields)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"email", "phone"}, ids(rows[0]))
	assert.Equal(t, []string{"web"}, ids(rows[1]))
}

func TestPackContactFields_NoEligibleFields(t *testing.T) {
	fields := []types.HeaderField{
		{Type: types.FieldFullName, Value: "Jane", Enabled: true},
		{Type: types.FieldEmail, Value: "", Enabled: true},
	}
	assert.Nil(t, PackContactFields(fields))
	assert.Nil(t, PackContactFields(nil))
}

func ids(row []types.HeaderField) []string {
	out := make([]string, len(row))
	for i, f := range row {
		out[i] = f.ID
	}
	return out
}
