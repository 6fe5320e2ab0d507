package ordering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

// fixture: active a0..a4, inactive i0..i3.
func fixture() []types.Section {
	var out []types.Section
	for i, id := range []string{"a0", "a1", "a2", "a3", "a4"} {
		out = append(out, types.Section{ID: id, Order: i, IsActive: true, Data: types.CustomSection{Title: id}})
	}
	for i, id := range []string{"i0", "i1", "i2", "i3"} {
		out = append(out, types.Section{ID: id, Order: i, IsActive: false, Data: types.CustomSection{Title: id}})
	}
	return out
}

func zoneIDs(sections []types.Section, active bool) []string {
	var ids []string
	for _, s := range Zone(sections, active) {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestApply_ReorderWithinZone(t *testing.T) {
	tests := []struct {
		name       string
		dragged    string
		over       string
		wantActive []string
	}{
		{name: "move down", dragged: "a1", over: "a3", wantActive: []string{"a0", "a2", "a3", "a1", "a4"}},
		{name: "move up", dragged: "a4", over: "a0", wantActive: []string{"a4", "a0", "a1", "a2", "a3"}},
		{name: "adjacent", dragged: "a2", over: "a3", wantActive: []string{"a0", "a1", "a3", "a2", "a4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixture()
			out, changed := Apply(in, tt.dragged, OverSection(tt.over))
			require.True(t, changed)
			assert.Equal(t, tt.wantActive, zoneIDs(out, true))
			assert.Equal(t, []string{"i0", "i1", "i2", "i3"}, zoneIDs(out, false))
			require.NoError(t, CheckDensity(out))
			assert.Equal(t, fixture(), in, "input must not be mutated")
		})
	}
}

func TestApply_ReorderInactiveZoneLeavesActiveUntouched(t *testing.T) {
	out, changed := Apply(fixture(), "i3", OverSection("i1"))
	require.True(t, changed)
	assert.Equal(t, []string{"i0", "i3", "i1", "i2"}, zoneIDs(out, false))
	assert.Equal(t, []string{"a0", "a1", "a2", "a3", "a4"}, zoneIDs(out, true))
	require.NoError(t, CheckDensity(out))
}

func TestApply_TransferOntoSibling(t *testing.T) {
	out, changed := Apply(fixture(), "a2", OverSection("i1"))
	require.True(t, changed)

	assert.Equal(t, []string{"a0", "a1", "a3", "a4"}, zoneIDs(out, true))
	assert.Equal(t, []string{"i0", "a2", "i1", "i2", "i3"}, zoneIDs(out, false))
	require.NoError(t, CheckDensity(out))

	moved, _ := find(out, "a2")
	assert.False(t, moved.IsActive)
	assert.Equal(t, 1, moved.Order)
}

func TestApply_TransferOntoContainer(t *testing.T) {
	out, changed := Apply(fixture(), "a2", OverZone(InactiveZone))
	require.True(t, changed)

	assert.Equal(t, []string{"a0", "a1", "a3", "a4"}, zoneIDs(out, true))
	assert.Equal(t, []string{"i0", "i1", "i2", "i3", "a2"}, zoneIDs(out, false))
	require.NoError(t, CheckDensity(out))

	moved, _ := find(out, "a2")
	assert.Equal(t, 4, moved.Order)

	back, changed := Apply(out, "i0", OverZone(ActiveZone))
	require.True(t, changed)
	assert.Equal(t, []string{"a0", "a1", "a3", "a4", "i0"}, zoneIDs(back, true))
	require.NoError(t, CheckDensity(back))
}

func TestApply_TransferIntoEmptyZone(t *testing.T) {
	in := []types.Section{
		{ID: "only", Order: 0, IsActive: true, Data: types.CustomSection{}},
	}
	out, changed := Apply(in, "only", OverZone(InactiveZone))
	require.True(t, changed)
	assert.Empty(t, zoneIDs(out, true))
	assert.Equal(t, []string{"only"}, zoneIDs(out, false))
	require.NoError(t, CheckDensity(out))
}

func TestApply_NoOps(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		target  Target
	}{
		{name: "self drop", dragged: "a1", target: OverSection("a1")},
		{name: "no target", dragged: "a1", target: Target{}},
		{name: "unknown dragged id", dragged: "gone", target: OverSection("a1")},
		{name: "unknown target id", dragged: "a1", target: OverSection("gone")},
		{name: "own zone container", dragged: "a1", target: OverZone(ActiveZone)},
		{name: "unknown zone", dragged: "a1", target: OverZone("sidebar")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixture()
			out, changed := Apply(in, tt.dragged, tt.target)
			assert.False(t, changed)
			assert.Equal(t, in, out)
		})
	}
}

func TestApply_DensityHoldsOverRandomGestures(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sections := fixture()
	ids := []string{"a0", "a1", "a2", "a3", "a4", "i0", "i1", "i2", "i3", "missing"}

	for step := 0; step < 500; step++ {
		dragged := ids[rng.Intn(len(ids))]
		var target Target
		switch rng.Intn(4) {
		case 0:
			target = OverZone(ActiveZone)
		case 1:
			target = OverZone(InactiveZone)
		case 2:
			target = Target{}
		default:
			target = OverSection(ids[rng.Intn(len(ids))])
		}
		sections, _ = Apply(sections, dragged, target)
		require.NoError(t, CheckDensity(sections), "step %d", step)
		require.Len(t, sections, 9)
	}
}

func TestNormalize(t *testing.T) {
	in := []types.Section{
		{ID: "x", Order: 7, IsActive: true},
		{ID: "y", Order: 3, IsActive: true},
		{ID: "p", Order: 5, IsActive: false},
		{ID: "q", Order: 5, IsActive: false},
	}
	require.Error(t, CheckDensity(in))

	out := Normalize(in)
	require.NoError(t, CheckDensity(out))
	assert.Equal(t, []string{"y", "x"}, zoneIDs(out, true))
	assert.Equal(t, []string{"p", "q"}, zoneIDs(out, false))
}

func TestCheckDensity_ReportsViolations(t *testing.T) {
	in := []types.Section{
		{ID: "x", Order: 0, IsActive: true},
		{ID: "y", Order: 0, IsActive: true},
	}
	err := CheckDensity(in)
	require.Error(t, err)

	var de *DensityError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Violations, 1)
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, OverZone(ActiveZone), ParseTarget("active-zone"))
	assert.Equal(t, OverZone(InactiveZone), ParseTarget("inactive-zone"))
	assert.Equal(t, OverSection("abc"), ParseTarget("abc"))
	assert.True(t, ParseTarget("").IsZero())
}
