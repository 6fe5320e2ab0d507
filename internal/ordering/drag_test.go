package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrag_Lifecycle(t *testing.T) {
	var d Drag

	_, dragging := d.Dragging()
	assert.False(t, dragging)

	d.Start("a1")
	id, dragging := d.Dragging()
	require.True(t, dragging)
	assert.Equal(t, "a1", id)

	out, changed := d.End(fixture(), OverSection("a3"))
	assert.True(t, changed)
	assert.Equal(t, []string{"a0", "a2", "a3", "a1", "a4"}, zoneIDs(out, true))

	_, dragging = d.Dragging()
	assert.False(t, dragging)
}

func TestDrag_EndClearsStateOnNoOp(t *testing.T) {
	var d Drag
	d.Start("a1")

	in := fixture()
	out, changed := d.End(in, Target{})
	assert.False(t, changed)
	assert.Equal(t, in, out)

	_, dragging := d.Dragging()
	assert.False(t, dragging)
}

func TestDrag_EndWhileIdle(t *testing.T) {
	var d Drag
	in := fixture()
	out, changed := d.End(in, OverZone(InactiveZone))
	assert.False(t, changed)
	assert.Equal(t, in, out)
}

func TestDrag_Cancel(t *testing.T) {
	var d Drag
	d.Start("a1")
	d.Cancel()
	_, dragging := d.Dragging()
	assert.False(t, dragging)
}
