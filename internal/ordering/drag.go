package ordering

import "github.com/jonathan/cv-maker/internal/types"

// Drag is the two-phase drag gesture: idle until Start, dragging until End.
// The only state carried between the phases is the dragged section id.
// Drag is not safe for concurrent use; the owning session serializes it.
type Drag struct {
	draggedID string
}

// Start records the dragged section and enters the dragging state. Starting
// while already dragging replaces the dragged id.
func (d *Drag) Start(sectionID string) {
	d.draggedID = sectionID
}

// Dragging returns the dragged section id, if a gesture is in progress.
func (d *Drag) Dragging() (string, bool) {
	return d.draggedID, d.draggedID != ""
}

// End commits the gesture through Apply and returns to idle whatever the
// outcome. Ending while idle is a no-op.
func (d *Drag) End(sections []types.Section, target Target) ([]types.Section, bool) {
	id := d.draggedID
	d.draggedID = ""
	if id == "" {
		return sections, false
	}
	return Apply(sections, id, target)
}

// Cancel abandons the gesture without touching any state.
func (d *Drag) Cancel() {
	d.draggedID = ""
}
