// Package ordering maintains the active and inactive zones over a CV's
// section list: reorder within a zone, transfer between zones, and the
// drag gesture that drives both.
package ordering

import (
	"fmt"
	"slices"

	"github.com/jonathan/cv-maker/internal/types"
)

// ZoneID names a drop container.
type ZoneID string

// Zone containers. A drop onto a container appends the section to that zone.
const (
	ActiveZone   ZoneID = "active-zone"
	InactiveZone ZoneID = "inactive-zone"
)

// Target is where a dragged section was dropped: either a sibling section
// or a zone container. The zero Target means the gesture ended outside any
// recognized target.
type Target struct {
	SectionID string
	Zone      ZoneID
}

// OverSection targets a sibling section.
func OverSection(id string) Target { return Target{SectionID: id} }

// OverZone targets a zone container.
func OverZone(z ZoneID) Target { return Target{Zone: z} }

// ParseTarget interprets a drop identifier: the two container ids map to
// zones, "" to the zero Target, anything else to a section.
func ParseTarget(overID string) Target {
	switch ZoneID(overID) {
	case ActiveZone, InactiveZone:
		return OverZone(ZoneID(overID))
	case "":
		return Target{}
	default:
		return OverSection(overID)
	}
}

// IsZero reports whether the target is empty.
func (t Target) IsZero() bool {
	return t.SectionID == "" && t.Zone == ""
}

// Apply commits a drop of draggedID onto target and returns the new section
// list. The input is never mutated. changed is false, and the input is
// returned as-is, for a self drop, an empty target, an unknown id or zone,
// or a drop onto the container of the section's own zone.
//
// The returned list holds the active zone in order followed by the inactive
// zone in order.
func Apply(sections []types.Section, draggedID string, target Target) (out []types.Section, changed bool) {
	if target.IsZero() || target.SectionID == draggedID {
		return sections, false
	}
	dragged, ok := find(sections, draggedID)
	if !ok {
		return sections, false
	}

	var (
		toActive bool
		overID   string
	)
	switch {
	case target.SectionID != "":
		over, ok := find(sections, target.SectionID)
		if !ok {
			return sections, false
		}
		toActive, overID = over.IsActive, over.ID
	case target.Zone == ActiveZone:
		toActive = true
	case target.Zone == InactiveZone:
		toActive = false
	default:
		return sections, false
	}
	if overID == "" && toActive == dragged.IsActive {
		return sections, false
	}

	active := Zone(sections, true)
	inactive := Zone(sections, false)

	if toActive == dragged.IsActive {
		zone := &inactive
		if toActive {
			zone = &active
		}
		from := indexOf(*zone, draggedID)
		to := indexOf(*zone, overID)
		*zone = move(*zone, from, to)
		renumber(*zone)
		return append(active, inactive...), true
	}

	src, dst := &inactive, &active
	if dragged.IsActive {
		src, dst = &active, &inactive
	}
	from := indexOf(*src, draggedID)
	moved := (*src)[from]
	*src = slices.Delete(*src, from, from+1)
	moved.IsActive = toActive

	at := len(*dst)
	if overID != "" {
		at = indexOf(*dst, overID)
	}
	*dst = slices.Insert(*dst, at, moved)

	renumber(active)
	renumber(inactive)
	return append(active, inactive...), true
}

// Zone returns a copy of the sections in one zone sorted by order. Sections
// with equal order keep their relative position in the input.
func Zone(sections []types.Section, active bool) []types.Section {
	var zone []types.Section
	for _, s := range sections {
		if s.IsActive == active {
			zone = append(zone, s)
		}
	}
	slices.SortStableFunc(zone, func(a, b types.Section) int {
		return a.Order - b.Order
	})
	return zone
}

// Normalize renumbers both zones densely from 0, preserving relative order.
// It is used on documents that arrive from outside the engine.
func Normalize(sections []types.Section) []types.Section {
	active := Zone(sections, true)
	inactive := Zone(sections, false)
	renumber(active)
	renumber(inactive)
	return append(active, inactive...)
}

// DensityError lists the zones whose orders are not exactly 0..n-1.
type DensityError struct {
	Violations []string
}

func (e *DensityError) Error() string {
	return fmt.Sprintf("section order is not dense: %v", e.Violations)
}

// CheckDensity verifies that each zone's orders form 0..n-1 with no gaps
// or duplicates.
func CheckDensity(sections []types.Section) error {
	var violations []string
	for _, active := range []bool{true, false} {
		name := "inactive"
		if active {
			name = "active"
		}
		for i, s := range Zone(sections, active) {
			if s.Order != i {
				violations = append(violations, fmt.Sprintf("%s zone position %d has order %d (section %s)", name, i, s.Order, s.ID))
			}
		}
	}
	if len(violations) > 0 {
		return &DensityError{Violations: violations}
	}
	return nil
}

func find(sections []types.Section, id string) (types.Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return types.Section{}, false
}

func indexOf(zone []types.Section, id string) int {
	return slices.IndexFunc(zone, func(s types.Section) bool { return s.ID == id })
}

// move removes the element at from and reinserts it at to.
func move(zone []types.Section, from, to int) []types.Section {
	if from == to {
		return zone
	}
	s := zone[from]
	zone = slices.Delete(zone, from, from+1)
	return slices.Insert(zone, to, s)
}

func renumber(zone []types.Section) {
	for i := range zone {
		zone[i].Order = i
	}
}
