// Package types provides the CV document model shared by the editor, renderers and stores.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// TemplateCleanProfessional is the only visual template the renderers know.
const TemplateCleanProfessional = "clean-professional"

// CV is a complete résumé document: identity, ordered sections and page settings.
type CV struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Sections  []Section `json:"sections"`
	Settings  Settings  `json:"settings"`
}

// Section is one block of the CV. Order is the position within its zone:
// sections with IsActive=true form the document, the rest sit in the sidebar.
type Section struct {
	ID       string      `json:"id"`
	Order    int         `json:"order"`
	IsActive bool        `json:"isActive"`
	Data     SectionData `json:"data"`
}

// Type returns the variant tag of the section's data.
func (s Section) Type() SectionType {
	if s.Data == nil {
		return ""
	}
	return s.Data.Type()
}

// Clone returns a deep copy of the CV; the copy shares no slices with the original.
func (cv CV) Clone() CV {
	out := cv
	out.Sections = make([]Section, len(cv.Sections))
	for i, s := range cv.Sections {
		out.Sections[i] = s
		if s.Data != nil {
			out.Sections[i].Data = s.Data.clone()
		}
	}
	return out
}

// SectionByID returns the section with the given id.
func (cv CV) SectionByID(id string) (Section, bool) {
	for _, s := range cv.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// SectionOfType returns the first section holding the given variant.
func (cv CV) SectionOfType(t SectionType) (Section, bool) {
	for _, s := range cv.Sections {
		if s.Type() == t {
			return s, true
		}
	}
	return Section{}, false
}

// Header returns the header data if the CV has a header section.
func (cv CV) Header() (HeaderSection, bool) {
	s, ok := cv.SectionOfType(SectionHeader)
	if !ok {
		return HeaderSection{}, false
	}
	h, ok := s.Data.(HeaderSection)
	return h, ok
}

// FullName returns the value of the fullName header field, or "" if unset.
func (cv CV) FullName() string {
	h, ok := cv.Header()
	if !ok {
		return ""
	}
	f, ok := h.Field(FieldFullName)
	if !ok {
		return ""
	}
	return f.Value
}

// UpdateSection replaces the data of the section with the given id.
// It returns false, leaving the CV untouched, when no such section exists.
// The variant of the replacement must match; callers check that first.
func (cv *CV) UpdateSection(id string, data SectionData, now time.Time) bool {
	for i := range cv.Sections {
		if cv.Sections[i].ID == id {
			cv.Sections[i].Data = data
			cv.UpdatedAt = now
			return true
		}
	}
	return false
}

// UpdateSettings applies a partial settings update.
func (cv *CV) UpdateSettings(patch SettingsPatch, now time.Time) {
	cv.Settings = cv.Settings.Apply(patch)
	cv.UpdatedAt = now
}

// Validate checks structural preconditions the rest of the system relies on:
// unique section ids, non-negative orders, known variants and valid settings.
func (cv CV) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(cv.Sections))
	for i, s := range cv.Sections {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("section %d: id is required", i))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Errorf("section %d: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
		if s.Order < 0 {
			errs = append(errs, fmt.Errorf("section %q: negative order %d", s.ID, s.Order))
		}
		if s.Data == nil {
			errs = append(errs, fmt.Errorf("section %q: data is required", s.ID))
		}
	}
	if err := cv.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

var validate = validator.New()
