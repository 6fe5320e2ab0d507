package suggestions

import (
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// Field types used for values extracted outside the header.
const (
	FieldCompany      = "company"
	FieldRole         = "role"
	FieldLocation     = "location"
	FieldDegree       = "degree"
	FieldInstitution  = "institution"
	FieldCategoryName = "categoryName"
)

// Extract collects the reusable values of a CV: enabled header fields,
// experience company/role/location, education degree/institution/location
// and skill category names. Values are trimmed and blanks skipped. Within
// one call, candidates equal under the case-insensitive triple collapse to
// the first occurrence. Inactive sections are included; a template
// snapshot carries them too.
func Extract(cv types.CV) []types.SuggestionCandidate {
	x := &extractor{seen: make(map[string]bool)}
	for _, s := range cv.Sections {
		if s.Data != nil {
			s.Data.Accept(x)
		}
	}
	return x.out
}

// FilterNew returns the candidates the store does not already hold.
func FilterNew(candidates []types.SuggestionCandidate, store *Store) []types.SuggestionCandidate {
	var out []types.SuggestionCandidate
	for _, c := range candidates {
		if !store.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

type extractor struct {
	seen map[string]bool
	out  []types.SuggestionCandidate
}

func (x *extractor) add(value, fieldType string, sectionType types.SectionType) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	c := types.SuggestionCandidate{Value: value, FieldType: fieldType, SectionType: sectionType}
	if x.seen[c.Key()] {
		return
	}
	x.seen[c.Key()] = true
	x.out = append(x.out, c)
}

func (x *extractor) VisitHeader(h types.HeaderSection) {
	for _, f := range h.Fields {
		if f.Enabled {
			x.add(f.Value, string(f.Type), types.SectionHeader)
		}
	}
}

func (x *extractor) VisitExperience(e types.ExperienceSection) {
	for _, it := range e.Items {
		x.add(it.Company, FieldCompany, types.SectionExperience)
		x.add(it.Role, FieldRole, types.SectionExperience)
		x.add(it.Location, FieldLocation, types.SectionExperience)
	}
}

func (x *extractor) VisitEducation(e types.EducationSection) {
	for _, it := range e.Items {
		x.add(it.Degree, FieldDegree, types.SectionEducation)
		x.add(it.Institution, FieldInstitution, types.SectionEducation)
		x.add(it.Location, FieldLocation, types.SectionEducation)
	}
}

func (x *extractor) VisitSkills(s types.SkillsSection) {
	for _, c := range s.Categories {
		x.add(c.Name, FieldCategoryName, types.SectionSkills)
	}
}

// Free text and the optional sections carry no reusable field values.
func (x *extractor) VisitSummary(types.SummarySection)               {}
func (x *extractor) VisitProjects(types.ProjectsSection)             {}
func (x *extractor) VisitLanguages(types.LanguagesSection)           {}
func (x *extractor) VisitCertifications(types.CertificationsSection) {}
func (x *extractor) VisitAwards(types.AwardsSection)                 {}
func (x *extractor) VisitCustom(types.CustomSection)                 {}
