package types

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCVName is the name of a freshly created CV.
const DefaultCVName = "My CV"

// NewID returns a fresh identifier for CVs, sections, items and templates.
func NewID() string {
	return uuid.NewString()
}

// DefaultTitle returns the heading a new section of the given type starts with.
func DefaultTitle(t SectionType) string {
	switch t {
	case SectionSummary:
		return "PROFESSIONAL SUMMARY"
	case SectionExperience:
		return "PROFESSIONAL EXPERIENCE"
	case SectionEducation:
		return "EDUCATION"
	case SectionSkills:
		return "SKILLS"
	case SectionProjects:
		return "PERSONAL PROJECTS"
	case SectionLanguages:
		return "LANGUAGES"
	case SectionCertifications:
		return "CERTIFICATIONS"
	case SectionAwards:
		return "AWARDS & HONORS"
	default:
		return ""
	}
}

// DefaultHeader returns the header a new CV starts with: name, position,
// email and phone enabled; the remaining contact fields present but disabled.
func DefaultHeader() HeaderSection {
	defaults := []struct {
		t       HeaderFieldType
		enabled bool
		layout  FieldLayout
	}{
		{FieldFullName, true, LayoutFull},
		{FieldJobPosition, true, LayoutFull},
		{FieldEmail, true, LayoutHalf},
		{FieldPhone, true, LayoutHalf},
		{FieldLocation, false, LayoutFull},
		{FieldLinkedIn, false, LayoutHalf},
		{FieldPortfolio, false, LayoutHalf},
		{FieldLanguages, false, LayoutFull},
	}
	fields := make([]HeaderField, len(defaults))
	for i, s := range defaults {
		fields[i] = HeaderField{
			ID:      NewID(),
			Type:    s.t,
			Enabled: s.enabled,
			Order:   i,
			Layout:  s.layout,
		}
	}
	return HeaderSection{Fields: fields, Alignment: AlignLeft}
}

// NewDefaultCV returns the CV a session starts with: header, summary,
// experience, education and skills active; projects, languages,
// certifications and awards inactive. Each zone is numbered from 0.
func NewDefaultCV(now time.Time) CV {
	active := []SectionData{
		DefaultHeader(),
		SummarySection{Title: DefaultTitle(SectionSummary)},
		ExperienceSection{Title: DefaultTitle(SectionExperience), Items: []ExperienceItem{}},
		EducationSection{Title: DefaultTitle(SectionEducation), Items: []EducationItem{}},
		SkillsSection{Title: DefaultTitle(SectionSkills), Categories: []SkillCategory{}},
	}
	inactive := []SectionData{
		ProjectsSection{Title: DefaultTitle(SectionProjects), Items: []ProjectItem{}},
		LanguagesSection{Title: DefaultTitle(SectionLanguages), Items: []LanguageItem{}},
		CertificationsSection{Title: DefaultTitle(SectionCertifications), Items: []CertificationItem{}},
		AwardsSection{Title: DefaultTitle(SectionAwards), Items: []AwardItem{}},
	}

	sections := make([]Section, 0, len(active)+len(inactive))
	for i, d := range active {
		sections = append(sections, Section{ID: NewID(), Order: i, IsActive: true, Data: d})
	}
	for i, d := range inactive {
		sections = append(sections, Section{ID: NewID(), Order: i, IsActive: false, Data: d})
	}

	return CV{
		ID:        NewID(),
		Name:      DefaultCVName,
		Template:  TemplateCleanProfessional,
		CreatedAt: now,
		UpdatedAt: now,
		Sections:  sections,
		Settings:  DefaultSettings(),
	}
}
