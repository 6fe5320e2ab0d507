package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// SectionType is the tag of a SectionData variant.
type SectionType string

// Section variants.
const (
	SectionHeader         SectionType = "header"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionLanguages      SectionType = "languages"
	SectionCertifications SectionType = "certifications"
	SectionAwards         SectionType = "awards"
	SectionCustom         SectionType = "custom"
)

// SummaryMaxLength bounds summary content. The editing surface enforces it, not the model.
const SummaryMaxLength = 300

// SectionData is the closed set of section payloads. The unexported clone
// method keeps the set closed to this package.
type SectionData interface {
	Type() SectionType
	Accept(v SectionVisitor)
	clone() SectionData
}

// SectionVisitor has one method per variant. Every per-variant operation
// (rendering, extraction, export) implements it, so adding a variant fails
// to compile until each operation handles it.
type SectionVisitor interface {
	VisitHeader(HeaderSection)
	VisitSummary(SummarySection)
	VisitExperience(ExperienceSection)
	VisitEducation(EducationSection)
	VisitSkills(SkillsSection)
	VisitProjects(ProjectsSection)
	VisitLanguages(LanguagesSection)
	VisitCertifications(CertificationsSection)
	VisitAwards(AwardsSection)
	VisitCustom(CustomSection)
}

// SummarySection is a short free-text profile.
type SummarySection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ExperienceSection lists positions held.
type ExperienceSection struct {
	Title string           `json:"title"`
	Items []ExperienceItem `json:"items"`
}

// DateFormat selects how experience dates are displayed.
type DateFormat string

// Experience date formats. The empty value displays as month-year.
const (
	DateFormatMonthYear DateFormat = "month-year"
	DateFormatYearOnly  DateFormat = "year-only"
)

// ExperienceItem is one position. A nil EndDate means the position is ongoing.
type ExperienceItem struct {
	ID         string     `json:"id"`
	Company    string     `json:"company"`
	Role       string     `json:"role"`
	Location   string     `json:"location,omitempty"`
	StartDate  YearMonth  `json:"startDate"`
	EndDate    *YearMonth `json:"endDate"`
	Bullets    []string   `json:"bullets"`
	DateFormat DateFormat `json:"dateFormat,omitempty"`
}

// EducationSection lists degrees.
type EducationSection struct {
	Title string          `json:"title"`
	Items []EducationItem `json:"items"`
}

// EducationItem is one degree.
type EducationItem struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location,omitempty"`
	Year        int    `json:"year"`
	Notes       string `json:"notes,omitempty"`
}

// SkillsSection groups skills into named categories.
type SkillsSection struct {
	Title      string          `json:"title"`
	Categories []SkillCategory `json:"categories"`
}

// SkillCategory is a named list of skills.
type SkillCategory struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// ParseSkillItems turns a comma separated edit buffer into skill items,
// trimming each token and discarding empty ones.
func ParseSkillItems(buffer string) []string {
	items := []string{}
	for _, tok := range strings.Split(buffer, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			items = append(items, tok)
		}
	}
	return items
}

// ProjectsSection lists personal projects.
type ProjectsSection struct {
	Title string        `json:"title"`
	Items []ProjectItem `json:"items"`
}

// ProjectItem dates are "YYYY-MM" strings or the literal "Present".
type ProjectItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// LanguagesSection lists spoken languages.
type LanguagesSection struct {
	Title string         `json:"title"`
	Items []LanguageItem `json:"items"`
}

// Proficiency is a spoken-language level.
type Proficiency string

// Proficiency levels.
const (
	ProficiencyNative       Proficiency = "native"
	ProficiencyFluent       Proficiency = "fluent"
	ProficiencyProfessional Proficiency = "professional"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyBasic        Proficiency = "basic"
)

// Label returns the display label of the level.
func (p Proficiency) Label() string {
	switch p {
	case ProficiencyNative:
		return "Native"
	case ProficiencyFluent:
		return "Fluent"
	case ProficiencyProfessional:
		return "Professional"
	case ProficiencyIntermediate:
		return "Intermediate"
	case ProficiencyBasic:
		return "Basic"
	default:
		return string(p)
	}
}

// LanguageItem is one spoken language.
type LanguageItem struct {
	ID          string      `json:"id"`
	Language    string      `json:"language"`
	Proficiency Proficiency `json:"proficiency"`
}

// CertificationsSection lists certifications.
type CertificationsSection struct {
	Title string              `json:"title"`
	Items []CertificationItem `json:"items"`
}

// CertificationItem is one certification; Date is "YYYY-MM".
type CertificationItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
	Link         string `json:"link"`
}

// AwardsSection lists awards and honors.
type AwardsSection struct {
	Title string      `json:"title"`
	Items []AwardItem `json:"items"`
}

// AwardItem is one award; Date is "YYYY-MM".
type AwardItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// CustomSection holds free-form content under a user title.
type CustomSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (HeaderSection) Type() SectionType         { return SectionHeader }
func (SummarySection) Type() SectionType        { return SectionSummary }
func (ExperienceSection) Type() SectionType     { return SectionExperience }
func (EducationSection) Type() SectionType      { return SectionEducation }
func (SkillsSection) Type() SectionType         { return SectionSkills }
func (ProjectsSection) Type() SectionType       { return SectionProjects }
func (LanguagesSection) Type() SectionType      { return SectionLanguages }
func (CertificationsSection) Type() SectionType { return SectionCertifications }
func (AwardsSection) Type() SectionType         { return SectionAwards }
func (CustomSection) Type() SectionType         { return SectionCustom }

func (d HeaderSection) Accept(v SectionVisitor)         { v.VisitHeader(d) }
func (d SummarySection) Accept(v SectionVisitor)        { v.VisitSummary(d) }
func (d ExperienceSection) Accept(v SectionVisitor)     { v.VisitExperience(d) }
func (d EducationSection) Accept(v SectionVisitor)      { v.VisitEducation(d) }
func (d SkillsSection) Accept(v SectionVisitor)         { v.VisitSkills(d) }
func (d ProjectsSection) Accept(v SectionVisitor)       { v.VisitProjects(d) }
func (d LanguagesSection) Accept(v SectionVisitor)      { v.VisitLanguages(d) }
func (d CertificationsSection) Accept(v SectionVisitor) { v.VisitCertifications(d) }
func (d AwardsSection) Accept(v SectionVisitor)         { v.VisitAwards(d) }
func (d CustomSection) Accept(v SectionVisitor)         { v.VisitCustom(d) }

func (d HeaderSection) clone() SectionData {
	d.Fields = slices.Clone(d.Fields)
	return d
}

func (d SummarySection) clone() SectionData { return d }

func (d ExperienceSection) clone() SectionData {
	items := make([]ExperienceItem, len(d.Items))
	for i, it := range d.Items {
		it.Bullets = slices.Clone(it.Bullets)
		if it.EndDate != nil {
			end := *it.EndDate
			it.EndDate = &end
		}
		items[i] = it
	}
	d.Items = items
	return d
}

func (d EducationSection) clone() SectionData {
	d.Items = slices.Clone(d.Items)
	return d
}

func (d SkillsSection) clone() SectionData {
	cats := make([]SkillCategory, len(d.Categories))
	for i, c := range d.Categories {
		c.Items = slices.Clone(c.Items)
		cats[i] = c
	}
	d.Categories = cats
	return d
}

func (d ProjectsSection) clone() SectionData {
	d.Items = slices.Clone(d.Items)
	return d
}

func (d LanguagesSection) clone() SectionData {
	d.Items = slices.Clone(d.Items)
	return d
}

func (d CertificationsSection) clone() SectionData {
	d.Items = slices.Clone(d.Items)
	return d
}

func (d AwardsSection) clone() SectionData {
	d.Items = slices.Clone(d.Items)
	return d
}

func (d CustomSection) clone() SectionData { return d }

// UnknownSectionTypeError is returned when decoding a section whose tag is not a known variant.
type UnknownSectionTypeError struct {
	Type string
}

func (e *UnknownSectionTypeError) Error() string {
	return fmt.Sprintf("unknown section type %q", e.Type)
}

// MarshalSectionData encodes a variant as a tagged JSON object: {"type": "...", ...fields}.
func MarshalSectionData(d SectionData) ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s section: %w", d.Type(), err)
	}
	tag, err := json.Marshal(d.Type())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalSectionData decodes a tagged JSON object into its variant.
func UnmarshalSectionData(raw []byte) (SectionData, error) {
	var probe struct {
		Type SectionType `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to read section type: %w", err)
	}

	var (
		data SectionData
		err  error
	)
	switch probe.Type {
	case SectionHeader:
		data, err = decodeAs[HeaderSection](raw)
	case SectionSummary:
		data, err = decodeAs[SummarySection](raw)
	case SectionExperience:
		data, err = decodeAs[ExperienceSection](raw)
	case SectionEducation:
		data, err = decodeAs[EducationSection](raw)
	case SectionSkills:
		data, err = decodeAs[SkillsSection](raw)
	case SectionProjects:
		data, err = decodeAs[ProjectsSection](raw)
	case SectionLanguages:
		data, err = decodeAs[LanguagesSection](raw)
	case SectionCertifications:
		data, err = decodeAs[CertificationsSection](raw)
	case SectionAwards:
		data, err = decodeAs[AwardsSection](raw)
	case SectionCustom:
		data, err = decodeAs[CustomSection](raw)
	default:
		return nil, &UnknownSectionTypeError{Type: string(probe.Type)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s section: %w", probe.Type, err)
	}
	return data, nil
}

func decodeAs[T SectionData](raw []byte) (SectionData, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalJSON encodes the section with its tagged data payload.
func (s Section) MarshalJSON() ([]byte, error) {
	data, err := MarshalSectionData(s.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID       string          `json:"id"`
		Order    int             `json:"order"`
		IsActive bool            `json:"isActive"`
		Data     json.RawMessage `json:"data"`
	}{s.ID, s.Order, s.IsActive, data})
}

// UnmarshalJSON decodes the section, dispatching the data payload on its tag.
func (s *Section) UnmarshalJSON(raw []byte) error {
	var aux struct {
		ID       string          `json:"id"`
		Order    int             `json:"order"`
		IsActive bool            `json:"isActive"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}
	var data SectionData
	if len(aux.Data) > 0 && string(aux.Data) != "null" {
		d, err := UnmarshalSectionData(aux.Data)
		if err != nil {
			return fmt.Errorf("section %q: %w", aux.ID, err)
		}
		data = d
	}
	*s = Section{ID: aux.ID, Order: aux.Order, IsActive: aux.IsActive, Data: data}
	return nil
}
