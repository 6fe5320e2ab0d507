// Package docx exports a CV as a Word document.
package docx

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jonathan/cv-maker/internal/layout"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

// ContactSeparator joins contact fields on the single contact line.
const ContactSeparator = " • "

// Paragraph styles of the default godocx template.
const (
	StyleTitle    = "Title"
	StyleHeading1 = "Heading1"
)

// Alignment of a paragraph.
type Alignment string

// Paragraph alignments. The empty value is left aligned.
const (
	AlignLeft   Alignment = ""
	AlignCenter Alignment = "center"
)

// Run is a span of text sharing formatting.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is one block of the document body. Spacing is in twentieths
// of a point.
type Paragraph struct {
	Style         string
	Align         Alignment
	Runs          []Run
	Bullet        bool
	BorderBottom  bool
	SpacingBefore int
	SpacingAfter  int
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Document is the ordered paragraph list of the body.
type Document struct {
	Paragraphs []Paragraph
}

// Build derives the document body from the active sections of cv, in zone
// order, using the same inclusion rules as the preview.
func Build(cv types.CV) *Document {
	b := &builder{}
	for _, s := range ordering.Zone(cv.Sections, true) {
		if s.Data != nil {
			s.Data.Accept(b)
		}
	}
	return &Document{Paragraphs: b.paragraphs}
}

var whitespace = regexp.MustCompile(`[\s/\\]+`)

// FileName returns "<Full_Name>_CV.docx", falling back to "CV_CV.docx".
func FileName(cv types.CV) string {
	name := strings.TrimSpace(cv.FullName())
	if name == "" {
		name = "CV"
	}
	return whitespace.ReplaceAllString(name, "_") + "_CV.docx"
}

var plainText = bluemonday.StrictPolicy()

type builder struct {
	paragraphs []Paragraph
}

func (b *builder) add(p Paragraph) {
	b.paragraphs = append(b.paragraphs, p)
}

func (b *builder) text(s string, after int) {
	b.add(Paragraph{Runs: []Run{{Text: s}}, SpacingAfter: after})
}

func (b *builder) heading(title string) {
	b.add(Paragraph{
		Style:         StyleHeading1,
		Runs:          []Run{{Text: title}},
		BorderBottom:  true,
		SpacingBefore: 200,
		SpacingAfter:  100,
	})
}

func (b *builder) bold(s string) {
	b.add(Paragraph{Runs: []Run{{Text: s, Bold: true}}, SpacingBefore: 100, SpacingAfter: 50})
}

func (b *builder) italic(s string) {
	b.add(Paragraph{Runs: []Run{{Text: s, Italic: true}}, SpacingAfter: 50})
}

func (b *builder) VisitHeader(h types.HeaderSection) {
	name := rendering.NamePlaceholder
	if f, ok := h.Field(types.FieldFullName); ok && f.Value != "" {
		name = f.Value
	}
	b.add(Paragraph{Style: StyleTitle, Align: AlignCenter, Runs: []Run{{Text: name}}, SpacingAfter: 100})

	if f, ok := h.Field(types.FieldJobPosition); ok && f.Value != "" {
		b.add(Paragraph{Align: AlignCenter, Runs: []Run{{Text: f.Value}}, SpacingAfter: 100})
	}

	var values []string
	for _, row := range layout.PackContactFields(h.Fields) {
		for _, f := range row {
			values = append(values, f.Value)
		}
	}
	if len(values) > 0 {
		b.add(Paragraph{Align: AlignCenter, Runs: []Run{{Text: strings.Join(values, ContactSeparator)}}, SpacingAfter: 200})
	}
}

func (b *builder) VisitSummary(s types.SummarySection) {
	if strings.TrimSpace(s.Content) == "" {
		return
	}
	b.heading(s.Title)
	b.text(s.Content, 200)
}

func (b *builder) VisitExperience(s types.ExperienceSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	for _, it := range s.Items {
		b.bold(orDefault(it.Role, "Job Title"))

		company := []string{it.Company}
		if it.Location != "" {
			company = append(company, it.Location)
		}
		b.italic(strings.Join(company, ", "))
		b.text(rendering.ExperienceDates(it), 100)

		for _, bullet := range it.Bullets {
			if strings.TrimSpace(bullet) == "" {
				continue
			}
			b.add(Paragraph{Runs: []Run{{Text: bullet}}, Bullet: true, SpacingAfter: 50})
		}
		b.text("", 100)
	}
}

func (b *builder) VisitEducation(s types.EducationSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	for _, it := range s.Items {
		b.bold(orDefault(it.Degree, "Degree"))
		b.italic(orDefault(it.Institution, "School/University"))
		year := "Year"
		if it.Year != 0 {
			year = strconv.Itoa(it.Year)
		}
		b.text(year, 50)
		if it.Notes != "" {
			b.text(it.Notes, 100)
		}
	}
}

func (b *builder) VisitSkills(s types.SkillsSection) {
	if len(s.Categories) == 0 {
		return
	}
	b.heading(s.Title)
	for _, c := range s.Categories {
		b.add(Paragraph{
			Runs: []Run{
				{Text: c.Name + ": ", Bold: true},
				{Text: strings.Join(c.Items, ", ")},
			},
			SpacingAfter: 50,
		})
	}
}

func (b *builder) VisitProjects(s types.ProjectsSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	for _, it := range s.Items {
		b.bold(it.Name)
		if dates := rendering.ProjectDates(it); dates != "" {
			b.text(dates, 50)
		}
		if it.Technologies != "" {
			b.italic(it.Technologies)
		}
		if it.Description != "" {
			b.text(it.Description, 50)
		}
		if it.Link != "" {
			b.text(it.Link, 100)
		}
	}
}

func (b *builder) VisitLanguages(s types.LanguagesSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	var runs []Run
	for i, it := range s.Items {
		if i > 0 {
			runs = append(runs, Run{Text: ", "})
		}
		runs = append(runs, Run{Text: it.Language, Bold: true}, Run{Text: " (" + it.Proficiency.Label() + ")"})
	}
	b.add(Paragraph{Runs: runs, SpacingAfter: 100})
}

func (b *builder) VisitCertifications(s types.CertificationsSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	for _, it := range s.Items {
		b.bold(it.Name)
		if it.Issuer != "" {
			b.italic(it.Issuer)
		}
		if date := rendering.FormatDateString(it.Date); date != "" {
			b.text(date, 50)
		}
		if it.CredentialID != "" {
			b.text("ID: "+it.CredentialID, 50)
		}
		if it.Link != "" {
			b.text(it.Link, 100)
		}
	}
}

func (b *builder) VisitAwards(s types.AwardsSection) {
	if len(s.Items) == 0 {
		return
	}
	b.heading(s.Title)
	for _, it := range s.Items {
		b.bold(it.Title)
		if it.Issuer != "" {
			b.italic(it.Issuer)
		}
		if date := rendering.FormatDateString(it.Date); date != "" {
			b.text(date, 50)
		}
		if it.Description != "" {
			b.text(it.Description, 100)
		}
	}
}

func (b *builder) VisitCustom(s types.CustomSection) {
	if strings.TrimSpace(s.Content) == "" {
		return
	}
	b.heading(s.Title)
	for _, line := range strings.Split(html.UnescapeString(plainText.Sanitize(s.Content)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.text(line, 100)
		}
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
