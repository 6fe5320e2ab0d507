package rendering

import (
	"strconv"
	"strings"

	"github.com/jonathan/cv-maker/internal/layout"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/types"
)

// NamePlaceholder is shown when the full name is empty.
const NamePlaceholder = "FULL NAME"

// EmptyMessage is shown when no section is active.
const EmptyMessage = "Start editing your CV to see a live preview here!"

// BlockLayout tells the page template how to draw a block.
type BlockLayout string

// Block layouts.
const (
	LayoutHeader     BlockLayout = "header"
	LayoutText       BlockLayout = "text"
	LayoutHTML       BlockLayout = "html"
	LayoutEntries    BlockLayout = "entries"
	LayoutCategories BlockLayout = "categories"
	LayoutInline     BlockLayout = "inline"
)

// Document is the preview tree of a CV: one block per visible active
// section, in zone order.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Empty reports whether nothing would be drawn.
func (d *Document) Empty() bool {
	return d == nil || len(d.Blocks) == 0
}

// Block is one rendered section.
type Block struct {
	SectionID string            `json:"sectionId"`
	Type      types.SectionType `json:"type"`
	Layout    BlockLayout       `json:"layout"`
	Title     string            `json:"title,omitempty"`
	Header    *HeaderBlock      `json:"header,omitempty"`
	Text      string            `json:"text,omitempty"`
	HTML      string            `json:"html,omitempty"`
	Entries   []Entry           `json:"entries,omitempty"`
}

// HeaderBlock is the name, position and packed contact rows.
type HeaderBlock struct {
	Name      string          `json:"name"`
	Position  string          `json:"position,omitempty"`
	Alignment types.Alignment `json:"alignment"`
	Rows      [][]ContactItem `json:"rows"`
}

// ContactItem is one packed contact field.
type ContactItem struct {
	Type   types.HeaderFieldType `json:"type"`
	Value  string                `json:"value"`
	Layout types.FieldLayout     `json:"layout"`
}

// Entry is one item of a list section. Title is drawn bold, Subtitle under
// it, Date right-aligned; Lines are extra paragraphs and Bullets a list.
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Date     string   `json:"date,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Bullets  []string `json:"bullets,omitempty"`
}

// Render builds the preview tree of cv. Inactive sections are skipped, as
// are summary and custom sections with blank content and list sections
// without items.
func Render(cv types.CV) *Document {
	doc := &Document{Blocks: []Block{}}
	for _, s := range ordering.Zone(cv.Sections, true) {
		if s.Data == nil {
			continue
		}
		b := &blockBuilder{section: s}
		s.Data.Accept(b)
		if b.block != nil {
			doc.Blocks = append(doc.Blocks, *b.block)
		}
	}
	return doc
}

// HeaderRows returns the packed contact rows of the CV header, or nil when
// the CV has no header or no contact field is shown.
func HeaderRows(cv types.CV) [][]ContactItem {
	h, ok := cv.Header()
	if !ok {
		return nil
	}
	return contactRows(h)
}

func contactRows(h types.HeaderSection) [][]ContactItem {
	packed := layout.PackContactFields(h.Fields)
	if packed == nil {
		return nil
	}
	rows := make([][]ContactItem, len(packed))
	for i, row := range packed {
		items := make([]ContactItem, len(row))
		for j, f := range row {
			items[j] = ContactItem{Type: f.Type, Value: f.Value, Layout: f.Layout}
		}
		rows[i] = items
	}
	return rows
}

// blockBuilder turns one section into a block. It leaves block nil when the
// section has nothing to show.
type blockBuilder struct {
	section types.Section
	block   *Block
}

func (b *blockBuilder) emit(layout BlockLayout, title string) *Block {
	b.block = &Block{
		SectionID: b.section.ID,
		Type:      b.section.Type(),
		Layout:    layout,
		Title:     title,
	}
	return b.block
}

func (b *blockBuilder) VisitHeader(h types.HeaderSection) {
	hb := &HeaderBlock{Name: NamePlaceholder, Alignment: h.EffectiveAlignment(), Rows: contactRows(h)}
	if f, ok := h.Field(types.FieldFullName); ok && f.Value != "" {
		hb.Name = f.Value
	}
	if f, ok := h.Field(types.FieldJobPosition); ok {
		hb.Position = f.Value
	}
	b.emit(LayoutHeader, "").Header = hb
}

func (b *blockBuilder) VisitSummary(s types.SummarySection) {
	if strings.TrimSpace(s.Content) == "" {
		return
	}
	b.emit(LayoutText, s.Title).Text = s.Content
}

func (b *blockBuilder) VisitExperience(s types.ExperienceSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		date := ExperienceDates(it)
		if it.Location != "" {
			date += ", " + it.Location
		}
		entries[i] = Entry{
			ID:       it.ID,
			Title:    orDefault(it.Role, "Job Title"),
			Subtitle: orDefault(it.Company, "Company Name"),
			Date:     date,
			Bullets:  nonBlank(it.Bullets),
		}
	}
	b.emit(LayoutEntries, s.Title).Entries = entries
}

func (b *blockBuilder) VisitEducation(s types.EducationSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		year := "Year"
		if it.Year != 0 {
			year = strconv.Itoa(it.Year)
		}
		e := Entry{
			ID:       it.ID,
			Title:    orDefault(it.Degree, "Degree"),
			Subtitle: orDefault(it.Institution, "School/University"),
			Date:     year,
		}
		if it.Notes != "" {
			e.Lines = []string{it.Notes}
		}
		entries[i] = e
	}
	b.emit(LayoutEntries, s.Title).Entries = entries
}

func (b *blockBuilder) VisitSkills(s types.SkillsSection) {
	if len(s.Categories) == 0 {
		return
	}
	entries := make([]Entry, len(s.Categories))
	for i, c := range s.Categories {
		entries[i] = Entry{ID: c.ID, Title: c.Name, Lines: []string{strings.Join(c.Items, ", ")}}
	}
	b.emit(LayoutCategories, s.Title).Entries = entries
}

func (b *blockBuilder) VisitProjects(s types.ProjectsSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		entries[i] = Entry{
			ID:    it.ID,
			Title: it.Name,
			Date:  ProjectDates(it),
			Lines: nonBlank([]string{it.Technologies, it.Description, it.Link}),
		}
	}
	b.emit(LayoutEntries, s.Title).Entries = entries
}

func (b *blockBuilder) VisitLanguages(s types.LanguagesSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		entries[i] = Entry{ID: it.ID, Title: it.Language, Subtitle: it.Proficiency.Label()}
	}
	b.emit(LayoutInline, s.Title).Entries = entries
}

func (b *blockBuilder) VisitCertifications(s types.CertificationsSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		var lines []string
		if it.CredentialID != "" {
			lines = append(lines, "ID: "+it.CredentialID)
		}
		if it.Link != "" {
			lines = append(lines, it.Link)
		}
		entries[i] = Entry{
			ID:       it.ID,
			Title:    it.Name,
			Subtitle: it.Issuer,
			Date:     FormatDateString(it.Date),
			Lines:    lines,
		}
	}
	b.emit(LayoutEntries, s.Title).Entries = entries
}

func (b *blockBuilder) VisitAwards(s types.AwardsSection) {
	if len(s.Items) == 0 {
		return
	}
	entries := make([]Entry, len(s.Items))
	for i, it := range s.Items {
		entries[i] = Entry{
			ID:       it.ID,
			Title:    it.Title,
			Subtitle: it.Issuer,
			Date:     FormatDateString(it.Date),
			Lines:    nonBlank([]string{it.Description}),
		}
	}
	b.emit(LayoutEntries, s.Title).Entries = entries
}

func (b *blockBuilder) VisitCustom(s types.CustomSection) {
	if strings.TrimSpace(s.Content) == "" {
		return
	}
	b.emit(LayoutHTML, s.Title).HTML = SanitizeContent(s.Content)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
