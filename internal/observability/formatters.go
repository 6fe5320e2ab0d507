// Package observability provides structured logging and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// PrintCV outputs the CV identity and both section zones in order.
func (p *Printer) PrintCV(cv *types.CV, active, inactive []types.Section) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	name := cv.FullName()
	if name == "" {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Document: %s\n", cv.Name))
	sb.WriteString(fmt.Sprintf("Updated:  %s\n", cv.UpdatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Font:     %s, %s, spacing %.2f\n", cv.Settings.Font, cv.Settings.FontSize, cv.Settings.LineSpacing))
	sb.WriteString("\nActive sections:\n")
	for _, s := range active {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", s.Order+1, s.Type()))
	}
	if len(inactive) > 0 {
		sb.WriteString("\nInactive sections:\n")
		for _, s := range inactive {
			sb.WriteString(fmt.Sprintf("  - %s\n", s.Type()))
		}
	}

	p.printBox("CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHeaderRows outputs the packed contact rows, one line per row.
func (p *Printer) PrintHeaderRows(rows [][]types.HeaderField) {
	if len(rows) == 0 {
		p.printBox("CONTACT ROWS", "(no contact fields)")
		return
	}

	var lines []string
	for i, row := range rows {
		values := make([]string, len(row))
		for j, f := range row {
			values[j] = fmt.Sprintf("%s [%s]", f.Value, f.Layout)
		}
		lines = append(lines, fmt.Sprintf("Row %d: %s", i+1, strings.Join(values, " | ")))
	}
	p.printBox("CONTACT ROWS", strings.Join(lines, "\n"))
}

// PrintSuggestions outputs stored suggestions with their use counts.
func (p *Printer) PrintSuggestions(list []types.FieldSuggestion) {
	if len(list) == 0 {
		p.printBox("SUGGESTIONS", "(empty)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total suggestions: %d\n\n", len(list)))

	count := min(len(list), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := list[i]
		sb.WriteString(fmt.Sprintf("• %s\n", s.Value))
		sb.WriteString(fmt.Sprintf("  %s/%s  used %d×  id %s\n", s.SectionType, s.FieldType, s.UseCount(), shortID(s.ID)))
	}
	if len(list) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(list)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs newly extracted values awaiting confirmation.
func (p *Printer) PrintCandidates(candidates []types.SuggestionCandidate) {
	if len(candidates) == 0 {
		p.printBox("NEW SUGGESTIONS", "No new values found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d new values:\n\n", len(candidates)))
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("• %s  (%s/%s)\n", c.Value, c.SectionType, c.FieldType))
	}

	p.printBox("NEW SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs saved templates, marking the active one.
func (p *Printer) PrintTemplates(list []types.SavedTemplate, activeID string) {
	if len(list) == 0 {
		p.printBox("TEMPLATES", "(none saved)")
		return
	}

	var sb strings.Builder
	for _, t := range list {
		marker := " "
		if t.ID == activeID {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, t.Name))
		sb.WriteString(fmt.Sprintf("  id %s  updated %s\n", shortID(t.ID), t.UpdatedAt.Format("2006-01-02 15:04")))
	}

	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifacts outputs the locations of exported files.
func (p *Printer) PrintArtifacts(keys []string) {
	if len(keys) == 0 {
		return
	}
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("✓ %s\n", k))
	}
	p.printBox("EXPORTED", strings.TrimSuffix(sb.String(), "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
