package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jonathan/cv-maker/internal/types"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var (
	pageOnce sync.Once
	pageTmpl *template.Template
	pageErr  error
)

func pageTemplate() (*template.Template, error) {
	pageOnce.Do(func() {
		pageTmpl, pageErr = template.New("page.html.tmpl").Funcs(template.FuncMap{
			// Content reaching safe has already been through SanitizeContent.
			"safe": func(s string) template.HTML { return template.HTML(s) },
		}).ParseFS(templateFS, "templates/page.html.tmpl")
	})
	return pageTmpl, pageErr
}

type pageData struct {
	Title string
	Style template.CSS
	Doc   *Document
	Empty string
}

// RenderHTML writes doc as a standalone A4 page styled from settings.
func RenderHTML(w io.Writer, doc *Document, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return &RenderError{Stage: StageSettings, Message: "invalid page settings", Cause: err}
	}
	if doc == nil {
		doc = &Document{}
	}

	tmpl, err := pageTemplate()
	if err != nil {
		return &RenderError{Stage: StageParse, Message: "page template does not parse", Cause: err}
	}

	data := pageData{
		Title: documentTitle(doc),
		Style: template.CSS(PageStyle(settings)),
		Doc:   doc,
		Empty: EmptyMessage,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return &RenderError{Stage: StageExecute, Message: "page template failed on this CV", Cause: err}
	}
	return nil
}

// HTML renders cv straight to a page.
func HTML(cv types.CV) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, Render(cv), cv.Settings); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PageStyle returns the stylesheet for settings: A4 page, margins in cm,
// font family, preset point size and line spacing.
func PageStyle(s types.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: A4; margin: 0; }\n")
	fmt.Fprintf(&b, "html, body { margin: 0; padding: 0; background: #fff; }\n")
	fmt.Fprintf(&b, ".cv-container { box-sizing: border-box; width: 210mm; min-height: 297mm; "+
		"padding: %scm %scm %scm %scm; font-family: '%s', serif; font-size: %spt; line-height: %s; color: #111; }\n",
		num(s.Margins.Top), num(s.Margins.Right), num(s.Margins.Bottom), num(s.Margins.Left),
		s.Font, num(s.FontSize.Points()), num(s.LineSpacing))
	b.WriteString(baseStyle)
	return b.String()
}

const baseStyle = `.cv-header { margin-bottom: 0.8em; }
.cv-header-center { text-align: center; }
.cv-header-center .cv-contact-row { justify-content: center; }
.cv-name { font-size: 1.9em; margin: 0; text-transform: uppercase; letter-spacing: 0.04em; }
.cv-subtitle { font-size: 1.15em; margin-top: 0.1em; }
.cv-contact-row { display: flex; gap: 8px; margin-bottom: 2px; }
.cv-full { flex: 1 1 100%; }
.cv-half { flex: 1 1 50%; }
.cv-third { flex: 1 1 33%; }
.cv-section { margin-bottom: 0.9em; break-inside: avoid-page; }
.section-title { font-size: 1.1em; text-transform: uppercase; border-bottom: 1px solid #111; padding-bottom: 2px; margin: 0 0 0.4em; }
.section-content { margin: 0; }
.entry { margin-bottom: 0.5em; }
.entry-header { display: flex; justify-content: space-between; align-items: baseline; }
.entry-title { font-size: 1em; margin: 0; }
.entry-subtitle { font-style: italic; }
.entry-date { white-space: nowrap; margin-left: 1em; }
.entry-line { margin: 0.15em 0 0; }
.entry-bullets { margin: 0.2em 0 0; padding-left: 1.2em; }
.cv-empty-state { color: #777; text-align: center; padding-top: 40%; }
@media print { .cv-container { width: auto; min-height: 0; } }
`

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func documentTitle(doc *Document) string {
	for _, b := range doc.Blocks {
		if b.Header != nil && b.Header.Name != NamePlaceholder {
			return b.Header.Name + " - CV"
		}
	}
	return "CV"
}
