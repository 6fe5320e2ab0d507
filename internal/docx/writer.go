package docx

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/gomutex/godocx"
	gdocx "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"

	"github.com/jonathan/cv-maker/internal/types"
)

// WriteError represents a failure to serialize the document package
type WriteError struct {
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("docx write error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("docx write error: %s", e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

const twipsPerCM = 566.93

// BulletStyle is the list style of the default godocx template.
const BulletStyle = "List Bullet"

// CM converts centimetres to twips.
func CM(cm float64) int {
	return int(math.Round(cm * twipsPerCM))
}

func ptr[T any](v T) *T { return &v }

// Write serializes doc as a .docx package styled from settings.
func Write(w io.Writer, doc *Document, settings types.Settings) error {
	if doc == nil {
		return &WriteError{Message: "nil document"}
	}
	if err := settings.Validate(); err != nil {
		return &WriteError{Message: "invalid page settings", Cause: err}
	}

	out, err := godocx.NewDocument()
	if err != nil {
		return &WriteError{Message: "failed to open document template", Cause: err}
	}
	setMargins(out, settings.Margins)

	size := uint64(math.Round(settings.FontSize.Points()))
	for _, p := range doc.Paragraphs {
		addParagraph(out, p, string(settings.Font), size)
	}

	if err := out.Write(w); err != nil {
		return &WriteError{Message: "failed to write package", Cause: err}
	}
	return nil
}

func setMargins(out *gdocx.RootDoc, m types.Margins) {
	body := out.Document.Body
	if body.SectPr == nil {
		body.SectPr = &ctypes.SectionProp{}
	}
	body.SectPr.PageMargin = &ctypes.PageMargin{
		Top:    ptr(CM(m.Top)),
		Right:  ptr(CM(m.Right)),
		Bottom: ptr(CM(m.Bottom)),
		Left:   ptr(CM(m.Left)),
		Header: ptr(708),
		Footer: ptr(708),
		Gutter: ptr(0),
	}
}

func addParagraph(out *gdocx.RootDoc, p Paragraph, font string, size uint64) {
	para := out.AddEmptyParagraph()
	switch {
	case p.Bullet:
		para.Style(BulletStyle)
	case p.Style != "":
		para.Style(p.Style)
	}
	if p.Align == AlignCenter {
		para.Justification(stypes.JustificationCenter)
	}

	ct := para.GetCT()
	if ct.Property == nil {
		ct.Property = &ctypes.ParagraphProp{}
	}
	if p.SpacingBefore != 0 || p.SpacingAfter != 0 {
		ct.Property.Spacing = &ctypes.Spacing{
			Before: ptr(uint64(p.SpacingBefore)),
			After:  ptr(uint64(p.SpacingAfter)),
		}
	}
	if p.BorderBottom {
		ct.Property.Border = &ctypes.ParaBorder{
			Bottom: &ctypes.Border{Val: stypes.BorderStyleSingle, Color: ptr("000000")},
		}
	}

	for _, r := range p.Runs {
		run := para.AddText(r.Text).Font(font)
		if p.Style == "" {
			run.Size(size)
		}
		if r.Bold {
			run.Bold(true)
		}
		if r.Italic {
			run.Italic(true)
		}
	}
}

// Bytes builds and serializes cv in one step.
func Bytes(cv types.CV) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(cv), cv.Settings); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
