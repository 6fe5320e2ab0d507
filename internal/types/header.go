package types

// HeaderFieldType names a header field.
type HeaderFieldType string

// Header field types. FullName and JobPosition are identity fields; the rest are contact fields.
const (
	FieldFullName    HeaderFieldType = "fullName"
	FieldJobPosition HeaderFieldType = "jobPosition"
	FieldEmail       HeaderFieldType = "email"
	FieldPhone       HeaderFieldType = "phone"
	FieldLocation    HeaderFieldType = "location"
	FieldLinkedIn    HeaderFieldType = "linkedin"
	FieldPortfolio   HeaderFieldType = "portfolio"
	FieldLanguages   HeaderFieldType = "languages"
)

// FieldLayout is the fraction of a row a contact field occupies.
type FieldLayout string

// Field layouts.
const (
	LayoutFull  FieldLayout = "full"
	LayoutHalf  FieldLayout = "half"
	LayoutThird FieldLayout = "third"
)

// Width returns the row fraction of the layout. Unknown layouts count as full width.
func (l FieldLayout) Width() float64 {
	switch l {
	case LayoutHalf:
		return 0.5
	case LayoutThird:
		return 0.33
	default:
		return 1.0
	}
}

// Alignment positions the header block.
type Alignment string

// Header alignments. The empty value renders as left.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// HeaderField is one line of the CV header.
type HeaderField struct {
	ID      string          `json:"id"`
	Type    HeaderFieldType `json:"type"`
	Value   string          `json:"value"`
	Enabled bool            `json:"enabled"`
	Order   int             `json:"order"`
	Layout  FieldLayout     `json:"layout"`
}

// IsIdentity reports whether the field is rendered as the name/title block
// rather than packed into contact rows.
func (f HeaderField) IsIdentity() bool {
	return f.Type == FieldFullName || f.Type == FieldJobPosition
}

// HeaderSection holds the name, job position and contact fields.
type HeaderSection struct {
	Fields    []HeaderField `json:"fields"`
	Alignment Alignment     `json:"alignment,omitempty"`
}

// Field returns the first field of the given type.
func (h HeaderSection) Field(t HeaderFieldType) (HeaderField, bool) {
	for _, f := range h.Fields {
		if f.Type == t {
			return f, true
		}
	}
	return HeaderField{}, false
}

// EffectiveAlignment returns the alignment, defaulting to left.
func (h HeaderSection) EffectiveAlignment() Alignment {
	if h.Alignment == AlignCenter {
		return AlignCenter
	}
	return AlignLeft
}
