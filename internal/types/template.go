package types

import "time"

// SavedTemplate is a named snapshot of a full CV.
type SavedTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CV        CV        `json:"cv"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the template.
func (t SavedTemplate) Clone() SavedTemplate {
	t.CV = t.CV.Clone()
	return t
}
