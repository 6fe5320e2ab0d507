package types

import (
	"strings"
	"time"
)

// SuggestionMetadata tracks how often and how recently a suggestion was used.
type SuggestionMetadata struct {
	LastUsed *time.Time `json:"lastUsed,omitempty"`
	UseCount int        `json:"useCount,omitempty"`
}

// FieldSuggestion is a remembered field value offered for reuse.
// FieldType is a free-form label: a header field type or one of
// company, role, location, degree, institution, categoryName.
type FieldSuggestion struct {
	ID          string              `json:"id"`
	Value       string              `json:"value"`
	FieldType   string              `json:"fieldType"`
	SectionType SectionType         `json:"sectionType"`
	Metadata    *SuggestionMetadata `json:"metadata,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// UseCount returns the recorded use count, zero if never recorded.
func (s FieldSuggestion) UseCount() int {
	if s.Metadata == nil {
		return 0
	}
	return s.Metadata.UseCount
}

// LastUsedOrCreated returns when the suggestion was last used, or its creation time.
func (s FieldSuggestion) LastUsedOrCreated() time.Time {
	if s.Metadata != nil && s.Metadata.LastUsed != nil {
		return *s.Metadata.LastUsed
	}
	return s.CreatedAt
}

// Candidate returns the identity triple of the suggestion.
func (s FieldSuggestion) Candidate() SuggestionCandidate {
	return SuggestionCandidate{Value: s.Value, FieldType: s.FieldType, SectionType: s.SectionType}
}

// SuggestionCandidate is a value proposed for the suggestion store.
type SuggestionCandidate struct {
	Value       string      `json:"value"`
	FieldType   string      `json:"fieldType"`
	SectionType SectionType `json:"sectionType"`
}

// Key returns the case-insensitive identity of the candidate. Surrounding
// whitespace is ignored, matching the trimmed values the store keeps.
func (c SuggestionCandidate) Key() string {
	fold := func(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
	return fold(c.Value) + "\x00" + fold(c.FieldType) + "\x00" + fold(string(c.SectionType))
}

// SameField reports whether the candidate targets the given field, ignoring case.
func (c SuggestionCandidate) SameField(fieldType string, sectionType SectionType) bool {
	return strings.EqualFold(c.FieldType, fieldType) && strings.EqualFold(string(c.SectionType), string(sectionType))
}
