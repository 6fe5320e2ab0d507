package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PresentLabel is the literal used by string-dated items for an ongoing period.
const PresentLabel = "Present"

// YearMonth is a calendar month. The zero value means "not set".
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth returns the month containing t.
func NewYearMonth(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth accepts "YYYY-MM", "YYYY" (January) or an RFC 3339 timestamp.
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return YearMonth{}, nil
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return NewYearMonth(t), nil
	}
	if t, err := time.Parse("2006", s); err == nil {
		return NewYearMonth(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewYearMonth(t), nil
	}
	return YearMonth{}, fmt.Errorf("invalid year-month %q: want YYYY-MM", s)
}

// IsZero reports whether the value is unset.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// String formats as "YYYY-MM", or "" when unset.
func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalJSON encodes as a "YYYY-MM" string.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

// UnmarshalJSON decodes from a "YYYY-MM" string or an ISO-8601 timestamp.
func (ym *YearMonth) UnmarshalJSON(raw []byte) error {
	if string(raw) == "null" {
		*ym = YearMonth{}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
