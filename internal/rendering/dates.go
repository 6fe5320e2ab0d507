package rendering

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cv-maker/internal/types"
)

// Placeholders shown for missing experience dates.
const (
	StartPlaceholder = "Start"
	rangeSeparator   = " - "
)

// FormatYearMonth renders ym as "Jan 2023", or "2023" for year-only items.
// The zero value renders as "".
func FormatYearMonth(ym types.YearMonth, format types.DateFormat) string {
	if ym.IsZero() {
		return ""
	}
	if format == types.DateFormatYearOnly || ym.Month == 0 {
		return strconv.Itoa(ym.Year)
	}
	return shortMonth(ym.Month) + " " + strconv.Itoa(ym.Year)
}

// ExperienceDates renders the date range of a position. A missing start
// shows as "Start" and an ongoing position ends with "Present".
func ExperienceDates(item types.ExperienceItem) string {
	start := FormatYearMonth(item.StartDate, item.DateFormat)
	if start == "" {
		start = StartPlaceholder
	}
	end := types.PresentLabel
	if item.EndDate != nil && !item.EndDate.IsZero() {
		end = FormatYearMonth(*item.EndDate, item.DateFormat)
	}
	return start + rangeSeparator + end
}

// FormatDateString renders a "YYYY-MM" string as "Jan 2023". A bare year is
// returned as is, "present" in any case becomes "Present", and anything
// unparseable passes through unchanged.
func FormatDateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, types.PresentLabel) {
		return types.PresentLabel
	}
	year, month, ok := strings.Cut(s, "-")
	if !ok || month == "" {
		return year
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return s
	}
	return shortMonth(time.Month(m)) + " " + year
}

// ProjectDates renders "start - end" for a project, dropping the separator
// when both ends are empty.
func ProjectDates(p types.ProjectItem) string {
	start, end := FormatDateString(p.StartDate), FormatDateString(p.EndDate)
	if start == "" && end == "" {
		return ""
	}
	return start + rangeSeparator + end
}

func shortMonth(m time.Month) string {
	return m.String()[:3]
}
