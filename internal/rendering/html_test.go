package rendering

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHTML_Structure(t *testing.T) {
	out, err := HTML(filledCV(t))
	require.NoError(t, err)
	doc := parseHTML(t, out)

	assert.Equal(t, "Jane Doe - CV", doc.Find("title").Text())
	assert.Equal(t, "Jane Doe", doc.Find("h1.cv-name").Text())
	assert.Equal(t, "Staff Engineer", doc.Find(".cv-subtitle").Text())
	assert.Equal(t, 2, doc.Find(".cv-contact-row").Length())
	assert.Equal(t, 2, doc.Find(".cv-contact-row").First().Find(".cv-half").Length())
	assert.Equal(t, "Madrid", doc.Find(".cv-contact-row").Last().Find(".cv-full").Text())

	titles := doc.Find("h2.section-title").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"PROFESSIONAL SUMMARY", "PROFESSIONAL EXPERIENCE", "SKILLS"}, titles)

	assert.Equal(t, "Engineer", doc.Find(".cv-experience .entry-title").Text())
	assert.Equal(t, "Jan 2023 - Present, Remote", doc.Find(".cv-experience .entry-date").Text())
	assert.Equal(t, 1, doc.Find(".entry-bullets li").Length())
	assert.Equal(t, "Languages: Go, SQL", doc.Find(".skills-category").Text())
	assert.Zero(t, doc.Find(".cv-empty-state").Length())
}

func TestHTML_CenteredHeader(t *testing.T) {
	cv := filledCV(t)
	h, _ := cv.Header()
	h.Alignment = types.AlignCenter
	setData(t, &cv, h)

	out, err := HTML(cv)
	require.NoError(t, err)
	assert.Equal(t, 1, parseHTML(t, out).Find("header.cv-header-center").Length())
}

func TestHTML_EscapesText(t *testing.T) {
	cv := filledCV(t)
	setData(t, &cv, types.SummarySection{Title: "PROFESSIONAL SUMMARY", Content: "<img src=x onerror=alert(1)>"})

	out, err := HTML(cv)
	require.NoError(t, err)
	assert.NotContains(t, out, "<img")
	assert.Equal(t, "<img src=x onerror=alert(1)>", parseHTML(t, out).Find(".cv-summary .section-content").Text())
}

func TestHTML_EmptyState(t *testing.T) {
	cv := types.NewDefaultCV(fixtureTime)
	for i := range cv.Sections {
		cv.Sections[i].IsActive = false
	}

	out, err := HTML(cv)
	require.NoError(t, err)
	assert.Equal(t, EmptyMessage, parseHTML(t, out).Find(".cv-empty-state p").Text())
}

func TestRenderHTML_InvalidSettings(t *testing.T) {
	settings := types.DefaultSettings()
	settings.Font = "Comic Sans"

	var buf bytes.Buffer
	err := RenderHTML(&buf, &Document{}, settings)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, StageSettings, renderErr.Stage)
	assert.Contains(t, err.Error(), "cv page settings: invalid page settings")
	assert.Zero(t, buf.Len())
}

func TestRenderError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &RenderError{Stage: StageExecute, Message: "page template failed on this CV", Cause: cause}
	assert.Equal(t, "cv page execute: page template failed on this CV: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "cv page parse: no template", (&RenderError{Stage: StageParse, Message: "no template"}).Error())
}

func TestPageStyle(t *testing.T) {
	css := PageStyle(types.DefaultSettings())

	assert.Contains(t, css, "size: A4")
	assert.Contains(t, css, "padding: 1.5cm 1.5cm 1cm 1.5cm")
	assert.Contains(t, css, "font-family: 'Times New Roman'")
	assert.Contains(t, css, "font-size: 9.5pt")
	assert.Contains(t, css, "line-height: 1.25")
}
