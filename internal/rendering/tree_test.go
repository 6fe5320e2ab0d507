package rendering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

var fixtureTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func setData(t *testing.T, cv *types.CV, data types.SectionData) {
	t.Helper()
	s, ok := cv.SectionOfType(data.Type())
	require.True(t, ok, "missing %s section", data.Type())
	require.True(t, cv.UpdateSection(s.ID, data, fixtureTime))
}

func setActive(t *testing.T, cv *types.CV, st types.SectionType, order int) {
	t.Helper()
	for i := range cv.Sections {
		if cv.Sections[i].Type() == st {
			cv.Sections[i].IsActive = true
			cv.Sections[i].Order = order
			return
		}
	}
	t.Fatalf("missing %s section", st)
}

// filledCV has a named header with two contact rows, a summary, one
// position and a skills category. Education stays empty.
func filledCV(t *testing.T) types.CV {
	t.Helper()
	cv := types.NewDefaultCV(fixtureTime)

	h, _ := cv.Header()
	for i := range h.Fields {
		switch h.Fields[i].Type {
		case types.FieldFullName:
			h.Fields[i].Value = "Jane Doe"
		case types.FieldJobPosition:
			h.Fields[i].Value = "Staff Engineer"
		case types.FieldEmail:
			h.Fields[i].Value = "jane@example.com"
		case types.FieldPhone:
			h.Fields[i].Value = "+34 600 000 000"
		case types.FieldLocation:
			h.Fields[i].Value = "Madrid"
			h.Fields[i].Enabled = true
		}
	}
	setData(t, &cv, h)
	setData(t, &cv, types.SummarySection{Title: "PROFESSIONAL SUMMARY", Content: "Builds things."})
	setData(t, &cv, types.ExperienceSection{
		Title: "PROFESSIONAL EXPERIENCE",
		Items: []types.ExperienceItem{{
			ID:        "e1",
			Company:   "Acme",
			Role:      "Engineer",
			Location:  "Remote",
			StartDate: types.YearMonth{Year: 2023, Month: time.January},
			Bullets:   []string{"Shipped the editor", "  "},
		}},
	})
	setData(t, &cv, types.SkillsSection{
		Title:      "SKILLS",
		Categories: []types.SkillCategory{{ID: "c1", Name: "Languages", Items: []string{"Go", "SQL"}}},
	})
	return cv
}

func TestRender_DefaultCVShowsOnlyHeader(t *testing.T) {
	doc := Render(types.NewDefaultCV(fixtureTime))

	require.Len(t, doc.Blocks, 1)
	b := doc.Blocks[0]
	assert.Equal(t, LayoutHeader, b.Layout)
	assert.Equal(t, NamePlaceholder, b.Header.Name)
	assert.Empty(t, b.Header.Position)
	assert.Nil(t, b.Header.Rows)
	assert.Equal(t, types.AlignLeft, b.Header.Alignment)
}

func TestRender_FilledCV(t *testing.T) {
	doc := Render(filledCV(t))

	require.Len(t, doc.Blocks, 4, "education is empty and must be omitted")
	assert.Equal(t, types.SectionHeader, doc.Blocks[0].Type)
	assert.Equal(t, types.SectionSummary, doc.Blocks[1].Type)
	assert.Equal(t, types.SectionExperience, doc.Blocks[2].Type)
	assert.Equal(t, types.SectionSkills, doc.Blocks[3].Type)

	h := doc.Blocks[0].Header
	assert.Equal(t, "Jane Doe", h.Name)
	assert.Equal(t, "Staff Engineer", h.Position)
	require.Len(t, h.Rows, 2)
	assert.Equal(t, "jane@example.com", h.Rows[0][0].Value)
	assert.Equal(t, "+34 600 000 000", h.Rows[0][1].Value)
	assert.Equal(t, "Madrid", h.Rows[1][0].Value)

	assert.Equal(t, "Builds things.", doc.Blocks[1].Text)

	exp := doc.Blocks[2].Entries
	require.Len(t, exp, 1)
	assert.Equal(t, Entry{
		ID:       "e1",
		Title:    "Engineer",
		Subtitle: "Acme",
		Date:     "Jan 2023 - Present, Remote",
		Bullets:  []string{"Shipped the editor"},
	}, exp[0])

	skills := doc.Blocks[3]
	assert.Equal(t, LayoutCategories, skills.Layout)
	assert.Equal(t, []string{"Go, SQL"}, skills.Entries[0].Lines)
}

func TestRender_FollowsZoneOrder(t *testing.T) {
	cv := filledCV(t)
	for i := range cv.Sections {
		if cv.Sections[i].Type() == types.SectionSkills {
			cv.Sections[i].Order = 0
		} else if cv.Sections[i].IsActive {
			cv.Sections[i].Order++
		}
	}

	doc := Render(cv)
	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, types.SectionSkills, doc.Blocks[0].Type)
	assert.Equal(t, types.SectionHeader, doc.Blocks[1].Type)
}

func TestRender_InactiveHeaderIsHidden(t *testing.T) {
	cv := filledCV(t)
	for i := range cv.Sections {
		if cv.Sections[i].Type() == types.SectionHeader {
			cv.Sections[i].IsActive = false
		}
	}
	for _, b := range Render(cv).Blocks {
		assert.NotEqual(t, types.SectionHeader, b.Type)
	}
}

func TestRender_OptionalSections(t *testing.T) {
	cv := filledCV(t)
	setData(t, &cv, types.ProjectsSection{
		Title: "PERSONAL PROJECTS",
		Items: []types.ProjectItem{{ID: "p1", Name: "cv-maker", Technologies: "Go", StartDate: "2024-02", EndDate: "Present"}},
	})
	setData(t, &cv, types.LanguagesSection{
		Title: "LANGUAGES",
		Items: []types.LanguageItem{{ID: "l1", Language: "Spanish", Proficiency: types.ProficiencyNative}},
	})
	setData(t, &cv, types.CertificationsSection{
		Title: "CERTIFICATIONS",
		Items: []types.CertificationItem{{ID: "c1", Name: "CKA", Issuer: "CNCF", Date: "2022-06", CredentialID: "X-1"}},
	})
	setActive(t, &cv, types.SectionProjects, 10)
	setActive(t, &cv, types.SectionLanguages, 11)
	setActive(t, &cv, types.SectionCertifications, 12)
	setActive(t, &cv, types.SectionAwards, 13)

	doc := Render(cv)
	require.Len(t, doc.Blocks, 7, "awards has no items")

	projects := doc.Blocks[4]
	assert.Equal(t, "Feb 2024 - Present", projects.Entries[0].Date)
	assert.Equal(t, []string{"Go"}, projects.Entries[0].Lines)

	languages := doc.Blocks[5]
	assert.Equal(t, LayoutInline, languages.Layout)
	assert.Equal(t, "Native", languages.Entries[0].Subtitle)

	certs := doc.Blocks[6]
	assert.Equal(t, "Jun 2022", certs.Entries[0].Date)
	assert.Equal(t, []string{"ID: X-1"}, certs.Entries[0].Lines)
}

func TestRender_CustomSectionIsSanitized(t *testing.T) {
	cv := filledCV(t)
	cv.Sections = append(cv.Sections, types.Section{
		ID:       "custom-1",
		Order:    5,
		IsActive: true,
		Data:     types.CustomSection{Title: "VOLUNTEERING", Content: "<b>Mentor</b><script>alert(1)</script>"},
	})

	doc := Render(cv)
	last := doc.Blocks[len(doc.Blocks)-1]
	assert.Equal(t, LayoutHTML, last.Layout)
	assert.Contains(t, last.HTML, "<b>Mentor</b>")
	assert.NotContains(t, last.HTML, "script")
}

func TestRender_NoActiveSections(t *testing.T) {
	cv := types.NewDefaultCV(fixtureTime)
	for i := range cv.Sections {
		cv.Sections[i].IsActive = false
	}
	assert.True(t, Render(cv).Empty())
}

func TestHeaderRows(t *testing.T) {
	assert.Nil(t, HeaderRows(types.NewDefaultCV(fixtureTime)))

	rows := HeaderRows(filledCV(t))
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
}
