package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

func defaultCVJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(types.NewDefaultCV(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	return data
}

// mutate decodes the default CV into a generic map, applies fn and
// re-encodes it.
func mutate(t *testing.T, fn func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(defaultCVJSON(t), &doc))
	fn(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func sectionData(doc map[string]any, i int) map[string]any {
	return doc["sections"].([]any)[i].(map[string]any)["data"].(map[string]any)
}

func TestValidateCV_DefaultCV(t *testing.T) {
	assert.NoError(t, ValidateCV(defaultCVJSON(t)))
}

func TestValidateCV_FilledCV(t *testing.T) {
	cv := types.NewDefaultCV(time.Now())
	exp, _ := cv.SectionOfType(types.SectionExperience)
	require.True(t, cv.UpdateSection(exp.ID, types.ExperienceSection{
		Title: "Experience",
		Items: []types.ExperienceItem{{
			ID:        "e1",
			Company:   "Acme",
			Role:      "Engineer",
			StartDate: types.YearMonth{Year: 2023, Month: time.January},
			Bullets:   []string{"Shipped"},
		}},
	}, time.Now()))
	data, err := json.Marshal(cv)
	require.NoError(t, err)

	assert.NoError(t, ValidateCV(data))
}

func TestValidateCV_Violations(t *testing.T) {
	tests := []struct {
		name  string
		doc   []byte
		field string
	}{
		{
			name:  "missing settings",
			doc:   mutate(t, func(doc map[string]any) { delete(doc, "settings") }),
			field: "(root)",
		},
		{
			name: "unknown font",
			doc: mutate(t, func(doc map[string]any) {
				doc["settings"].(map[string]any)["font"] = "Comic Sans"
			}),
			field: "settings.font",
		},
		{
			name: "margin out of range",
			doc: mutate(t, func(doc map[string]any) {
				doc["settings"].(map[string]any)["margins"].(map[string]any)["top"] = 9
			}),
			field: "settings.margins.top",
		},
		{
			name: "negative order",
			doc: mutate(t, func(doc map[string]any) {
				doc["sections"].([]any)[0].(map[string]any)["order"] = -1
			}),
			field: "sections.0.order",
		},
		{
			name: "unknown section type",
			doc: mutate(t, func(doc map[string]any) {
				sectionData(doc, 1)["type"] = "hobbies"
			}),
			field: "sections.1.data.type",
		},
		{
			name: "bad header layout",
			doc: mutate(t, func(doc map[string]any) {
				fields := sectionData(doc, 0)["fields"].([]any)
				fields[0].(map[string]any)["layout"] = "quarter"
			}),
			field: "sections.0.data.fields.0.layout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCV(tt.doc)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Errors)
			fields := make([]string, len(ve.Errors))
			for i, fe := range ve.Errors {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateCV_NotJSON(t *testing.T) {
	err := ValidateCV([]byte("{ invalid json }"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "settings.font", Message: "must be one of the following"},
		{Field: "(root)", Message: "id is required"},
	}}
	assert.Equal(t, "validation failed: settings.font: must be one of the following; (root): id is required", err.Error())
}

func TestDecodeCV(t *testing.T) {
	cv, err := DecodeCV(defaultCVJSON(t))
	require.NoError(t, err)
	assert.Len(t, cv.Sections, 9)

	dup := mutate(t, func(doc map[string]any) {
		sections := doc["sections"].([]any)
		sections[1].(map[string]any)["id"] = sections[0].(map[string]any)["id"]
	})
	_, err = DecodeCV(dup)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, strings.Contains(err.Error(), "duplicate id"))
}

func TestReadCVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	require.NoError(t, os.WriteFile(path, defaultCVJSON(t), 0644))

	cv, err := ReadCVFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Times New Roman", string(cv.Settings.Font))

	_, err = ReadCVFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Go"}`))

	err := ValidateJSONString(schema, `{"name": 1}`)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
