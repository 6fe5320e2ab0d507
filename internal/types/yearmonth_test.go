package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    YearMonth
		wantErr bool
	}{
		{name: "year-month", input: "2023-01", want: YearMonth{Year: 2023, Month: time.January}},
		{name: "year only", input: "2019", want: YearMonth{Year: 2019, Month: time.January}},
		{name: "timestamp", input: "2022-11-05T08:00:00Z", want: YearMonth{Year: 2022, Month: time.November}},
		{name: "empty", input: "  ", want: YearMonth{}},
		{name: "garbage", input: "last spring", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYearMonth(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearMonth_JSON(t *testing.T) {
	ym := YearMonth{Year: 2021, Month: time.September}
	raw, err := json.Marshal(ym)
	require.NoError(t, err)
	assert.Equal(t, `"2021-09"`, string(raw))

	var decoded YearMonth
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ym, decoded)

	var empty YearMonth
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())
	assert.Equal(t, "", empty.String())
}

func TestExperienceItem_OngoingEndDate(t *testing.T) {
	var item ExperienceItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"e","startDate":"2020-02","endDate":null}`), &item))
	assert.Nil(t, item.EndDate)
	assert.Equal(t, YearMonth{Year: 2020, Month: time.February}, item.StartDate)
}
