package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

const sampleHeader = "patient_id,trial_site,enrollment_date,age,adverse_event,completed_trial"

func TestReadCSV(t *testing.T) {
	input := sampleHeader + "\n" +
		"P001,SiteA,2024-01-15,34,false,true\n" +
		"P002,SiteB,2024-01-16,52\n" // short row

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, domain.RequiredFields(), table.Header)
	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[1], 6, "short rows are padded to header width")
	assert.Equal(t, "", table.Rows[1][5])
}

func TestReadCSV_Empty(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}

func TestParseRecords_SchemaError(t *testing.T) {
	tests := []struct {
		name        string
		header      []string
		wantMissing []string
	}{
		{
			name:        "trial_site column absent",
			header:      []string{"patient_id", "enrollment_date", "age", "adverse_event", "completed_trial"},
			wantMissing: []string{"trial_site"},
		},
		{
			name:        "several columns absent",
			header:      []string{"patient_id", "age"},
			wantMissing: []string{"trial_site", "enrollment_date", "adverse_event", "completed_trial"},
		},
		{
			name:        "empty header",
			header:      nil,
			wantMissing: domain.RequiredFields(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords(&Table{Header: tt.header})
			require.Error(t, err)

			var schemaErr *domain.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantMissing, schemaErr.Missing)
		})
	}
}

func TestParseRecords_Coercion(t *testing.T) {
	table := &Table{
		Header: domain.RequiredFields(),
		Rows: [][]string{
			{"P001", "SiteA", "2024-01-15", "34", "true", "TRUE"},
			{"P002", "SiteB", "15/01/2024", "abc", "1", "0"},
			{"", "  ", "2024-02-30", "-5", "yes", ""},
		},
	}

	records, err := ParseRecords(table)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.True(t, first.DateParsed)
	assert.Equal(t, "2024-01-15", first.EnrollmentDate.Format(domain.DateFormat))
	assert.True(t, first.AgeParsed)
	assert.Equal(t, 34.0, first.Age)
	assert.True(t, first.AdverseEvent)
	assert.True(t, first.CompletedTrial, "uppercase TRUE matches case-insensitively")
	assert.Equal(t, 0, first.SourceIndex)

	second := records[1]
	assert.False(t, second.DateParsed, "wrong date layout becomes a marker, not an error")
	assert.False(t, second.AgeParsed)
	assert.Equal(t, "abc", second.RawAge, "raw text is kept for validation reasons")
	assert.True(t, second.AdverseEvent, "literal 1 means true")
	assert.False(t, second.CompletedTrial)

	third := records[2]
	assert.False(t, third.HasPatientID())
	assert.False(t, third.HasTrialSite(), "whitespace-only site is absent")
	assert.False(t, third.DateParsed, "impossible calendar date is unparseable")
	assert.True(t, third.AgeParsed, "negative ages parse; the validator rejects them")
	assert.Equal(t, -5.0, third.Age)
	assert.False(t, third.AdverseEvent, "anything outside {true,1} is false")
	assert.Equal(t, 2, third.SourceIndex)
}

func TestParseRawRecords(t *testing.T) {
	rows := []domain.RawRecord{
		{
			"patient_id": "P001", "trial_site": "SiteA", "enrollment_date": "2024-03-01",
			"age": "40", "adverse_event": "false", "completed_trial": "true",
		},
	}

	records, err := ParseRawRecords(rows, domain.RequiredFields())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P001", records[0].PatientID)
	assert.True(t, records[0].CompletedTrial)

	_, err = ParseRawRecords(rows, []string{"patient_id", "age"})
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
