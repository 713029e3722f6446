package dataprocessing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

func TestPartition(t *testing.T) {
	records := []domain.CandidateRecord{}
	for i := 0; i < 6; i++ {
		rec := validRecord()
		rec.PatientID = fmt.Sprintf("P%03d", i)
		rec.SourceIndex = i
		if i%2 == 1 {
			rec.DateParsed = false
		}
		records = append(records, rec)
	}

	working, invalid, err := Partition(records, ValidateAll(records))
	require.NoError(t, err)

	// Partition is total and disjoint.
	assert.Equal(t, len(records), len(working)+len(invalid))
	assert.Len(t, working, 3)
	assert.Len(t, invalid, 3)

	// Relative order is preserved on both sides.
	assert.Equal(t, []string{"P000", "P002", "P004"},
		[]string{working[0].PatientID, working[1].PatientID, working[2].PatientID})
	assert.Equal(t, []string{"P001", "P003", "P005"},
		[]string{invalid[0].Record.PatientID, invalid[1].Record.PatientID, invalid[2].Record.PatientID})

	for _, rec := range invalid {
		assert.NotEmpty(t, rec.Reasons, "invalid records always carry reasons")
	}
}

func TestPartition_EmptyWorkingSet(t *testing.T) {
	rec := validRecord()
	rec.AgeParsed = false
	rec.RawAge = "??"
	records := []domain.CandidateRecord{rec, rec}

	working, invalid, err := Partition(records, ValidateAll(records))
	require.Error(t, err)

	var emptyErr *domain.EmptyWorkingSetError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 2, emptyErr.InvalidRecords)
	assert.Nil(t, working)
	assert.Len(t, invalid, 2, "invalid set stays available for diagnostics")
}

func TestLoadAndValidate(t *testing.T) {
	input := sampleHeader + "\n" +
		"P001,SiteA,2024-01-10,20,true,false\n" +
		"P002,SiteA,2024-01-11,40,true,true\n" +
		"P003,,2024-01-12,abc,false,true\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	result, err := LoadAndValidate(table)
	require.NoError(t, err)

	assert.Len(t, result.WorkingSet, 2)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, []string{"Invalid age: abc", "Missing trial site"}, result.Invalid[0].Reasons)
	assert.Equal(t, []string{"Total: 1 invalid record(s) excluded from analysis"}, result.Warnings)
}

func TestLoadAndValidate_NoWarningsWhenClean(t *testing.T) {
	input := sampleHeader + "\n" + "P001,SiteA,2024-01-10,20,false,true\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	result, err := LoadAndValidate(table)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestLoadAndValidate_AllRowsInvalid(t *testing.T) {
	// Every row carries age 200; the run fails but each row keeps its reason.
	var sb strings.Builder
	sb.WriteString(sampleHeader + "\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&sb, "P%03d,SiteA,2024-01-10,200,false,true\n", i)
	}

	table, err := ReadCSV(strings.NewReader(sb.String()))
	require.NoError(t, err)

	_, err = LoadAndValidate(table)
	var emptyErr *domain.EmptyWorkingSetError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 3, emptyErr.InvalidRecords)

	// Re-run the pipeline pieces to inspect the invalid set.
	records, err := ParseRecords(table)
	require.NoError(t, err)
	_, invalid, _ := Partition(records, ValidateAll(records))
	require.Len(t, invalid, 3)
	for _, rec := range invalid {
		assert.Equal(t, []string{"Invalid age: 200"}, rec.Reasons)
	}
}
