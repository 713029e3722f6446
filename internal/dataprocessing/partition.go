package dataprocessing

import (
	"trialpulse/pkg/contracts/domain"
)

// Partition splits records into the working set and the invalid set in a
// single left-to-right scan, preserving input order within each side. The
// verdict slice must be index-aligned with the records (as produced by
// ValidateAll). An empty working set is the one fatal condition here and is
// reported as EmptyWorkingSetError; the invalid set is still returned for
// diagnostics.
func Partition(records []domain.CandidateRecord, verdicts []domain.Verdict) (domain.WorkingSet, []domain.InvalidRecord, error) {
	working := make(domain.WorkingSet, 0, len(records))
	var invalid []domain.InvalidRecord

	for i, rec := range records {
		if verdicts[i].Valid {
			working = append(working, rec)
			continue
		}
		invalid = append(invalid, domain.InvalidRecord{
			Record:  rec,
			Reasons: verdicts[i].Reasons,
		})
	}

	if len(working) == 0 {
		return nil, invalid, &domain.EmptyWorkingSetError{InvalidRecords: len(invalid)}
	}
	return working, invalid, nil
}
