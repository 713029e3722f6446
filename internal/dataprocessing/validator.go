package dataprocessing

import (
	"fmt"

	"trialpulse/pkg/contracts/domain"
)

// Validation reason wording is a compatibility contract with downstream
// reporting; do not rephrase.
const (
	reasonInvalidDate      = "Invalid enrollment date"
	reasonMissingPatientID = "Missing patient ID"
	reasonMissingTrialSite = "Missing trial site"
)

// Validate applies the fixed rule set to one CandidateRecord. Reasons are
// produced one per failing predicate, in this exact order:
//
//  1. unparseable enrollment date
//  2. unparseable or out-of-bounds age (0..150 inclusive), echoing the raw value
//  3. missing patient ID
//  4. missing trial site
//
// A record failing zero predicates is valid.
func Validate(rec domain.CandidateRecord) domain.Verdict {
	var reasons []string

	if !rec.DateParsed {
		reasons = append(reasons, reasonInvalidDate)
	}
	if !rec.AgeParsed || rec.Age < domain.MinAge || rec.Age > domain.MaxAge {
		reasons = append(reasons, fmt.Sprintf("Invalid age: %s", rec.RawAge))
	}
	if !rec.HasPatientID() {
		reasons = append(reasons, reasonMissingPatientID)
	}
	if !rec.HasTrialSite() {
		reasons = append(reasons, reasonMissingTrialSite)
	}

	if len(reasons) > 0 {
		return domain.Verdict{Valid: false, Reasons: reasons}
	}
	return domain.Verdict{Valid: true}
}

// ValidateAll returns one verdict per record, index-aligned with the input.
func ValidateAll(records []domain.CandidateRecord) []domain.Verdict {
	verdicts := make([]domain.Verdict, len(records))
	for i, rec := range records {
		verdicts[i] = Validate(rec)
	}
	return verdicts
}
