package analysis

import (
	"trialpulse/pkg/contracts/domain"
)

// GradeForRate maps a completion rate percentage to a site grade using
// closed lower thresholds: >=90 A, >=70 B, >=50 C, otherwise D. Total over
// all real inputs; rates are bounded to [0,100] by construction upstream.
func GradeForRate(ratePercent float64) domain.Grade {
	switch {
	case ratePercent >= 90:
		return domain.GradeA
	case ratePercent >= 70:
		return domain.GradeB
	case ratePercent >= 50:
		return domain.GradeC
	default:
		return domain.GradeD
	}
}
