package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trialpulse/pkg/contracts/domain"
)

func TestGradeForRate(t *testing.T) {
	tests := []struct {
		rate float64
		want domain.Grade
	}{
		{100, domain.GradeA},
		{90.0, domain.GradeA},
		{89.99, domain.GradeB},
		{70.0, domain.GradeB},
		{69.99, domain.GradeC},
		{50.0, domain.GradeC},
		{49.99, domain.GradeD},
		{0, domain.GradeD},
		// Out-of-range inputs must not panic; thresholds stay total.
		{-10, domain.GradeD},
		{120, domain.GradeA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeForRate(tt.rate), "rate %v", tt.rate)
	}
}

func TestGrade_Description(t *testing.T) {
	assert.Equal(t, "A (Excellent)", domain.GradeA.Description())
	assert.Equal(t, "B (Good)", domain.GradeB.Description())
	assert.Equal(t, "C (Fair)", domain.GradeC.Description())
	assert.Equal(t, "D (Poor)", domain.GradeD.Description())
}
