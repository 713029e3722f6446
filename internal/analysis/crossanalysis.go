package analysis

import (
	"fmt"
	"math"
	"sort"

	"trialpulse/pkg/contracts/domain"
)

// Correlation matrix field names, in reporting order.
const (
	FieldAge            = "age"
	FieldAdverseEvent   = "adverse_event"
	FieldCompletedTrial = "completed_trial"
)

// AgeBucketConfig is the edge/label table used to bucket records by age.
// Intervals are half-open, left edge exclusive and right edge inclusive,
// except that ages equal to the lowest edge fall into the first bucket so
// the full valid age range maps to exactly one bucket.
type AgeBucketConfig struct {
	Edges  []float64
	Labels []string
}

// DefaultAgeBuckets returns the fixed default edge set.
func DefaultAgeBuckets() AgeBucketConfig {
	return AgeBucketConfig{
		Edges:  []float64{0, 35, 50, 65, 150},
		Labels: []string{"18-35", "36-50", "51-65", "65+"},
	}
}

// Validate checks that edges are strictly increasing and that there is one
// label per interval.
func (c AgeBucketConfig) Validate() error {
	if len(c.Edges) < 2 {
		return fmt.Errorf("age buckets need at least 2 edges, got %d", len(c.Edges))
	}
	if len(c.Labels) != len(c.Edges)-1 {
		return fmt.Errorf("age buckets need %d labels for %d edges, got %d",
			len(c.Edges)-1, len(c.Edges), len(c.Labels))
	}
	for i := 1; i < len(c.Edges); i++ {
		if c.Edges[i] <= c.Edges[i-1] {
			return fmt.Errorf("age bucket edges must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// bucketIndex returns the interval index for age, or -1 when age falls
// outside every interval.
func (c AgeBucketConfig) bucketIndex(age float64) int {
	for i := 0; i < len(c.Edges)-1; i++ {
		lowerOK := age > c.Edges[i] || (i == 0 && age == c.Edges[0])
		if lowerOK && age <= c.Edges[i+1] {
			return i
		}
	}
	return -1
}

// ComputeCrossAnalysis computes per-site performance (with grades), the
// age-bucket breakdown, and the pairwise correlation matrix over the working
// set. The bucket config must be valid; use DefaultAgeBuckets when the caller
// has no override.
func ComputeCrossAnalysis(ws domain.WorkingSet, buckets AgeBucketConfig) (domain.CrossAnalysisReport, error) {
	if err := buckets.Validate(); err != nil {
		return domain.CrossAnalysisReport{}, err
	}
	return domain.CrossAnalysisReport{
		SitePerformance: sitePerformance(ws),
		AgeGroups:       ageGroups(ws, buckets),
		Correlations:    correlationMatrix(ws),
	}, nil
}

func sitePerformance(ws domain.WorkingSet) []domain.SitePerformance {
	type siteAcc struct {
		patients  int
		completed int
		adverse   int
		ageSum    float64
	}
	acc := make(map[string]*siteAcc)
	for _, rec := range ws {
		a := acc[rec.TrialSite]
		if a == nil {
			a = &siteAcc{}
			acc[rec.TrialSite] = a
		}
		a.patients++
		a.ageSum += rec.Age
		if rec.CompletedTrial {
			a.completed++
		}
		if rec.AdverseEvent {
			a.adverse++
		}
	}

	sites := make([]string, 0, len(acc))
	for site := range acc {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	out := make([]domain.SitePerformance, 0, len(sites))
	for _, site := range sites {
		a := acc[site]
		rate := Round2(float64(a.completed) / float64(a.patients) * 100)
		out = append(out, domain.SitePerformance{
			Site:                  site,
			Patients:              a.patients,
			Completed:             a.completed,
			CompletionMean:        Round2(float64(a.completed) / float64(a.patients)),
			CompletionRatePercent: rate,
			AdverseEvents:         a.adverse,
			AverageAge:            Round2(a.ageSum / float64(a.patients)),
			Grade:                 GradeForRate(rate),
		})
	}
	return out
}

func ageGroups(ws domain.WorkingSet, buckets AgeBucketConfig) []domain.AgeGroup {
	patients := make([]int, len(buckets.Labels))
	completed := make([]int, len(buckets.Labels))
	for _, rec := range ws {
		idx := buckets.bucketIndex(rec.Age)
		if idx < 0 {
			continue
		}
		patients[idx]++
		if rec.CompletedTrial {
			completed[idx]++
		}
	}

	out := make([]domain.AgeGroup, len(buckets.Labels))
	for i, label := range buckets.Labels {
		group := domain.AgeGroup{
			Label:     label,
			Patients:  patients[i],
			Completed: completed[i],
		}
		if patients[i] > 0 {
			group.CompletionMean = Round2(float64(completed[i]) / float64(patients[i]))
		}
		out[i] = group
	}
	return out
}

func correlationMatrix(ws domain.WorkingSet) domain.CorrelationMatrix {
	fields := []string{FieldAge, FieldAdverseEvent, FieldCompletedTrial}

	vectors := map[string][]float64{
		FieldAge:            make([]float64, len(ws)),
		FieldAdverseEvent:   make([]float64, len(ws)),
		FieldCompletedTrial: make([]float64, len(ws)),
	}
	for i, rec := range ws {
		vectors[FieldAge][i] = rec.Age
		vectors[FieldAdverseEvent][i] = boolToFloat(rec.AdverseEvent)
		vectors[FieldCompletedTrial][i] = boolToFloat(rec.CompletedTrial)
	}

	values := make(map[string]map[string]domain.Coefficient, len(fields))
	for _, row := range fields {
		values[row] = make(map[string]domain.Coefficient, len(fields))
		for _, col := range fields {
			r := pearson(vectors[row], vectors[col])
			values[row][col] = domain.Coefficient(Round3(r))
		}
	}
	return domain.CorrelationMatrix{Fields: fields, Values: values}
}

// pearson computes the Pearson correlation coefficient. A zero-variance
// input makes the coefficient undefined: the result is NaN, never zero.
// Self-correlation of a varying vector is exactly 1.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
