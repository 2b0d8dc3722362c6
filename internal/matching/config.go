package matching

// Thresholds partitions the 0-100 confidence space.
type Thresholds struct {
	Certain int
	High    int
	Medium  int
	Low     int
}

// NameWeights defines how first and last name similarity combine.
type NameWeights struct {
	FirstName float64
	LastName  float64
}

// Default confidence boundaries.
const (
	CertainThreshold = 100
	HighThreshold    = 85
	MediumThreshold  = 70
	LowThreshold     = 50
)

// Default name weights; the last name counts more than the first.
const (
	FirstNameWeight = 0.4
	LastNameWeight  = 0.6
)

// DefaultThresholds returns the confidence levels used for classification.
// Each call returns a fresh value, so callers may tune their copy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Certain: CertainThreshold,
		High:    HighThreshold,
		Medium:  MediumThreshold,
		Low:     LowThreshold,
	}
}

// DefaultNameWeights returns the standard first/last name weighting.
func DefaultNameWeights() NameWeights {
	return NameWeights{FirstName: FirstNameWeight, LastName: LastNameWeight}
}

// DefaultDuplicateThreshold is the minimum score IsDuplicate accepts when
// callers do not supply their own.
const DefaultDuplicateThreshold = MediumThreshold

// Level maps a score onto a confidence level. Boundaries are inclusive.
func (t Thresholds) Level(score int) ConfidenceLevel {
	switch {
	case score >= t.Certain:
		return ConfidenceCertain
	case score >= t.High:
		return ConfidenceHigh
	case score >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Score combines first and last name similarity using the weights.
func (w NameWeights) Score(firstSimilarity, lastSimilarity int) int {
	score := float64(firstSimilarity)*w.FirstName + float64(lastSimilarity)*w.LastName
	return clampScore(roundHalfUp(score))
}
