package matching

// MatchType describes why two contacts were flagged as duplicates.
type MatchType string

const (
	MatchTypeExactEmail      MatchType = "exact_email"
	MatchTypeSimilarName     MatchType = "similar_name"
	MatchTypeSimilarCombined MatchType = "similar_combined"
)

// ConfidenceLevel is the display bucket for a confidence score.
type ConfidenceLevel string

const (
	ConfidenceCertain ConfidenceLevel = "certain"
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
)

var matchTypeLabels = map[MatchType]string{
	MatchTypeExactEmail:      "Exact email match",
	MatchTypeSimilarName:     "Similar name",
	MatchTypeSimilarCombined: "Similar name and email",
}

var confidenceLabels = map[ConfidenceLevel]string{
	ConfidenceCertain: "Certain",
	ConfidenceHigh:    "High confidence",
	ConfidenceMedium:  "Medium confidence",
	ConfidenceLow:     "Low confidence",
}

var confidenceColors = map[ConfidenceLevel]string{
	ConfidenceCertain: "red",
	ConfidenceHigh:    "orange",
	ConfidenceMedium:  "yellow",
	ConfidenceLow:     "gray",
}

// Label returns the human readable name of the match type.
func (m MatchType) Label() string {
	if label, ok := matchTypeLabels[m]; ok {
		return label
	}
	return string(m)
}

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	_, ok := matchTypeLabels[m]
	return ok
}

// Label returns the human readable name of the level.
func (l ConfidenceLevel) Label() string {
	if label, ok := confidenceLabels[l]; ok {
		return label
	}
	return string(l)
}

// Color returns the badge color used when rendering the level.
func (l ConfidenceLevel) Color() string {
	if color, ok := confidenceColors[l]; ok {
		return color
	}
	return "gray"
}

// Result is the outcome of classifying a candidate pair.
type Result struct {
	Score     int       `json:"score"`
	MatchType MatchType `json:"match_type"`
}

// Candidate carries the fields the classifier looks at.
type Candidate struct {
	Email     string
	FirstName string
	LastName  string
}

// Classifier scores candidate pairs. The zero value is not usable; start
// from DefaultClassifier() and override fields as needed.
type Classifier struct {
	Thresholds Thresholds
	Weights    NameWeights
}

// DefaultClassifier returns a classifier with the default thresholds and
// name weights.
func DefaultClassifier() Classifier {
	return Classifier{
		Thresholds: DefaultThresholds(),
		Weights:    DefaultNameWeights(),
	}
}

// NameSimilarity combines first and last name similarity.
func (c Classifier) NameSimilarity(first1, last1, first2, last2 string) int {
	return c.Weights.Score(Similarity(first1, first2), Similarity(last1, last2))
}

// Classify scores a pair of contacts and labels the kind of match.
// An exact email match always wins. Otherwise a strong name match is
// reported on its own, and a medium name match backed by a similar email
// local part is averaged with it. Anything else falls back to the raw
// name similarity so callers can apply their own cutoff.
func (c Classifier) Classify(a, b Candidate) Result {
	if NormalizeEmail(a.Email) == NormalizeEmail(b.Email) {
		return Result{Score: 100, MatchType: MatchTypeExactEmail}
	}

	nameSim := c.NameSimilarity(a.FirstName, a.LastName, b.FirstName, b.LastName)
	if nameSim >= c.Thresholds.High {
		return Result{Score: nameSim, MatchType: MatchTypeSimilarName}
	}

	emailLocalSim := Similarity(LocalPart(a.Email), LocalPart(b.Email))
	if nameSim >= c.Thresholds.Medium && emailLocalSim >= c.Thresholds.Low {
		combined := roundHalfUp(float64(nameSim+emailLocalSim) / 2)
		return Result{Score: clampScore(combined), MatchType: MatchTypeSimilarCombined}
	}

	return Result{Score: nameSim, MatchType: MatchTypeSimilarName}
}

// IsDuplicate reports whether the pair scores at or above threshold.
func (c Classifier) IsDuplicate(a, b Candidate, threshold int) bool {
	return c.Classify(a, b).Score >= threshold
}

// Level maps a score onto this classifier's confidence levels.
func (c Classifier) Level(score int) ConfidenceLevel {
	return c.Thresholds.Level(score)
}

// NameSimilarity scores names with the default weights.
func NameSimilarity(first1, last1, first2, last2 string) int {
	return DefaultClassifier().NameSimilarity(first1, last1, first2, last2)
}

// Classify scores two contacts with the default classifier.
func Classify(email1, email2, first1, last1, first2, last2 string) Result {
	return DefaultClassifier().Classify(
		Candidate{Email: email1, FirstName: first1, LastName: last1},
		Candidate{Email: email2, FirstName: first2, LastName: last2},
	)
}

// IsDuplicate classifies two contacts with the default classifier and
// compares the score to threshold. Pass DefaultDuplicateThreshold for the
// standard medium cutoff.
func IsDuplicate(email1, email2, first1, last1, first2, last2 string, threshold int) bool {
	return Classify(email1, email2, first1, last1, first2, last2).Score >= threshold
}

// ConfidenceLevelFor maps a score using the default thresholds.
func ConfidenceLevelFor(score int) ConfidenceLevel {
	return DefaultThresholds().Level(score)
}
