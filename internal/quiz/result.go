package quiz

import "math"

const (
	TierPerfect   = "perfect"
	TierGreat     = "great"
	TierGood      = "good"
	TierKeepGoing = "keep-going"
)

// Result is the graded summary handed to the results display.
type Result struct {
	Correct int
	Total   int
	Percent int
	Tier    string
	Message string
}

// Percent returns the rounded share of correct answers, 0 for an empty session.
func (s Stats) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) * 100 / float64(s.Total)))
}

func Grade(stats Stats) Result {
	result := Result{
		Correct: stats.Correct,
		Total:   stats.Total,
		Percent: stats.Percent(),
	}

	switch {
	case result.Percent == 100 && stats.Total > 0:
		result.Tier, result.Message = TierPerfect, "Perfect score. Outstanding!"
	case result.Percent >= 80:
		result.Tier, result.Message = TierGreat, "Great result!"
	case result.Percent >= 60:
		result.Tier, result.Message = TierGood, "Nice going!"
	default:
		result.Tier, result.Message = TierKeepGoing, "You'll get more next time!"
	}
	return result
}
