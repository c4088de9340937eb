// Package health computes derived health signals for a cataloged tool:
// the composite score used for ranking and star-count milestone crossings.
// Everything here is pure; callers supply the clock.
package health

import (
	"math"
	"time"
)

// Fixed scoring policy. The inactivity penalty saturates at 90 days, so a
// repository dead for two years scores the same as one dead for three months.
const (
	starsWeight        = 0.25
	forksWeight        = 0.5
	contributorsWeight = 0.5
	watchersWeight     = 0.25
	penaltyPerDay      = 0.5
	penaltyCapDays     = 90
)

// Signals is the normalized metrics tuple the score is computed from.
// Bump is the manually curated offset stored on the tool record; it is not
// derived from the remote source.
type Signals struct {
	Stars          int
	Forks          int
	Contributors   int
	Watchers       int
	LastCommitDate *time.Time
	Bump           int
}

// Score maps signals to an integer health score. A nil last-commit date is
// treated as the Unix epoch, which lands far past the penalty cap.
// Rounding is half away from zero (math.Round); the result may be negative.
func Score(s Signals, now time.Time) int {
	lastCommit := time.Unix(0, 0)
	if s.LastCommitDate != nil {
		lastCommit = *s.LastCommitDate
	}

	days := now.Sub(lastCommit).Hours() / 24
	penalty := math.Min(days, penaltyCapDays) * penaltyPerDay

	raw := float64(s.Stars)*starsWeight +
		float64(s.Forks)*forksWeight +
		float64(s.Contributors)*contributorsWeight +
		float64(s.Watchers)*watchersWeight -
		penalty +
		float64(s.Bump)

	return int(math.Round(raw))
}
