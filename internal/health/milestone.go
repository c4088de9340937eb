package health

// milestones is the fixed ascending ladder of star counts considered worth
// announcing.
var milestones = []int{100, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000}

// ReachedMilestone reports whether the star count crossed any ladder value
// between two observations: some milestone m with previous < m <= current.
// A jump across several rungs in one refresh still reports a single true;
// the ladder rung itself is not identified. This is a delta-crossing test
// against the previously stored count, not a threshold-level check.
func ReachedMilestone(current, previous int) bool {
	for _, m := range milestones {
		if previous < m && m <= current {
			return true
		}
	}
	return false
}
