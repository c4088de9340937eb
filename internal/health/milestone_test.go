package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachedMilestone(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		current  int
		want     bool
	}{
		{"crosses first rung", 80, 120, true},
		{"between rungs", 120, 150, false},
		{"jumps several rungs at once", 80, 600, true},
		{"lands exactly on a rung", 99, 100, true},
		{"starts exactly on a rung", 100, 499, false},
		{"no change", 250, 250, false},
		{"stars lost", 600, 400, false},
		{"from zero past everything", 0, 200000, true},
		{"below all rungs", 10, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReachedMilestone(tt.current, tt.previous))
		})
	}
}
