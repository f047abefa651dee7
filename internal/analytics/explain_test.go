package analytics

import (
	"strings"
	"testing"
)

func TestExplainComparison(t *testing.T) {
	t.Run("nil when a vector is missing", func(t *testing.T) {
		if lines := ExplainComparison(VectorResult{}, vectorOf(5, 0.5, 0.5, 0.5, 0.5, 0.5)); lines != nil {
			t.Errorf("expected nil, got %v", lines)
		}
	})

	t.Run("names the closest aligned dimensions", func(t *testing.T) {
		a := vectorOf(5, 0.5, 0.5, 0.5, 0.5, 0.5)
		b := vectorOf(5, 0.5, 0.52, 0.9, 0.9, 0.9)

		lines := ExplainComparison(a, b)
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %v", lines)
		}
		if lines[0] != "Both playlists feel aligned on energy and danceability." {
			t.Errorf("unexpected alignment line %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "One playlist leans more on") {
			t.Errorf("unexpected divergence line %q", lines[1])
		}
	})

	t.Run("fully divergent vectors only report the split", func(t *testing.T) {
		a := vectorOf(5, 0.9, 0.9, 0.9, 0.9, 0.9)
		b := vectorOf(5, 0.1, 0.1, 0.1, 0.1, 0.1)

		lines := ExplainComparison(a, b)
		if len(lines) != 1 || !strings.HasPrefix(lines[0], "One playlist leans") {
			t.Errorf("unexpected lines %v", lines)
		}
	})
}

func TestDistanceBucket(t *testing.T) {
	cases := []struct {
		diff float64
		want string
	}{
		{0.05, "nearly identical"},
		{0.2, "similar"},
		{0.4, "different"},
	}
	for _, tc := range cases {
		if got := DistanceBucket(tc.diff); got != tc.want {
			t.Errorf("diff %v: expected %q, got %q", tc.diff, tc.want, got)
		}
	}
}
