package world

import (
	"testing"

	"pgregory.net/rapid"
)

func TestStillVisible(t *testing.T) {
	const enterSq, exitSq = 26 * 26, 32 * 32

	tests := []struct {
		name   string
		was    bool
		distSq int64
		want   bool
	}{
		{"enters inside enter radius", false, enterSq - 1, true},
		{"enters exactly at enter radius", false, enterSq, true},
		{"stays hidden between radii", false, enterSq + 1, false},
		{"stays hidden beyond exit", false, exitSq + 1, false},
		{"keeps visibility between radii", true, exitSq - 1, true},
		{"loses visibility at exit radius", true, exitSq, false},
		{"loses visibility beyond exit", true, exitSq + 1, false},
		{"keeps visibility close in", true, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StillVisible(tc.was, tc.distSq, enterSq, exitSq); got != tc.want {
				t.Errorf("StillVisible(%v, %d) = %v, want %v", tc.was, tc.distSq, got, tc.want)
			}
		})
	}
}

func TestStillVisibleProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		enter := rapid.Int64Range(1, 1000).Draw(t, "enter")
		exit := rapid.Int64Range(enter+1, 2000).Draw(t, "exit")
		distSq := rapid.Int64Range(0, 3000).Draw(t, "distSq")

		visFromHidden := StillVisible(false, distSq, enter, exit)
		visFromSeen := StillVisible(true, distSq, enter, exit)

		// Hysteresis: anything that becomes visible also stays visible.
		if visFromHidden && !visFromSeen {
			t.Fatalf("dist %d enters at %d but does not persist until %d", distSq, enter, exit)
		}
		if distSq >= exit && visFromSeen {
			t.Fatalf("dist %d past exit %d still visible", distSq, exit)
		}
		if distSq <= enter && !visFromHidden {
			t.Fatalf("dist %d within enter %d not visible", distSq, enter)
		}
	})
}
