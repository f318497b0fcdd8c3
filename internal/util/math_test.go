package util

import "testing"

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value int
		low   int
		high  int
		want  int
	}{
		{name: "within range", value: 5, low: 2, high: 10, want: 5},
		{name: "below range", value: 1, low: 2, high: 10, want: 2},
		{name: "above range", value: 14, low: 2, high: 10, want: 10},
		{name: "at lower bound", value: 2, low: 2, high: 10, want: 2},
		{name: "at upper bound", value: 10, low: 2, high: 10, want: 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Clamp(tc.value, tc.low, tc.high)
			if got != tc.want {
				t.Fatalf("Clamp(%d, %d, %d) = %d, want %d", tc.value, tc.low, tc.high, got, tc.want)
			}
		})
	}
}
