package cmd

import (
	"testing"

	"github.com/trafficgrid/sim/internal/geom"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  geom.Direction
	}{
		{"right", geom.Right},
		{"left", geom.Left},
		{"up", geom.Up},
		{"down", geom.Down},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			dir, err := parseDirection(tc.input)
			if err != nil {
				t.Fatalf("parseDirection(%q) error: %v", tc.input, err)
			}
			if dir != tc.want {
				t.Errorf("parseDirection(%q) = %v, want the %s direction vector %v", tc.input, dir, tc.input, tc.want)
			}
		})
	}
}

func TestParseDirection_Unknown(t *testing.T) {
	if _, err := parseDirection("sideways"); err == nil {
		t.Fatal("expected an error for an unrecognized direction")
	}
}
