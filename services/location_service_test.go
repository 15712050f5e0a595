package services

import (
	"math"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	// Hanoi -> Ho Chi Minh City, roughly 1140-1170 km
	got := CalculateDistance(21.0278, 105.8342, 10.8231, 106.6297)
	if got < 1100 || got > 1200 {
		t.Fatalf("Hanoi-HCMC distance out of range: %f km", got)
	}

	if d := CalculateDistance(21.0278, 105.8342, 21.0278, 105.8342); math.Abs(d) > 1e-9 {
		t.Fatalf("distance to self should be 0, got %f", d)
	}

	// Symmetry
	a := CalculateDistance(21.0, 105.0, 10.0, 106.0)
	b := CalculateDistance(10.0, 106.0, 21.0, 105.0)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}
