package geo

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestDistanceZero(t *testing.T) {
	if d := Distance(52.52, 13.405, 52.52, 13.405); d != 0 {
		t.Errorf("expected 0 for identical points, got %f", d)
	}
}

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		// Berlin city fixtures used by the radius-boundary matching tests.
		{"berlin east 0.2deg lon", 52.5200, 13.4050, 52.5200, 13.6050, 13.53, 0.1},
		{"berlin east 0.5deg lon", 52.5200, 13.4050, 52.5200, 13.9050, 33.82, 0.1},
		{"berlin to hamburg", 52.5200, 13.4050, 53.5511, 9.9937, 255.0, 5.0},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.5},
	}
	for _, tc := range cases {
		got := Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if !almostEqual(got, tc.wantKm, tc.tolerance) {
			t.Errorf("%s: expected ~%f km, got %f", tc.name, tc.wantKm, got)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(52.52, 13.405, 48.1351, 11.582)
	b := Distance(48.1351, 11.582, 52.52, 13.405)
	if !almostEqual(a, b, 1e-9) {
		t.Errorf("distance is not symmetric: %f vs %f", a, b)
	}
}
