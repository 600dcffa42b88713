package gamemath

import (
	"math"
	"testing"
)

func TestClampFloat(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{7, 8, 4, 8},
		{math.NaN(), 20, 460, 20},
		{math.Inf(1), 20, 460, 460},
		{math.Inf(-1), 20, 460, 20},
	}
	for _, c := range cases {
		if got := ClampFloat(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("ClampFloat(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestRepulsionImpulsePointsAwayFromOrigin(t *testing.T) {
	ox, oy := 100.0, 400.0
	bodies := [][2]float64{{100, 300}, {50, 350}, {180, 390}, {0, 0}, {300, 410}}

	for _, b := range bodies {
		dvx, dvy := RepulsionImpulse(ox, oy, b[0], b[1], 200000, 1)
		dx, dy := b[0]-ox, b[1]-oy
		if dot := dvx*dx + dvy*dy; dot <= 0 {
			t.Fatalf("impulse for body %v points toward origin: dv=(%f, %f)", b, dvx, dvy)
		}
		// Parallel to the origin->body ray.
		if cross := dvx*dy - dvy*dx; math.Abs(cross) > 1e-6*math.Hypot(dvx, dvy)*math.Hypot(dx, dy) {
			t.Fatalf("impulse for body %v is not radial: cross=%f", b, cross)
		}
	}
}

func TestRepulsionImpulseMagnitudeDecreasesWithDistance(t *testing.T) {
	prev := math.Inf(1)
	for d := 1.0; d <= 1000; d *= 1.5 {
		dvx, dvy := RepulsionImpulse(0, 0, d, 0, 200000, 1)
		mag := math.Hypot(dvx, dvy)
		if mag >= prev {
			t.Fatalf("magnitude not decreasing at dist=%f: got=%f prev=%f", d, mag, prev)
		}
		if want := 200000 / d; math.Abs(mag-want) > 1e-6*want {
			t.Fatalf("magnitude at dist=%f: got=%f want=%f", d, mag, want)
		}
		prev = mag
	}
}

func TestRepulsionImpulseZeroDistanceIsFinite(t *testing.T) {
	dvx, dvy := RepulsionImpulse(50, 400, 50, 400, 200000, 1)
	if math.IsNaN(dvx) || math.IsNaN(dvy) || math.IsInf(dvx, 0) || math.IsInf(dvy, 0) {
		t.Fatalf("zero-distance impulse not finite: (%f, %f)", dvx, dvy)
	}
	if dvx != 0 || dvy != -200000 {
		t.Fatalf("zero-distance impulse = (%f, %f), want (0, -200000)", dvx, dvy)
	}
}

func TestRepulsionImpulseClampsBelowEpsilon(t *testing.T) {
	dvx, dvy := RepulsionImpulse(0, 0, 0.25, 0, 200000, 1)
	if dvy != 0 || dvx != 200000 {
		t.Fatalf("sub-epsilon impulse = (%f, %f), want (200000, 0)", dvx, dvy)
	}
}
