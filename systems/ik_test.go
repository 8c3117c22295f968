package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const geomTol = 1e-6

func TestSolveLimbReachable(t *testing.T) {
	tests := []struct {
		name         string
		attach       r2.Vec
		target       r2.Vec
		upper, lower float64
		side         float64
	}{
		{"straight down", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0, Y: 10}, 7, 8, 1},
		{"diagonal", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 12, Y: 14}, 7, 8, -1},
		{"equal segments", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 6, Y: 0}, 5, 5, 1},
		{"offset attach", r2.Vec{X: 100, Y: 640}, r2.Vec{X: 108, Y: 652}, 7, 8, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joint, end := LimbPose(tt.attach, tt.target, tt.upper, tt.lower, tt.side)

			if got := r2.Norm(r2.Sub(joint, tt.attach)); math.Abs(got-tt.upper) > geomTol {
				t.Errorf("upper segment length = %v, want %v", got, tt.upper)
			}
			if got := r2.Norm(r2.Sub(end, joint)); math.Abs(got-tt.lower) > geomTol {
				t.Errorf("lower segment length = %v, want %v", got, tt.lower)
			}
			// Reachable targets are hit exactly
			if got := r2.Norm(r2.Sub(end, tt.target)); got > geomTol {
				t.Errorf("end %v misses target %v by %v", end, tt.target, got)
			}
		})
	}
}

func TestSolveLimbBendSide(t *testing.T) {
	attach := r2.Vec{}
	target := r2.Vec{X: 10}

	up := SolveLimb(attach, target, 7, 7, -1)
	down := SolveLimb(attach, target, 7, 7, 1)

	// With the target on +X, positive side rotates the knee toward +Y
	if down.Y <= 0 {
		t.Errorf("side +1 joint = %v, want Y > 0", down)
	}
	if up.Y >= 0 {
		t.Errorf("side -1 joint = %v, want Y < 0", up)
	}
	if math.Abs(up.X-down.X) > geomTol || math.Abs(up.Y+down.Y) > geomTol {
		t.Errorf("bend sides not mirrored: %v vs %v", up, down)
	}
}

func TestSolveLimbDegenerate(t *testing.T) {
	tests := []struct {
		name         string
		target       r2.Vec
		upper, lower float64
	}{
		{"target at attach", r2.Vec{}, 7, 8},
		{"far out of reach", r2.Vec{X: 1000, Y: -500}, 7, 8},
		{"inside min reach", r2.Vec{X: 0.5}, 4, 9},
		{"equal segments at attach", r2.Vec{}, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joint, end := LimbPose(r2.Vec{}, tt.target, tt.upper, tt.lower, 1)
			for _, v := range []float64{joint.X, joint.Y, end.X, end.Y} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("pose not finite: joint %v end %v", joint, end)
				}
			}
			minReach, maxReach := ReachRange(tt.upper, tt.lower)
			d := r2.Norm(end)
			if d < minReach-geomTol || d > maxReach+geomTol {
				t.Errorf("reach %v outside [%v, %v]", d, minReach, maxReach)
			}
		})
	}
}

// TestSolveLimbRandomReachBounds checks the reach invariant for arbitrary targets.
func TestSolveLimbRandomReachBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		upper := 1 + rng.Float64()*20
		lower := 1 + rng.Float64()*20
		attach := r2.Vec{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		target := r2.Vec{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		side := 1.0
		if rng.Intn(2) == 0 {
			side = -1
		}

		joint, end := LimbPose(attach, target, upper, lower, side)
		minReach, maxReach := ReachRange(upper, lower)
		d := r2.Norm(r2.Sub(end, attach))
		if d < minReach-geomTol || d > maxReach+geomTol {
			t.Fatalf("case %d: reach %v outside [%v, %v]", i, d, minReach, maxReach)
		}
		if got := r2.Norm(r2.Sub(end, joint)); math.Abs(got-lower) > 1e-5 {
			t.Fatalf("case %d: lower segment %v, want %v", i, got, lower)
		}
	}
}
