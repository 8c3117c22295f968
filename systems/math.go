package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// sign returns -1 for negative values and +1 otherwise.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// lerp interpolates between two vectors.
func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// approach moves v toward target by at most step.
func approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
}

// smoothFactor returns the fraction of the remaining distance covered in dt
// by an exponential ease with the given rate. Frame-rate independent.
func smoothFactor(rate, dt float64) float64 {
	return 1 - math.Exp(-rate*dt)
}

// uniform returns a random value in [lo, hi].
func uniform(rng Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// Rand is the subset of *rand.Rand the systems draw from. All randomness flows
// through the driver's seeded source so runs are replayable.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
