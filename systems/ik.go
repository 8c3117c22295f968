package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ikEpsilon is the fraction of total leg length kept clear of the reach limits,
// so acos never sees a fully straight or fully folded leg.
const ikEpsilon = 1e-6

// SolveLimb returns the joint (knee) position of a two-segment limb attached
// at attach whose foot is placed at target. side (+1/-1) picks which way the
// knee bends. Targets outside the reachable annulus [|L1-L2|, L1+L2] are
// pulled onto it, so the result is always defined.
func SolveLimb(attach, target r2.Vec, upper, lower, side float64) r2.Vec {
	joint, _ := LimbPose(attach, target, upper, lower, side)
	return joint
}

// LimbPose is SolveLimb plus the reachable end point: the foot position the
// limb actually reaches after the target distance has been clamped.
func LimbPose(attach, target r2.Vec, upper, lower, side float64) (joint, end r2.Vec) {
	delta := r2.Sub(target, attach)
	dist := r2.Norm(delta)

	angleToTarget := 0.0
	if dist > 0 {
		angleToTarget = math.Atan2(delta.Y, delta.X)
	}

	dist = clampReach(dist, upper, lower)

	// Law of cosines for the angle between the upper segment and the target line
	cosA := (dist*dist + upper*upper - lower*lower) / (2 * dist * upper)
	angle1 := math.Acos(clampFloat(cosA, -1, 1))

	jointAngle := angleToTarget + side*angle1
	joint = r2.Add(attach, r2.Vec{X: upper * math.Cos(jointAngle), Y: upper * math.Sin(jointAngle)})
	end = r2.Add(attach, r2.Vec{X: dist * math.Cos(angleToTarget), Y: dist * math.Sin(angleToTarget)})
	return joint, end
}

// ReachRange returns the reachable distance interval for the given segment lengths.
func ReachRange(upper, lower float64) (minReach, maxReach float64) {
	return math.Abs(upper - lower), upper + lower
}

// clampReach pulls dist into [|L1-L2|+eps, L1+L2-eps].
func clampReach(dist, upper, lower float64) float64 {
	minReach, maxReach := ReachRange(upper, lower)
	eps := ikEpsilon * maxReach
	if eps < 1e-9 {
		eps = 1e-9
	}
	lo := minReach + eps
	hi := maxReach - eps
	if lo > hi {
		// Degenerate lengths; any positive distance will do
		return math.Max(hi, 1e-9)
	}
	return clampFloat(dist, lo, hi)
}
