package gamemath

import "math"

// WrapAngle maps a into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates from a to b along the shorter arc.
func LerpAngle(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + WrapAngle(b-a)*t
}

func Lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}

// Normalize returns the unit vector of (x, y) and its original length.
// A zero vector stays zero.
func Normalize(x, y float64) (nx, ny, length float64) {
	length = math.Hypot(x, y)
	if length == 0 {
		return 0, 0, 0
	}
	return x / length, y / length, length
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// TurnToward rotates current toward target by errorGain*dt of the wrapped
// angular error. Errors at or below epsilon leave current unchanged.
func TurnToward(current, target, errorGain, dt, epsilon float64) float64 {
	diff := WrapAngle(target - current)
	if math.Abs(diff) <= epsilon {
		return current
	}
	return current + diff*errorGain*dt
}
