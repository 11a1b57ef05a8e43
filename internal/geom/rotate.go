package geom

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * degToRad
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * radToDeg
}

// RotateY rotates v around the up axis by deg degrees on the XZ plane.
// Positive angles turn +Z towards +X (clockwise seen from above), matching
// the heading convention of Heading.
func RotateY(v Vec3, deg float64) Vec3 {
	if deg == 0 {
		return v
	}
	s, c := math.Sincos(Radians(deg))
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Heading returns the angle of v on the XZ plane in degrees, measured from
// +Z towards +X, in (-180, 180].
func Heading(v Vec3) float64 {
	return Degrees(math.Atan2(v.X, v.Z))
}

// FromHeading returns the unit ground-plane vector for a heading in degrees.
func FromHeading(deg float64) Vec3 {
	s, c := math.Sincos(Radians(deg))
	return Vec3{X: s, Z: c}
}

// AngleBetween returns the signed angle in degrees that rotates from onto to
// on the XZ plane, normalised to (-180, 180].
func AngleBetween(from, to Vec3) float64 {
	return NormalizeAngle(Heading(to) - Heading(from))
}

// NormalizeAngle wraps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}

// RotateTowards turns the unit vector from towards to by at most maxDeg
// degrees on the XZ plane.
func RotateTowards(from, to Vec3, maxDeg float64) Vec3 {
	delta := AngleBetween(from, to)
	if math.Abs(delta) <= maxDeg {
		return to.Normalize()
	}
	if delta < 0 {
		maxDeg = -maxDeg
	}
	return RotateY(from, maxDeg).Normalize()
}
