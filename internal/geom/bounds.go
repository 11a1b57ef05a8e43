package geom

import "math"

// Bounds3 is an axis-aligned box on the ground plane described by its center
// and half-extents. Only X and Z extents take part in placement math.
type Bounds3 struct {
	Center  Vec3
	Extents Vec3 // half-extents, never negative
}

// NewBounds creates Bounds3 from center and half-extents, clamping negative
// extents to zero.
func NewBounds(center, extents Vec3) Bounds3 {
	return Bounds3{
		Center: center,
		Extents: Vec3{
			X: math.Max(0, extents.X),
			Y: math.Max(0, extents.Y),
			Z: math.Max(0, extents.Z),
		},
	}
}

// BoundsFromMinMax creates Bounds3 spanning [minX..maxX] × [minZ..maxZ].
func BoundsFromMinMax(minX, minZ, maxX, maxZ float64) Bounds3 {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	return Bounds3{
		Center:  Flat((minX+maxX)/2, (minZ+maxZ)/2),
		Extents: Vec3{X: (maxX - minX) / 2, Z: (maxZ - minZ) / 2},
	}
}

func (b Bounds3) Min() Vec3 { return b.Center.Sub(b.Extents) }
func (b Bounds3) Max() Vec3 { return b.Center.Add(b.Extents) }

// Width is the full X size.
func (b Bounds3) Width() float64 { return b.Extents.X * 2 }

// Depth is the full Z size.
func (b Bounds3) Depth() float64 { return b.Extents.Z * 2 }

// Aspect returns Width/Depth, or 1 for degenerate boxes.
func (b Bounds3) Aspect() float64 {
	if b.Extents.Z < Epsilon || b.Extents.X < Epsilon {
		return 1
	}
	return b.Extents.X / b.Extents.Z
}

// Contains reports whether p lies inside the box on the XZ plane.
func (b Bounds3) Contains(p Vec3) bool {
	return math.Abs(p.X-b.Center.X) <= b.Extents.X+Epsilon &&
		math.Abs(p.Z-b.Center.Z) <= b.Extents.Z+Epsilon
}

// ClampPoint moves p inside the box on the XZ plane and pins Y to GroundY.
func (b Bounds3) ClampPoint(p Vec3) Vec3 {
	lo, hi := b.Min(), b.Max()
	return Vec3{
		X: Clamp(p.X, lo.X, hi.X),
		Y: GroundY,
		Z: Clamp(p.Z, lo.Z, hi.Z),
	}
}

// Inset shrinks the box by margin on each side, never below zero extents.
func (b Bounds3) Inset(margin float64) Bounds3 {
	return NewBounds(b.Center, Vec3{X: b.Extents.X - margin, Y: b.Extents.Y, Z: b.Extents.Z - margin})
}

// EdgePoint returns where a ray cast from the center along dir leaves the box.
// dir is projected onto the XZ plane; a zero dir returns the center.
func (b Bounds3) EdgePoint(dir Vec3) Vec3 {
	dir = Vec3{X: dir.X, Z: dir.Z}.Normalize()
	if dir.IsZero() {
		return Flat(b.Center.X, b.Center.Z)
	}

	t := math.Inf(1)
	if math.Abs(dir.X) > Epsilon {
		t = math.Min(t, b.Extents.X/math.Abs(dir.X))
	}
	if math.Abs(dir.Z) > Epsilon {
		t = math.Min(t, b.Extents.Z/math.Abs(dir.Z))
	}
	if math.IsInf(t, 1) {
		t = 0
	}
	return b.ClampPoint(b.Center.Add(dir.Scale(t)))
}
