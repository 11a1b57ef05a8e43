package spawn

import (
	"math"

	"github.com/udisondev/voidstrike/internal/geom"
)

// fallbackInset keeps fallback positions a hair inside the bounds edge.
const fallbackInset = 0.5

// fallback appends the next deterministic edge position.
//
// The base point is where a ray from the bounds center, pointing away from
// the exclusion center, leaves the bounds. When both centers coincide a
// random direction is drawn once per batch. Further fallbacks in the same
// batch slide along the edge in MinSpacing steps: +1, -1, +2, -2, ...
func (p *placer) fallback() {
	if p.fallbackDir.IsZero() {
		b := p.req.Bounds
		dir := geom.Flat(b.Center.X, b.Center.Z).Sub(p.req.ExclusionCenter)
		if dir.IsZero() {
			dir = geom.FromHeading(p.rng.Float64() * 360)
		}
		p.fallbackDir = dir.Normalize()
	}

	pos := FallbackPosition(p.req.Bounds, p.fallbackDir, p.req.MinSpacing, p.fallbacks)
	p.fallbacks++

	p.accepted = append(p.accepted, pos)
	p.out = append(p.out, Placement{Position: pos, Fallback: true})
}

// FallbackPosition returns the index-th fallback position for a batch whose
// away-from-exclusion direction is dir.
func FallbackPosition(b geom.Bounds3, dir geom.Vec3, spacing float64, index int) geom.Vec3 {
	inner := b.Inset(math.Min(fallbackInset, math.Min(b.Extents.X, b.Extents.Z)))
	base := inner.EdgePoint(dir)
	if index == 0 {
		return base
	}

	step := math.Max(spacing, 1)
	k := float64((index + 1) / 2)
	if index%2 == 0 {
		k = -k
	}

	// Slide along the edge the base point sits on.
	var along geom.Vec3
	lo, hi := inner.Min(), inner.Max()
	onX := math.Abs(base.X-lo.X) < geom.Epsilon || math.Abs(base.X-hi.X) < geom.Epsilon
	if onX {
		along = geom.Vec3{Z: 1}
	} else {
		along = geom.Vec3{X: 1}
	}
	return inner.ClampPoint(base.Add(along.Scale(k * step)))
}
