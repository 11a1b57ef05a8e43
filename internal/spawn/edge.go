package spawn

import (
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// Side is one of the four bounds edges.
type Side int

const (
	SideNorth Side = iota // +Z
	SideSouth             // -Z
	SideEast              // +X
	SideWest              // -X
)

func (s Side) String() string {
	switch s {
	case SideNorth:
		return "north"
	case SideSouth:
		return "south"
	case SideEast:
		return "east"
	case SideWest:
		return "west"
	default:
		return "unknown"
	}
}

// Edge samples points along one bounds edge, inset by Margin.
type Edge struct {
	Margin float64
	Bias   EdgeBias
}

func (Edge) Kind() Kind { return KindEdge }

// FarthestSide returns the edge with the largest distance from p.
func FarthestSide(b geom.Bounds3, p geom.Vec3) Side {
	lo, hi := b.Min(), b.Max()
	best, bestDist := SideNorth, hi.Z-p.Z
	for _, c := range []struct {
		side Side
		dist float64
	}{
		{SideSouth, p.Z - lo.Z},
		{SideEast, hi.X - p.X},
		{SideWest, p.X - lo.X},
	} {
		if c.dist > bestDist {
			best, bestDist = c.side, c.dist
		}
	}
	return best
}

func (e Edge) pickSide(rng *rand.Rand, req Request) Side {
	switch e.Bias {
	case EdgeHorizontal:
		return Side(rng.IntN(2)) // north or south
	case EdgeVertical:
		return SideEast + Side(rng.IntN(2))
	case EdgeFarthest:
		return FarthestSide(req.Bounds, req.ExclusionCenter)
	default:
		return Side(rng.IntN(4))
	}
}

// PointOnSide returns the point at fraction t ∈ [0,1] along side of b.
func PointOnSide(b geom.Bounds3, side Side, t float64) geom.Vec3 {
	lo, hi := b.Min(), b.Max()
	switch side {
	case SideNorth:
		return geom.Flat(geom.Lerp(lo.X, hi.X, t), hi.Z)
	case SideSouth:
		return geom.Flat(geom.Lerp(lo.X, hi.X, t), lo.Z)
	case SideEast:
		return geom.Flat(hi.X, geom.Lerp(lo.Z, hi.Z, t))
	default:
		return geom.Flat(lo.X, geom.Lerp(lo.Z, hi.Z, t))
	}
}

func (e Edge) Place(rng *rand.Rand, req Request) []Placement {
	p := newPlacer(rng, req)
	inner := p.req.Bounds.Inset(e.Margin)

	for !p.done() {
		p.place(func(int) geom.Vec3 {
			return PointOnSide(inner, e.pickSide(rng, p.req), rng.Float64())
		})
	}
	return p.result()
}
