package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// MaxAttempts is the retry budget per point before a fallback position is used.
const MaxAttempts = 100

// Request describes one batch of spawn positions.
type Request struct {
	Count           int
	ExclusionCenter geom.Vec3
	MinDistance     float64 // from ExclusionCenter
	MinSpacing      float64 // between accepted positions
	Bounds          geom.Bounds3

	// Occupied are positions of already active entities; they take part in
	// spacing checks but are not returned.
	Occupied []geom.Vec3
}

// Placement is one generated position. Fallback marks positions produced
// after the retry budget ran out; they may violate distance constraints.
type Placement struct {
	Position geom.Vec3
	Fallback bool
}

func (r Request) normalized() Request {
	if r.Count < 0 {
		r.Count = 0
	}
	r.MinDistance = math.Max(0, r.MinDistance)
	r.MinSpacing = math.Max(0, r.MinSpacing)
	r.ExclusionCenter.Y = geom.GroundY
	r.Bounds = geom.NewBounds(r.Bounds.Center, r.Bounds.Extents)
	return r
}

// placer accumulates one batch and enforces the common constraints.
type placer struct {
	rng      *rand.Rand
	req      Request
	accepted []geom.Vec3 // occupied + accepted so far
	out      []Placement

	fallbacks   int
	fallbackDir geom.Vec3
}

func newPlacer(rng *rand.Rand, req Request) *placer {
	req = req.normalized()
	accepted := make([]geom.Vec3, 0, len(req.Occupied)+req.Count)
	accepted = append(accepted, req.Occupied...)
	return &placer{
		rng:      rng,
		req:      req,
		accepted: accepted,
		out:      make([]Placement, 0, req.Count),
	}
}

func (p *placer) done() bool {
	return len(p.out) >= p.req.Count
}

func (p *placer) valid(pos geom.Vec3) bool {
	minDist := p.req.MinDistance
	if geom.DistanceSq(pos, p.req.ExclusionCenter) < minDist*minDist {
		return false
	}
	spacingSq := p.req.MinSpacing * p.req.MinSpacing
	if spacingSq == 0 {
		return true
	}
	for _, a := range p.accepted {
		if geom.DistanceSq(pos, a) < spacingSq {
			return false
		}
	}
	return true
}

func (p *placer) accept(pos geom.Vec3) {
	p.accepted = append(p.accepted, pos)
	p.out = append(p.out, Placement{Position: pos})
}

// try samples up to MaxAttempts candidates and accepts the first valid one.
// sample receives the attempt index.
func (p *placer) try(sample func(attempt int) geom.Vec3) bool {
	for attempt := range MaxAttempts {
		pos := sample(attempt)
		if p.valid(pos) {
			p.accept(pos)
			return true
		}
	}
	return false
}

// place tries sample and falls back when the budget runs out.
func (p *placer) place(sample func(attempt int) geom.Vec3) {
	if !p.try(sample) {
		p.fallback()
	}
}

// uniform samples anywhere inside bounds.
func (p *placer) uniform() geom.Vec3 {
	return uniformIn(p.rng, p.req.Bounds)
}

// fillUniform tops the batch up with uniform samples and fallbacks.
func (p *placer) fillUniform() {
	for !p.done() {
		p.place(func(int) geom.Vec3 { return p.uniform() })
	}
}

func (p *placer) result() []Placement {
	return p.out
}

func uniformIn(rng *rand.Rand, b geom.Bounds3) geom.Vec3 {
	return geom.Flat(
		b.Center.X+(rng.Float64()*2-1)*b.Extents.X,
		b.Center.Z+(rng.Float64()*2-1)*b.Extents.Z,
	)
}
