package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// ringRadiusJitter is the ± fraction applied to each point's ring radius.
const ringRadiusJitter = 0.1

// Ring spreads points over concentric rings around the exclusion center,
// between InnerRadiusRatio·maxRadius and maxRadius, where maxRadius is the
// smaller bounds half-extent. Outer rings get more points (weight i+1).
type Ring struct {
	RingCount        int
	InnerRadiusRatio float64
}

func (Ring) Kind() Kind { return KindRing }

// RingCounts splits count across rings weighted i+1; the rounding remainder
// goes to the outermost rings first.
func RingCounts(count, rings int) []int {
	if rings < 1 {
		rings = 1
	}
	out := make([]int, rings)
	if count <= 0 {
		return out
	}

	totalWeight := rings * (rings + 1) / 2
	assigned := 0
	for i := range rings {
		out[i] = count * (i + 1) / totalWeight
		assigned += out[i]
	}
	for i := rings - 1; assigned < count; i-- {
		if i < 0 {
			i = rings - 1
		}
		out[i]++
		assigned++
	}
	return out
}

// RingRadii returns the radius of every ring. The inner radius is raised so
// that the jittered inner ring stays at least minDistance from the center,
// up to maxRadius.
func (r Ring) RingRadii(maxRadius, minDistance float64) []float64 {
	rings := max(1, r.RingCount)
	inner := geom.Clamp(r.InnerRadiusRatio, 0, 1) * maxRadius
	if floor := minDistance / (1 - ringRadiusJitter); inner < floor {
		inner = math.Min(floor, maxRadius)
	}

	radii := make([]float64, rings)
	if rings == 1 {
		radii[0] = maxRadius
		return radii
	}
	for i := range rings {
		radii[i] = geom.Lerp(inner, maxRadius, float64(i)/float64(rings-1))
	}
	return radii
}

func (r Ring) Place(rng *rand.Rand, req Request) []Placement {
	p := newPlacer(rng, req)
	b := p.req.Bounds

	center := p.req.ExclusionCenter
	if !b.Contains(center) {
		center = geom.Flat(b.Center.X, b.Center.Z)
	}
	maxRadius := math.Min(b.Extents.X, b.Extents.Z)

	counts := RingCounts(p.req.Count, r.RingCount)
	radii := r.RingRadii(maxRadius, p.req.MinDistance)

	for i, n := range counts {
		if n == 0 {
			continue
		}
		offset := rng.Float64() * 360
		step := 360.0 / float64(n)

		for j := range n {
			angle := offset + float64(j)*step
			p.place(func(attempt int) geom.Vec3 {
				a := angle
				if attempt > 0 {
					// Retries wander within the point's angular slot.
					a += (rng.Float64() - 0.5) * step
				}
				radius := radii[i] * (1 + (rng.Float64()*2-1)*ringRadiusJitter)
				return b.ClampPoint(center.Add(geom.FromHeading(a).Scale(radius)))
			})
		}
	}
	return p.result()
}
