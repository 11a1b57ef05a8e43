package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// clusterSeparation is the minimum center-to-center distance in cluster radii.
const clusterSeparation = 2.5

// Clustered groups points around ClusterCount centers.
//
// Centers are rejection-sampled at least MinDistance+ClusterRadius from the
// exclusion center and clusterSeparation·ClusterRadius from each other. If
// any center cannot be placed, all centers are replaced by an evenly spaced
// ring around the exclusion center.
type Clustered struct {
	ClusterCount  int
	ClusterRadius float64
}

func (Clustered) Kind() Kind { return KindClustered }

// Centers picks cluster centers for req.
func (c Clustered) Centers(rng *rand.Rand, req Request) []geom.Vec3 {
	req = req.normalized()
	n := max(1, c.ClusterCount)
	radius := math.Max(0, c.ClusterRadius)
	b := req.Bounds
	inner := b.Inset(radius)

	minFromExclusion := req.MinDistance + radius
	minBetween := clusterSeparation * radius

	centers := make([]geom.Vec3, 0, n)
	for range n {
		placed := false
		for range MaxAttempts {
			cand := uniformIn(rng, inner)
			if geom.Distance(cand, req.ExclusionCenter) < minFromExclusion {
				continue
			}
			tooClose := false
			for _, other := range centers {
				if geom.Distance(cand, other) < minBetween {
					tooClose = true
					break
				}
			}
			if tooClose {
				continue
			}
			centers = append(centers, cand)
			placed = true
			break
		}
		if !placed {
			return c.ringCenters(rng, req, n, radius)
		}
	}
	return centers
}

// ringCenters lays n centers on a ring around the exclusion center wide
// enough to keep neighbours clusterSeparation radii apart.
func (c Clustered) ringCenters(rng *rand.Rand, req Request, n int, radius float64) []geom.Vec3 {
	ringRadius := req.MinDistance + radius
	if n > 1 {
		// chord = 2R·sin(π/n) >= separation·radius
		ringRadius = math.Max(ringRadius, clusterSeparation*radius/(2*math.Sin(math.Pi/float64(n))))
	}

	offset := rng.Float64() * 360
	step := 360.0 / float64(n)
	centers := make([]geom.Vec3, n)
	for i := range n {
		dir := geom.FromHeading(offset + float64(i)*step)
		centers[i] = req.Bounds.ClampPoint(req.ExclusionCenter.Add(dir.Scale(ringRadius)))
	}
	return centers
}

// ClusterSizes splits count over n clusters, the remainder going to the first ones.
func ClusterSizes(count, n int) []int {
	n = max(1, n)
	out := make([]int, n)
	if count <= 0 {
		return out
	}
	base, rem := count/n, count%n
	for i := range n {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

func (c Clustered) Place(rng *rand.Rand, req Request) []Placement {
	p := newPlacer(rng, req)
	centers := c.Centers(rng, p.req)
	sizes := ClusterSizes(p.req.Count, len(centers))
	radius := math.Max(0, c.ClusterRadius)

	for i, center := range centers {
		for range sizes[i] {
			p.place(func(int) geom.Vec3 {
				// sqrt keeps the density uniform over the disc
				r := radius * math.Sqrt(rng.Float64())
				dir := geom.FromHeading(rng.Float64() * 360)
				return p.req.Bounds.ClampPoint(center.Add(dir.Scale(r)))
			})
		}
	}
	return p.result()
}
