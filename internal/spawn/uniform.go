package spawn

import "math/rand/v2"

// Uniform samples positions independently and uniformly over the bounds.
type Uniform struct{}

func (Uniform) Kind() Kind { return KindUniform }

func (Uniform) Place(rng *rand.Rand, req Request) []Placement {
	p := newPlacer(rng, req)
	p.fillUniform()
	return p.result()
}
