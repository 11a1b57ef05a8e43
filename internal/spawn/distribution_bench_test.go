package spawn

import (
	"testing"

	"github.com/udisondev/voidstrike/internal/geom"
)

// BenchmarkStrategies_Place measures one 50-point batch per strategy.
func BenchmarkStrategies_Place(b *testing.B) {
	req := Request{
		Count:           50,
		ExclusionCenter: geom.Flat(0, 0),
		MinDistance:     20,
		MinSpacing:      5,
		Bounds:          arena(),
	}

	for _, s := range allStrategies() {
		b.Run(string(s.Kind()), func(b *testing.B) {
			rng := newRNG(1)
			b.ReportAllocs()
			for b.Loop() {
				_ = s.Place(rng, req)
			}
		})
	}
}
