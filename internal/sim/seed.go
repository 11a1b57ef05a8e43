package sim

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// NewMatchID returns a fresh random match identifier.
func NewMatchID() uuid.UUID {
	return uuid.New()
}

// SeedFromMatchID derives a PCG seed pair from a match ID, so a match can
// be replayed from its ID alone.
func SeedFromMatchID(id uuid.UUID) (uint64, uint64) {
	sum := blake2b.Sum256(id[:])
	return binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:16])
}

// NewRNG returns the deterministic generator of a match.
func NewRNG(id uuid.UUID) *rand.Rand {
	s1, s2 := SeedFromMatchID(id)
	return rand.New(rand.NewPCG(s1, s2))
}
