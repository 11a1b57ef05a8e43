package pool

// Object ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid handle)
//	0x10000000 - 0x1FFFFFFF: Player ships
//	0x20000000 - 0x2FFFFFFF: Enemies
//	0x30000000 - 0x3FFFFFFF: Projectiles
//	0x40000000 - 0xFFFFFFFF: Reserved for future use
const (
	ShipIDBase       uint32 = 0x10000000
	EnemyIDBase      uint32 = 0x20000000
	ProjectileIDBase uint32 = 0x30000000
)

// IDGenerator hands out object IDs from a fixed base.
// Not safe for concurrent use: the simulation runs on a single loop.
type IDGenerator struct {
	next uint32
}

// NewIDGenerator creates a generator whose first ID is base+1.
func NewIDGenerator(base uint32) *IDGenerator {
	return &IDGenerator{next: base}
}

// Next returns the next unique ID.
func (g *IDGenerator) Next() uint32 {
	g.next++
	return g.next
}
