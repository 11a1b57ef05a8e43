package sim

import "github.com/udisondev/voidstrike/internal/geom"

// EventKind names a match event.
type EventKind string

const (
	EventSpawn     EventKind = "spawn"
	EventHit       EventKind = "hit"
	EventShieldHit EventKind = "shield_hit"
	EventKill      EventKind = "kill"
	EventRespawn   EventKind = "respawn"
)

// Event is one entry of the match log.
type Event struct {
	At       float64
	Kind     EventKind
	ActorID  uint32
	TargetID uint32
	Position geom.Vec3
	Amount   float64
	Detail   string // weapon name or spawn strategy
	Fallback bool
}
