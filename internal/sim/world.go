package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/combat"
	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
	"github.com/udisondev/voidstrike/internal/spawn"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// ShipConfig describes a hull and its armament.
type ShipConfig struct {
	Radius float64     `yaml:"radius"`
	Health float64     `yaml:"health"`
	Shield float64     `yaml:"shield"`
	Weapon string      `yaml:"weapon"`
	Range  float64     `yaml:"range"`  // engagement range
	Speed  float64     `yaml:"speed"`  // units per second, enemies only
	Mounts []geom.Vec3 `yaml:"mounts"` // local offsets, +Z is forward
}

// WorldConfig configures a match.
type WorldConfig struct {
	Arena             spawn.Rect   `yaml:"arena"`
	Player            ShipConfig   `yaml:"player"`
	Enemy             ShipConfig   `yaml:"enemy"`
	Spawn             spawn.Config `yaml:"spawn"`
	ProjectilePoolMax int          `yaml:"projectile_pool_max"`
	TriggerRadius     float64      `yaml:"trigger_radius"`
}

// DefaultWorldConfig returns a 200×200 arena with a twin-mount player and
// blaster-armed enemies.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Arena: spawn.Rect{MinX: -100, MinZ: -100, MaxX: 100, MaxZ: 100},
		Player: ShipConfig{
			Radius: 2,
			Health: 200,
			Shield: 100,
			Weapon: "twin_cannon",
			Range:  150,
			Mounts: []geom.Vec3{{X: -1, Z: 1}, {X: 1, Z: 1}},
		},
		Enemy: ShipConfig{
			Radius: 1.5,
			Health: 30,
			Weapon: "blaster",
			Range:  40,
			Speed:  6,
		},
		Spawn:             spawn.DefaultConfig(),
		ProjectilePoolMax: 512,
		TriggerRadius:     combat.DefaultTriggerRadius,
	}
}

// Ship is an armed participant.
type Ship struct {
	ID      uint32
	Handle  pool.Handle // zero for the player
	Targets combat.Layer
	Forward geom.Vec3
	Mounts  []geom.Vec3
	Range   float64
	Weapon  *weapon.Controller
}

// World wires spawning, weapons and projectiles over an Arena. The player
// sits at the arena center and fires at the nearest enemy; enemies fire
// back when in range. Destroyed enemies return to the pool and respawn
// after the configured delay.
//
// Not safe for concurrent use: the simulation runs on a single loop.
type World struct {
	cfg     WorldConfig
	rng     *rand.Rand
	weapons map[string]weapon.Profile

	arena        *Arena
	orchestrator *spawn.Orchestrator
	respawn      *spawn.RespawnScheduler
	projectiles  *combat.ProjectileManager

	player  *Ship
	enemies map[uint32]*Ship

	now       float64
	observers []func(Event)

	hits  int
	kills int
}

// NewWorld builds a world. weapons maps profile names referenced by the
// ship configs.
func NewWorld(cfg WorldConfig, weapons map[string]weapon.Profile, rng *rand.Rand) (*World, error) {
	w := &World{
		cfg:     cfg,
		rng:     rng,
		weapons: weapons,
		arena:   NewArena(cfg.Arena.Bounds()),
		enemies: make(map[uint32]*Ship),
	}

	projectilePool := pool.New(pool.ProjectileIDBase)
	if err := projectilePool.Register(combat.ProjectileKind, 0, cfg.ProjectilePoolMax); err != nil {
		return nil, fmt.Errorf("registering projectile pool: %w", err)
	}

	resolver := combat.NewResolver(w.arena)
	resolver.OnHit(w.onHit)
	resolver.OnShieldHit(w.onShieldHit)
	w.projectiles = combat.NewProjectileManager(projectilePool, w.arena, resolver, combat.ManagerConfig{
		TriggerRadius: cfg.TriggerRadius,
	})

	w.orchestrator = spawn.NewOrchestrator(pool.New(pool.EnemyIDBase), w.arena, rng)
	w.orchestrator.OnSpawn(w.onSpawn)
	if err := w.orchestrator.Initialize(cfg.Spawn); err != nil {
		return nil, fmt.Errorf("initializing spawn orchestrator: %w", err)
	}
	w.respawn = spawn.NewRespawnScheduler(w.orchestrator)

	playerID := pool.NewIDGenerator(pool.ShipIDBase).Next()
	w.arena.Add(Hull{
		ID:        playerID,
		Layer:     combat.LayerPlayer,
		Position:  w.arena.bounds.Center,
		Radius:    cfg.Player.Radius,
		MaxHealth: cfg.Player.Health,
		MaxShield: cfg.Player.Shield,
	})
	w.player = &Ship{
		ID:      playerID,
		Targets: combat.LayerEnemy,
		Forward: geom.Forward,
		Mounts:  cfg.Player.Mounts,
		Range:   cfg.Player.Range,
		Weapon:  weapon.NewController(w.profile(cfg.Player.Weapon), rng),
	}

	return w, nil
}

func (w *World) profile(name string) *weapon.Profile {
	p, ok := w.weapons[name]
	if !ok {
		slog.Warn("weapon profile not found, ship unarmed", "weapon", name)
		return nil
	}
	return &p
}

// OnEvent registers a match event observer.
func (w *World) OnEvent(fn func(Event)) {
	if fn != nil {
		w.observers = append(w.observers, fn)
	}
}

func (w *World) emit(ev Event) {
	ev.At = w.now
	for _, fn := range w.observers {
		fn(ev)
	}
}

// Start spawns the initial enemy wave away from the player.
func (w *World) Start() int {
	spawned := w.orchestrator.SpawnInitial(w.cfg.Spawn.InitialCount, w.PlayerPosition())
	slog.Info("match started",
		"enemies", len(spawned),
		"strategy", w.orchestrator.Strategy().Kind(),
		"bounds_min", w.arena.bounds.Min(),
		"bounds_max", w.arena.bounds.Max())
	return len(spawned)
}

func (w *World) onSpawn(ev spawn.SpawnEvent) {
	w.arena.Add(Hull{
		ID:        ev.Handle.ID,
		Layer:     combat.LayerEnemy,
		Position:  ev.Position,
		Radius:    w.cfg.Enemy.Radius,
		MaxHealth: w.cfg.Enemy.Health,
		MaxShield: w.cfg.Enemy.Shield,
	})
	w.enemies[ev.Handle.ID] = &Ship{
		ID:      ev.Handle.ID,
		Handle:  ev.Handle,
		Targets: combat.LayerPlayer,
		Forward: w.PlayerPosition().Sub(ev.Position).Normalize(),
		Mounts:  w.cfg.Enemy.Mounts,
		Range:   w.cfg.Enemy.Range,
		Weapon:  weapon.NewController(w.profile(w.cfg.Enemy.Weapon), w.rng),
	}
	w.emit(Event{
		Kind:     EventSpawn,
		ActorID:  ev.Handle.ID,
		Position: ev.Position,
		Detail:   string(w.orchestrator.Strategy().Kind()),
		Fallback: ev.Fallback,
	})
}

func (w *World) onHit(ev combat.HitEvent) {
	w.hits++
	w.emit(Event{
		Kind:     EventHit,
		ActorID:  ev.AttackerID,
		TargetID: ev.TargetID,
		Position: ev.Position,
		Amount:   ev.Damage,
		Detail:   ev.Weapon,
	})

	if h, ok := w.arena.Hull(ev.TargetID); ok && !h.Alive() {
		w.destroy(h, ev.AttackerID)
	}
}

func (w *World) onShieldHit(ev combat.ShieldHitEvent) {
	w.emit(Event{
		Kind:     EventShieldHit,
		TargetID: ev.TargetID,
		Position: ev.Position,
		Amount:   ev.ShieldRemaining,
	})
}

func (w *World) destroy(h *Hull, attackerID uint32) {
	w.kills++
	w.emit(Event{Kind: EventKill, ActorID: attackerID, TargetID: h.ID, Position: h.Position})

	if h.ID == w.player.ID {
		h.Health, h.Shield = h.MaxHealth, h.MaxShield
		w.player.Weapon.CancelBurst()
		w.emit(Event{Kind: EventRespawn, ActorID: h.ID, Position: h.Position})
		slog.Info("player destroyed", "by", attackerID)
		return
	}

	enemy, ok := w.enemies[h.ID]
	if !ok {
		return
	}
	w.arena.Remove(h.ID)
	delete(w.enemies, h.ID)
	if w.orchestrator.Return(enemy.Handle) && w.cfg.Spawn.RespawnDelay > 0 {
		w.respawn.Schedule(w.now, w.cfg.Spawn.RespawnDelay)
	}
	slog.Debug("enemy destroyed", "enemy", enemy.Handle, "by", attackerID)
}

// engageRatio is the fraction of weapon range enemies close in to.
const engageRatio = 0.75

// FixedTick implements System.
func (w *World) FixedTick(now, dt float64) {
	w.now = now
	w.approach(dt)
	w.projectiles.FixedTick(now, dt)
}

// approach moves enemies straight at the player until they are inside
// engageRatio of their weapon range.
func (w *World) approach(dt float64) {
	speed := w.cfg.Enemy.Speed
	if speed <= 0 {
		return
	}
	playerPos := w.PlayerPosition()

	for _, e := range w.orchestrator.Active() {
		enemy, ok := w.enemies[e.Handle.ID]
		if !ok {
			continue
		}
		to := playerPos.Sub(e.Position)
		gap := to.Len() - enemy.Range*engageRatio
		if gap <= 0 {
			continue
		}
		dir := to.Normalize()
		if !w.arena.Move(e.Handle.ID, e.Position.Add(dir.Scale(math.Min(speed*dt, gap)))) {
			continue
		}
		if h, ok := w.arena.Hull(e.Handle.ID); ok {
			w.orchestrator.UpdatePosition(e.Handle, h.Position)
		}
		enemy.Forward = dir
	}
}

// Tick implements System.
func (w *World) Tick(now, _ float64) {
	w.now = now
	playerPos := w.PlayerPosition()

	target, hasTarget := w.nearestEnemy(playerPos, w.player.Range)
	w.fire(w.player, playerPos, target, hasTarget, now)

	for _, e := range w.orchestrator.Active() {
		enemy, ok := w.enemies[e.Handle.ID]
		if !ok {
			continue
		}
		inRange := geom.Distance(e.Position, playerPos) <= enemy.Range
		w.fire(enemy, e.Position, playerPos, inRange, now)
	}

	for _, h := range w.respawn.Tick(now, playerPos) {
		slog.Debug("enemy respawned", "enemy", h)
	}
}

func (w *World) nearestEnemy(from geom.Vec3, within float64) (geom.Vec3, bool) {
	var (
		best  geom.Vec3
		bestD float64
		found bool
	)
	for _, e := range w.orchestrator.Active() {
		d := geom.DistanceSq(from, e.Position)
		if d > within*within {
			continue
		}
		if !found || d < bestD {
			best, bestD, found = e.Position, d, true
		}
	}
	return best, found
}

// fire runs pending burst volleys and pulls the trigger when a target is
// in range.
func (w *World) fire(s *Ship, pos, target geom.Vec3, hasTarget bool, now float64) {
	in := w.input(s, pos, target, hasTarget)
	s.Weapon.Aim(in)

	cmds := s.Weapon.Tick(now)
	if hasTarget {
		if cmd, ok := s.Weapon.TryFire(now, in); ok {
			cmds = append(cmds, cmd)
		}
	}

	launch := combat.Launch{OwnerID: s.ID, TargetMask: s.Targets, Now: now}
	for _, cmd := range cmds {
		w.projectiles.Spawn(cmd, launch)
	}
}

func (w *World) input(s *Ship, pos, target geom.Vec3, hasTarget bool) weapon.Input {
	in := weapon.Input{OwnerPosition: pos, Target: target, HasTarget: hasTarget}
	if hasTarget {
		if aim := target.Sub(pos); !aim.IsZero() {
			in.Aim = aim
			s.Forward = weapon.BaseDirection(aim, s.Forward)
		}
	}
	in.OwnerForward = s.Forward

	heading := geom.Heading(s.Forward)
	for _, offset := range s.Mounts {
		in.FirePoints = append(in.FirePoints, weapon.FirePoint{
			Position: pos.Add(geom.RotateY(offset, heading)),
			Forward:  s.Forward,
		})
	}
	return in
}

// PlayerPosition returns the player hull position.
func (w *World) PlayerPosition() geom.Vec3 {
	if h, ok := w.arena.Hull(w.player.ID); ok {
		return h.Position
	}
	return w.arena.bounds.Center
}

// Player returns the player ship.
func (w *World) Player() *Ship { return w.player }

// Arena returns the collision world.
func (w *World) Arena() *Arena { return w.arena }

// Orchestrator returns the enemy spawn orchestrator.
func (w *World) Orchestrator() *spawn.Orchestrator { return w.orchestrator }

// Respawns returns the respawn scheduler.
func (w *World) Respawns() *spawn.RespawnScheduler { return w.respawn }

// Projectiles returns the projectile manager.
func (w *World) Projectiles() *combat.ProjectileManager { return w.projectiles }

// Enemies returns the number of live enemies.
func (w *World) Enemies() int { return len(w.enemies) }

// Stats returns hit and kill totals.
func (w *World) Stats() (hits, kills int) { return w.hits, w.kills }
