package agent

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/arena"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/geom"
	"github.com/Jordieee/GPC-Trabajo/internal/nav"
)

const (
	minSwingCooldown = 0.05 // seconds
	minSwingWindow   = 0.08 // seconds
	swingCooldownMul = 0.9  // cooldown relative to the swing duration
	swingWindowPad   = 0.06 // active window outlasts the swing by this much
)

// Hittable is a swing candidate: an enemy handle and where it stands.
type Hittable struct {
	Handle   arena.Handle
	Position mgl64.Vec3
}

// Player is the user-controlled agent. It walks with the glide fallback and
// swings a melee cone that can hit several enemies, each at most once per
// swing.
type Player struct {
	cfg    config.PlayerConfig
	timers Timers

	pos    mgl64.Vec3
	facing float64
	moving bool

	health      int
	cooldown    float64
	window      float64 // remaining active swing window
	hits        map[arena.Handle]struct{}
	damageFlash float64
}

// NewPlayer places a player at pos facing +Z.
func NewPlayer(cfg config.PlayerConfig, pos mgl64.Vec3, timers Timers) *Player {
	return &Player{
		cfg:    cfg,
		timers: timers,
		pos:    pos,
		health: cfg.Health,
		hits:   make(map[arena.Handle]struct{}),
	}
}

func (p *Player) Position() mgl64.Vec3 { return p.pos }
func (p *Player) Facing() float64 { return p.facing }
func (p *Player) Moving() bool { return p.moving }
func (p *Player) Health() int { return p.health }
func (p *Player) MaxHealth() int { return p.cfg.Health }
func (p *Player) Dead() bool { return p.health <= 0 }
func (p *Player) AttackRange() float64 { return p.cfg.AttackRange }
func (p *Player) AttackDamage() int { return p.cfg.AttackDamage }
func (p *Player) Attacking() bool { return p.window > 0 }
func (p *Player) Flashing() bool { return p.damageFlash > 0 }
func (p *Player) SwingRemaining() float64 { return p.window }
func (p *Player) Cooldown() float64 { return math.Max(0, p.cooldown) }

// AttackReady reports whether Attack would start a swing now.
func (p *Player) AttackReady() bool {
	return !p.Dead() && p.window <= 0 && p.cooldown <= 0
}

// TakeDamage applies a hit from an enemy.
func (p *Player) TakeDamage(amount int) bool {
	if amount > 0 && !p.Dead() {
		p.damageFlash = p.timers.Flash
	}
	return applyDamage(&p.health, amount)
}

// Attack starts a swing when ready and reports whether it did. Each swing
// gets a fresh hit set.
func (p *Player) Attack() bool {
	if !p.AttackReady() {
		return false
	}
	clear(p.hits)
	p.cooldown = math.Max(minSwingCooldown, swingCooldownMul*p.cfg.SwingDuration)
	p.window = math.Max(minSwingWindow, p.cfg.SwingDuration+swingWindowPad)
	p.moving = false
	return true
}

// Update advances the swing timers, starts a swing when attack is set, and
// otherwise walks along move. move holds the planar X/Z input and need not
// be normalized; the player cannot walk while a swing window is open. It
// reports whether a new swing started.
func (p *Player) Update(dt float64, move mgl64.Vec2, attack bool, t nav.Terrain) (swung bool) {
	decay(&p.damageFlash, dt)
	if p.cooldown > 0 {
		p.cooldown -= dt
	}
	decay(&p.window, dt)

	if p.Dead() {
		p.moving = false
		return false
	}
	if attack {
		swung = p.Attack()
	}
	if p.window > 0 {
		p.moving = false
		p.pos = nav.Snap(t, p.pos, p.cfg.GroundOffset)
		return swung
	}

	dir, ok := geom.Unit(mgl64.Vec3{move[0], 0, move[1]})
	p.moving = ok
	if ok {
		p.facing = geom.Yaw(dir)
		if next, moved := nav.Glide(t, p.pos, dir, p.cfg.Speed*dt, p.cfg.Clearance); moved {
			p.pos, _ = t.ResolveCollisions(next, p.cfg.Clearance)
		}
	}
	p.pos = nav.Snap(t, p.pos, p.cfg.GroundOffset)
	return swung
}

// InCone reports whether a target at pos is inside the swing reach: closer
// than the attack range on the plane and within the facing cone.
func (p *Player) InCone(pos mgl64.Vec3) bool {
	if geom.PlanarDist(p.pos, pos) >= p.cfg.AttackRange {
		return false
	}
	to, ok := geom.PlanarDir(p.pos, pos)
	if !ok {
		return false
	}
	return geom.YawVec(p.facing).Dot(to) > p.cfg.ConeThreshold
}

// Strike returns the candidates the open swing connects with this tick and
// records them so the same swing never hits them again. It returns nil when
// no swing window is open.
func (p *Player) Strike(cands []Hittable) []arena.Handle {
	if p.window <= 0 || p.Dead() {
		return nil
	}
	var out []arena.Handle
	for _, c := range cands {
		if _, done := p.hits[c.Handle]; done {
			continue
		}
		if !p.InCone(c.Position) {
			continue
		}
		p.hits[c.Handle] = struct{}{}
		out = append(out, c.Handle)
	}
	return out
}
