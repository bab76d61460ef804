package sim

import (
	"math"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	fireInterval = 0.1  // seconds between shots
	maxFireRange = 4000 // bullets stop here
	aimCone      = 8.0  // degrees between the aim and a target that can be hit

	// Base damage per bullet. Short-range bonus applied separately.
	baseDamage = 25.0
	// Below this distance damage is boosted.
	cqbRange = 300.0

	baseSpread      = 0.035 // radians
	movingSpread    = 0.05
	crouchSpreadMul = 0.7
	sniperSpreadMul = 0.3
	armorDamageMul  = 0.6
)

// cqbDamageMul ramps from 1.0 at cqbRange to 1.8 at point-blank.
func cqbDamageMul(dist float64) float64 {
	if dist >= cqbRange {
		return 1.0
	}
	t := 1.0 - dist/cqbRange
	return 1.0 + 0.8*t
}

// fire shoots along the shooter's aim. Every shot is heard; the closest
// enemy inside the aim cone with a clear line may be hit.
func (w *World) fire(b *body, now float64) {
	c := &b.c
	if c.LastFired >= 0 && now-c.LastFired < fireInterval {
		return
	}
	c.LastFired = now
	w.publish(world.Event{Kind: world.EventWeaponFired, Source: c.Handle, Pos: c.Pos, Loud: true})

	target, dist, ok := w.aimTarget(c)
	if !ok {
		return
	}
	if !w.resolveShot(c, &target.c, dist) {
		return
	}
	damage := baseDamage * cqbDamageMul(dist)
	if target.armor {
		damage *= armorDamageMul
	}
	target.c.Health -= int(math.Ceil(damage))
	w.publish(world.Event{Kind: world.EventDamage, Source: target.c.Handle, Other: c.Handle, Pos: target.c.Pos})
	if target.c.Health <= 0 {
		w.kill(target, c.Handle)
	}
}

// aimTarget returns the enemy nearest the shooter's aim line.
func (w *World) aimTarget(c *world.Combatant) (*body, float64, bool) {
	eye := c.Eye()
	aim := geom.Forward(c.Yaw, c.Pitch)
	var best *body
	bestAngle, bestDist := aimCone, 0.0
	for _, h := range w.combatants {
		t, ok := w.body(h)
		if !ok || !t.c.Alive || t.c.Team == c.Team {
			continue
		}
		to := t.c.Center().Sub(eye)
		dist := to.Len()
		if dist < 1 || dist > maxFireRange {
			continue
		}
		cos := math.Max(-1, math.Min(1, aim.Dot(to.Scale(1/dist))))
		angle := math.Acos(cos) * 180 / math.Pi
		if angle > bestAngle {
			continue
		}
		if !w.LineClear(eye, t.c.Center()) {
			continue
		}
		best, bestAngle, bestDist = t, angle, dist
	}
	return best, bestDist, best != nil
}

// resolveShot deflects the bullet by a triangular spread and hits when the
// deflection stays within the target's angular size.
func (w *World) resolveShot(shooter, target *world.Combatant, dist float64) bool {
	spread := baseSpread
	if shooter.Velocity.Len2D() > walkSpeed {
		spread += movingSpread
	}
	if shooter.Crouching {
		spread *= crouchSpreadMul
	}
	if shooter.Sniper {
		spread *= sniperSpreadMul
	}
	radius := bodyRadius
	if target.Crouching {
		radius *= world.CrouchHeight / world.StandHeight
	}
	halfSize := math.Atan2(radius, math.Max(1, dist))

	u1 := w.rng.Float64()*2 - 1
	u2 := w.rng.Float64()*2 - 1
	deflection := (u1 + u2) / 2.0 * spread
	return math.Abs(deflection) <= halfSize
}

// kill takes a combatant down. A dropped bomb lands where it fell and any
// hostages it led stop following.
func (w *World) kill(b *body, killer world.Handle) {
	c := &b.c
	c.Alive = false
	c.Health = 0
	c.Velocity = geom.Vec3{}
	if c.HasBomb {
		w.dropBomb(c)
	}
	for _, h := range w.hostages {
		if hs, ok := w.hostage(h); ok && hs.Leader == c.Handle {
			hs.Leader = world.NoHandle
		}
	}
	w.log.Debug().Str("victim", c.Name).Str("killer", killer.String()).Msg("combatant down")
	w.publish(world.Event{Kind: world.EventDeath, Source: c.Handle, Other: killer, Pos: c.Pos})
}

// Kill takes a combatant down as if shot by killer.
func (w *World) Kill(h, killer world.Handle) bool {
	b, ok := w.body(h)
	if !ok || !b.c.Alive {
		return false
	}
	w.kill(b, killer)
	return true
}
