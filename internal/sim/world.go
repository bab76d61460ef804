// Package sim is a headless, in-memory world that the bot decision core can
// play in: flat maps with rectangular buildings and doors, simple
// kinematics, hitscan combat and the round objectives. Tests and the report
// tool drive it through Match.
package sim

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

// Movement speeds in units per second.
const (
	runSpeed    = 250.0
	walkSpeed   = 130.0
	crouchSpeed = 85.0

	bodyRadius       = 16.0
	footstepInterval = 0.4
	useRange         = 100.0
	doorToggleDelay  = 0.5
)

type entityKind int

const (
	entityCombatant entityKind = iota
	entityHostage
	entityDoor
)

// body is a combatant plus the bookkeeping the world keeps about it.
type body struct {
	c        world.Combatant
	cmd      world.Command
	driven   bool
	lastStep float64
	money    int
	armor    bool
	kit      bool

	plantStart float64
	plantLast  float64
}

type door struct {
	box        geom.Box
	open       bool
	lastToggle float64
}

type entity struct {
	kind    entityKind
	body    *body
	hostage *world.Hostage
	door    *door
}

// WorldConfig sizes a World.
type WorldConfig struct {
	Width, Height float64
	Walls         []geom.Box
	Clock         *timer.ManualClock
	Bus           *world.Bus
	Rand          *rand.Rand
	Log           zerolog.Logger
	RoundTime     float64 // seconds before the clock runs out, 0 for none
	BuyTime       float64
	StartMoney    int
}

// World implements the query, control and scenario interfaces of the
// decision core over an in-memory map.
type World struct {
	cfg      WorldConfig
	clock    *timer.ManualClock
	bus      *world.Bus
	rng      *rand.Rand
	log      zerolog.Logger
	entities world.Arena[*entity]

	combatants []world.Handle // spawn order
	hostages   []world.Handle
	doors      []world.Handle

	scenario
	said   []world.Utterance
	events []world.Event // published since the last TakeEvents
}

// NewWorld returns an empty world. A nil clock, bus or rand gets a fresh one.
func NewWorld(cfg WorldConfig) *World {
	if cfg.Clock == nil {
		cfg.Clock = timer.NewManualClock(1)
	}
	if cfg.Bus == nil {
		cfg.Bus = world.NewBus()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1)) // #nosec G404 -- simulation randomness
	}
	w := &World{
		cfg:   cfg,
		clock: cfg.Clock,
		bus:   cfg.Bus,
		rng:   cfg.Rand,
		log:   cfg.Log,
	}
	w.scenario = newScenario(w)
	return w
}

// Clock returns the simulation clock.
func (w *World) Clock() *timer.ManualClock { return w.clock }

// Bus returns the event bus the world publishes to.
func (w *World) Bus() *world.Bus { return w.bus }

// --- Population ---

// Spawn adds a live combatant at pos facing yaw degrees.
func (w *World) Spawn(name string, team world.Team, pos geom.Vec3, yaw float64) world.Handle {
	b := &body{money: w.cfg.StartMoney}
	h := w.entities.Insert(&entity{kind: entityCombatant, body: b})
	b.c = world.Combatant{
		Handle:    h,
		Name:      name,
		Team:      team,
		Bot:       true,
		Alive:     true,
		Health:    100,
		Pos:       pos,
		Yaw:       yaw,
		LastFired: -1,
	}
	w.combatants = append(w.combatants, h)
	return h
}

// AddHostage places a free hostage at pos.
func (w *World) AddHostage(pos geom.Vec3) world.Handle {
	hs := &world.Hostage{Pos: pos, Alive: true}
	h := w.entities.Insert(&entity{kind: entityHostage, hostage: hs})
	hs.Handle = h
	w.hostages = append(w.hostages, h)
	return h
}

// AddDoor places a closed door filling box.
func (w *World) AddDoor(box geom.Box) world.Handle {
	h := w.entities.Insert(&entity{kind: entityDoor, door: &door{box: box, lastToggle: -doorToggleDelay}})
	w.doors = append(w.doors, h)
	return h
}

// Remove takes a combatant out of the world. Its handle stops resolving.
func (w *World) Remove(h world.Handle) bool {
	e, ok := w.entities.Get(h)
	if !ok || e.kind != entityCombatant {
		return false
	}
	w.entities.Remove(h)
	for i, c := range w.combatants {
		if c == h {
			w.combatants = append(w.combatants[:i], w.combatants[i+1:]...)
			break
		}
	}
	return true
}

func (w *World) body(h world.Handle) (*body, bool) {
	e, ok := w.entities.Get(h)
	if !ok || e.kind != entityCombatant {
		return nil, false
	}
	return e.body, true
}

func (w *World) door(h world.Handle) (*door, bool) {
	e, ok := w.entities.Get(h)
	if !ok || e.kind != entityDoor {
		return nil, false
	}
	return e.door, true
}

func (w *World) hostage(h world.Handle) (*world.Hostage, bool) {
	e, ok := w.entities.Get(h)
	if !ok || e.kind != entityHostage {
		return nil, false
	}
	return e.hostage, true
}

// Edit mutates a combatant in place.
func (w *World) Edit(h world.Handle, fn func(c *world.Combatant)) bool {
	b, ok := w.body(h)
	if ok {
		fn(&b.c)
	}
	return ok
}

// Utterances returns every chatter phrase broadcast so far.
func (w *World) Utterances() []world.Utterance { return w.said }

// TakeEvents returns the events published since the previous call.
func (w *World) TakeEvents() []world.Event {
	out := w.events
	w.events = nil
	return out
}

func (w *World) publish(e world.Event) {
	e.Time = w.clock.Now()
	w.bus.Publish(e)
	w.events = append(w.events, e)
}

// --- world.World ---

func (w *World) Combatants() []world.Combatant {
	out := make([]world.Combatant, 0, len(w.combatants))
	for _, h := range w.combatants {
		if b, ok := w.body(h); ok {
			out = append(out, b.c)
		}
	}
	return out
}

func (w *World) Combatant(h world.Handle) (world.Combatant, bool) {
	b, ok := w.body(h)
	if !ok {
		return world.Combatant{}, false
	}
	return b.c, true
}

// LineClear tests the segment against buildings and closed doors. Bodies
// never block sight.
func (w *World) LineClear(from, to geom.Vec3, _ ...world.Handle) bool {
	for _, b := range w.cfg.Walls {
		if geom.SegmentHits(from, to, b) {
			return false
		}
	}
	for _, h := range w.doors {
		if d, ok := w.door(h); ok && !d.open && geom.SegmentHits(from, to, d.box) {
			return false
		}
	}
	return true
}

// DoorOnSegment returns the nearest door the segment passes through, open
// or closed.
func (w *World) DoorOnSegment(from, to geom.Vec3) (world.Door, bool) {
	best := math.Inf(1)
	var out world.Door
	found := false
	for _, h := range w.doors {
		d, ok := w.door(h)
		if !ok {
			continue
		}
		// doors are checked at waist height so floor level paths still hit them
		lift := geom.V(0, 0, world.CrouchHeight*0.5)
		t, hit := geom.SegmentHitT(from.Add(lift), to.Add(lift), d.box)
		if hit && t < best {
			best = t
			out = world.Door{Handle: h, Pos: floor(d.box.Center()), Open: d.open}
			found = true
		}
	}
	return out, found
}

func floor(p geom.Vec3) geom.Vec3 { return geom.V(p.X, p.Y, 0) }

// --- world.Controller ---

// Drive stores the intent applied on the next Step.
func (w *World) Drive(h world.Handle, cmd world.Command) {
	if b, ok := w.body(h); ok {
		b.cmd = cmd
		b.driven = true
	}
}

// Broadcast records a spoken phrase.
func (w *World) Broadcast(u world.Utterance) {
	w.said = append(w.said, u)
	w.log.Trace().Str("speaker", u.Speaker.String()).Str("phrase", u.Phrase).Str("place", u.Place).Msg("chatter")
}

// --- Kinematics ---

// Step applies the pending intents for dt seconds and advances the
// objectives. The clock is left to the caller.
func (w *World) Step(dt float64) {
	now := w.clock.Now()
	for _, h := range w.combatants {
		b, ok := w.body(h)
		if !ok {
			continue
		}
		if !b.c.Alive || w.over {
			b.c.Velocity = geom.Vec3{}
			b.driven = false
			continue
		}
		if b.driven {
			w.apply(b, dt, now)
		} else {
			b.c.Velocity = geom.Vec3{}
		}
		b.driven = false
	}
	w.stepObjectives(dt, now)
}

func (w *World) apply(b *body, dt, now float64) {
	c := &b.c
	cmd := b.cmd
	c.Yaw = geom.NormalizeAngle(c.Yaw + cmd.YawDelta)
	c.Pitch = math.Max(-89, math.Min(89, c.Pitch+cmd.PitchDelta))
	c.Crouching = cmd.Crouch
	c.Reloading = false

	speed := runSpeed
	switch {
	case cmd.Crouch:
		speed = crouchSpeed
	case cmd.Walk:
		speed = walkSpeed
	}
	fwd := geom.Forward(c.Yaw, 0)
	left := geom.V(-fwd.Y, fwd.X, 0)
	wish := fwd.Scale(cmd.Forward).Add(left.Scale(cmd.Strafe))
	if l := wish.Len(); l > 1 {
		wish = wish.Scale(1 / l)
	}

	start := c.Pos
	c.Pos = w.slide(c.Pos, wish.Scale(speed*dt))
	moved := c.Pos.Sub(start)
	c.Velocity = moved.Scale(1 / dt)
	if speed == runSpeed && moved.Len2D() > 1 && now-b.lastStep >= footstepInterval {
		b.lastStep = now
		w.publish(world.Event{Kind: world.EventFootstep, Source: c.Handle, Pos: c.Pos})
	}

	switch cmd.Action {
	case world.ActionFire:
		w.fire(b, now)
	case world.ActionPlant:
		w.plant(b, now)
	case world.ActionUse:
		w.use(b, cmd.Target, now)
	case world.ActionReload:
		c.Reloading = true
	}
}

// slide moves from p by d, dropping the blocked axis when the full move
// would enter a wall.
func (w *World) slide(p, d geom.Vec3) geom.Vec3 {
	if next := p.Add(d); !w.blocked(next) {
		return next
	}
	if next := p.Add(geom.V(d.X, 0, 0)); !w.blocked(next) {
		return next
	}
	if next := p.Add(geom.V(0, d.Y, 0)); !w.blocked(next) {
		return next
	}
	return p
}

// blocked reports whether a body centered at p would overlap a wall, a
// closed door or the map edge.
func (w *World) blocked(p geom.Vec3) bool {
	if p.X < bodyRadius || p.Y < bodyRadius || p.X > w.cfg.Width-bodyRadius || p.Y > w.cfg.Height-bodyRadius {
		return true
	}
	for _, b := range w.cfg.Walls {
		if b.Expand(bodyRadius).Contains2D(p) {
			return true
		}
	}
	for _, h := range w.doors {
		if d, ok := w.door(h); ok && !d.open && d.box.Expand(bodyRadius).Contains2D(p) {
			return true
		}
	}
	return false
}

// use presses use on target: doors toggle, free hostages start following
// a rescuer, and a defender next to the planted bomb works on defusing it.
func (w *World) use(b *body, target world.Handle, now float64) {
	c := &b.c
	if d, ok := w.door(target); ok {
		if c.Pos.Dist2D(d.box.Center()) > useRange || now-d.lastToggle < doorToggleDelay {
			return
		}
		d.open = !d.open
		d.lastToggle = now
		w.publish(world.Event{Kind: world.EventDoorMoved, Source: target, Other: c.Handle, Pos: floor(d.box.Center())})
		return
	}
	if hs, ok := w.hostage(target); ok {
		if c.Team != world.TeamAttackers || !hs.Alive || hs.Rescued || hs.Leader.IsValid() {
			return
		}
		if c.Pos.Dist2D(hs.Pos) > useRange {
			return
		}
		hs.Leader = c.Handle
		w.publish(world.Event{Kind: world.EventHostageFollows, Source: target, Other: c.Handle, Pos: hs.Pos})
		return
	}
	w.defuse(b, now)
}
