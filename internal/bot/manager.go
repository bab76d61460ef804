package bot

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/telemetry"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

var (
	// ErrNoWorld is returned when the environment lacks a world, controller or clock.
	ErrNoWorld = errors.New("bot: environment needs a world, a controller and a clock")
	// ErrUnknownCombatant is returned when adding an agent for a handle the world does not know.
	ErrUnknownCombatant = errors.New("bot: unknown combatant")
)

// Env is everything the decision core reads from and writes to.
type Env struct {
	World    world.World
	Scenario world.Scenario
	Nav      nav.Graph
	Control  world.Controller
	Clock    timer.Clock
	Bus      *world.Bus
}

// Settings are the tunables shared by every agent.
type Settings struct {
	UpdateRate              float64 // heavy updates per second per agent
	TickRate                float64 // scheduler ticks per second
	Difficulty              Difficulty
	Chatter                 Verbosity
	AllowSnipers            bool
	DefuserPerfectKnowledge bool
	MaxVisionDistance       float64 // 0 means unlimited
	DangerDecayPerSecond    float64
	JitterBucketSeconds     float64
}

// DefaultSettings returns the stock tunables.
func DefaultSettings() Settings {
	return Settings{
		UpdateRate:           10,
		TickRate:             30,
		Difficulty:           DifficultyNormal,
		Chatter:              ChatterNormal,
		AllowSnipers:         true,
		DangerDecayPerSecond: nav.DefaultDangerDecay,
		JitterBucketSeconds:  10,
	}
}

// Recorder receives structured per-agent events, typically a SimLog or a
// journal batch.
type Recorder interface {
	Record(tick int, agent, team, category, key, value string, num float64)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the base logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithMetrics sets the counters. Nil records nothing.
func WithMetrics(mt *telemetry.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

// WithRecorder sets the structured event sink.
func WithRecorder(r Recorder) Option { return func(m *Manager) { m.recorder = r } }

// WithRand seeds every agent's randomness from r.
func WithRand(r *rand.Rand) Option { return func(m *Manager) { m.rng = r } }

// Manager owns the agents and runs the tick schedule: drain events, upkeep
// every agent, then the staggered heavy updates.
type Manager struct {
	env      Env
	settings Settings
	danger   *nav.DangerMap
	agents   world.Arena[*Agent]
	radios   map[world.Team]*Radio
	occupied map[nav.AreaID][3]int
	rng      *rand.Rand
	log      zerolog.Logger
	metrics  *telemetry.Metrics
	recorder Recorder
	thoughts *ThoughtLog

	tickCount  int
	lastTick   float64
	roundStart float64
	nextIndex  int
	snapshot   []world.Combatant
}

// NewManager builds a scheduler over env.
func NewManager(env Env, settings Settings, opts ...Option) (*Manager, error) {
	if env.World == nil || env.Control == nil || env.Clock == nil {
		return nil, ErrNoWorld
	}
	if env.Bus == nil {
		env.Bus = world.NewBus()
	}
	m := &Manager{
		env:      env,
		settings: settings.normalized(),
		radios:   make(map[world.Team]*Radio),
		occupied: make(map[nav.AreaID][3]int),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- simulation randomness
		log:      zerolog.Nop(),
		thoughts: NewThoughtLog(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.danger = nav.NewDangerMap(m.settings.DangerDecayPerSecond)
	now := env.Clock.Now()
	m.lastTick = now
	m.roundStart = now
	return m, nil
}

func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.UpdateRate <= 0 {
		s.UpdateRate = d.UpdateRate
	}
	if s.TickRate <= 0 {
		s.TickRate = d.TickRate
	}
	if s.DangerDecayPerSecond <= 0 {
		s.DangerDecayPerSecond = d.DangerDecayPerSecond
	}
	if s.JitterBucketSeconds <= 0 {
		s.JitterBucketSeconds = d.JitterBucketSeconds
	}
	return s
}

// --- Accessors ---

func (m *Manager) Settings() Settings        { return m.settings }
func (m *Manager) Danger() *nav.DangerMap    { return m.danger }
func (m *Manager) Thoughts() *ThoughtLog     { return m.thoughts }
func (m *Manager) TickCount() int            { return m.tickCount }
func (m *Manager) RoundStartTime() float64   { return m.roundStart }
func (m *Manager) Bus() *world.Bus           { return m.env.Bus }
func (m *Manager) Radio(t world.Team) *Radio { return m.radio(t) }

func (m *Manager) updateInterval() float64 { return 1 / m.settings.UpdateRate }

// radio returns the team channel, creating it on first use.
func (m *Manager) radio(t world.Team) *Radio {
	r, ok := m.radios[t]
	if !ok {
		r = newRadio(t, m.env.Clock)
		m.radios[t] = r
	}
	return r
}

// combatants is the world snapshot taken at the start of the tick.
func (m *Manager) combatants() []world.Combatant {
	if m.snapshot == nil {
		m.snapshot = m.env.World.Combatants()
	}
	return m.snapshot
}

// lookup resolves a combatant, preferring the tick snapshot.
func (m *Manager) lookup(h world.Handle) (world.Combatant, bool) {
	for _, c := range m.combatants() {
		if c.Handle == h {
			return c, true
		}
	}
	return m.env.World.Combatant(h)
}

// occupancyAt counts live members of team standing in area id.
func (m *Manager) occupancyAt(id nav.AreaID, team world.Team) int {
	if team < 0 || int(team) >= 3 {
		return 0
	}
	return m.occupied[id][team]
}

// --- Agents ---

// AddAgent takes control of combatant h for team.
func (m *Manager) AddAgent(h world.Handle, team world.Team, p Profile) (world.Handle, error) {
	c, ok := m.env.World.Combatant(h)
	if !ok {
		return world.NoHandle, fmt.Errorf("%w: %s", ErrUnknownCombatant, h)
	}
	if p == (Profile{}) {
		p = DefaultProfile(m.settings.Difficulty)
	}
	c.Team = team
	a := newAgent(m, h, c, m.nextIndex, p)
	m.nextIndex++
	a.handle = m.agents.Insert(a)
	// spread heavy updates across the interval
	a.nextUpdate = m.env.Clock.Now() + m.updateInterval()*float64(a.index%8)/8
	a.OnRoundStart()
	m.log.Debug().Str("agent", a.name).Str("team", team.String()).Str("handle", a.handle.String()).Msg("agent added")
	return a.handle, nil
}

// RemoveAgent releases an agent. Its handle stops resolving.
func (m *Manager) RemoveAgent(h world.Handle) bool {
	a, ok := m.agents.Get(h)
	if !ok {
		return false
	}
	a.chatter.radio.leave(a.chatter)
	m.agents.Remove(h)
	m.log.Debug().Str("agent", a.name).Msg("agent removed")
	return true
}

// Agent resolves an agent handle.
func (m *Manager) Agent(h world.Handle) (*Agent, bool) { return m.agents.Get(h) }

// Agents returns every live agent in slot order.
func (m *Manager) Agents() []*Agent {
	out := make([]*Agent, 0, m.agents.Len())
	m.agents.Each(func(_ world.Handle, a *Agent) { out = append(out, a) })
	return out
}

// agentFor finds the agent driving combatant h.
func (m *Manager) agentFor(h world.Handle) (*Agent, bool) {
	var found *Agent
	m.agents.Each(func(_ world.Handle, a *Agent) {
		if a.self == h {
			found = a
		}
	})
	return found, found != nil
}

// ApplySettings swaps the tunables at runtime.
func (m *Manager) ApplySettings(s Settings) {
	m.settings = s.normalized()
	m.danger.SetDecay(m.settings.DangerDecayPerSecond)
	interval := m.updateInterval()
	m.agents.Each(func(_ world.Handle, a *Agent) {
		a.chatter.SetVerbosity(m.settings.Chatter)
		a.attendSteps = ReactionSteps(a.profile.ReactionTime, interval)
	})
	m.log.Info().Float64("update_rate", m.settings.UpdateRate).Str("chatter", m.settings.Chatter.String()).Msg("settings applied")
}

// OnRoundStart resets the danger map, the radios and every agent.
func (m *Manager) OnRoundStart() {
	m.snapshot = nil
	m.roundStart = m.env.Clock.Now()
	m.danger.Reset()
	for _, r := range m.radios {
		r.reset()
	}
	m.agents.Each(func(_ world.Handle, a *Agent) { a.OnRoundStart() })
	m.log.Debug().Int("agents", m.agents.Len()).Msg("round start")
}

// --- Tick ---

// Tick runs one scheduler step.
func (m *Manager) Tick() {
	now := m.env.Clock.Now()
	dt := now - m.lastTick
	if dt <= 0 {
		dt = 1 / m.settings.TickRate
	}
	m.lastTick = now
	m.tickCount++
	m.snapshot = nil

	lost := m.env.Bus.Lost()
	m.env.Bus.Drain(m.dispatch)
	if n := m.env.Bus.Lost() - lost; n > 0 {
		m.metrics.BusLost(n)
	}

	m.danger.Decay(dt)
	m.recountOccupancy()

	m.agents.Each(func(_ world.Handle, a *Agent) { a.Upkeep(dt) })

	updated := 0
	m.agents.Each(func(_ world.Handle, a *Agent) {
		due := now >= a.nextUpdate
		// an agent resting in idle decides now, off its stagger slot
		if !due && !(a.me.Alive && a.IsIdle()) {
			return
		}
		if due {
			a.nextUpdate = now + m.updateInterval()
		}
		a.Update()
		updated++
	})

	m.agents.Each(func(_ world.Handle, a *Agent) { a.flush() })

	m.metrics.Tick()
	m.metrics.AgentUpdates(updated)
}

func (m *Manager) recountOccupancy() {
	clear(m.occupied)
	g := m.env.Nav
	if g == nil {
		return
	}
	for _, c := range m.combatants() {
		if !c.Alive || c.Team < 0 || int(c.Team) >= 3 {
			continue
		}
		area := g.NearestArea(c.Pos)
		if area == nil {
			continue
		}
		n := m.occupied[area.ID]
		n[c.Team]++
		m.occupied[area.ID] = n
	}
}

// dispatch routes one bus event to the agents.
func (m *Manager) dispatch(ev world.Event) {
	switch ev.Kind {
	case world.EventWeaponFired, world.EventFootstep, world.EventExplosion, world.EventDoorMoved:
		m.agents.Each(func(_ world.Handle, a *Agent) { a.OnAudibleEvent(ev) })
	case world.EventDeath:
		m.onDeath(ev)
	case world.EventNavBlocked:
		id := nav.AreaID(ev.Area)
		m.agents.Each(func(_ world.Handle, a *Agent) { a.OnNavBlocked(id) })
	case world.EventRoundStart:
		m.OnRoundStart()
	case world.EventRoundEnd:
		m.agents.Each(func(_ world.Handle, a *Agent) { a.OnRoundEnd(ev.Winner) })
		m.log.Debug().Str("winner", ev.Winner.String()).Msg("round end")
	case world.EventBombPickedUp, world.EventBombDropped, world.EventBombPlanted,
		world.EventBombDefused, world.EventBombExploded:
		m.onBombEvent(ev)
	case world.EventDamage:
		if a, ok := m.agentFor(ev.Source); ok {
			a.OnDamaged(ev.Other)
		}
	}
}

func (m *Manager) onDeath(ev world.Event) {
	victim, ok := m.lookup(ev.Source)
	if !ok {
		return
	}
	killer, _ := m.lookup(ev.Other)
	if g := m.env.Nav; g != nil {
		if area := g.NearestArea(ev.Pos); area != nil {
			m.danger.Increase(area.ID, victim.Team, 1)
		}
	}
	m.agents.Each(func(_ world.Handle, a *Agent) {
		if a.self != victim.Handle {
			a.onPlayerDeath(victim, killer)
		}
	})
}

// onBombEvent tells each side what it would plausibly know. Attackers
// track their own bomb; defenders only hear that it was planted, defused
// or went off.
func (m *Manager) onBombEvent(ev world.Event) {
	m.agents.Each(func(_ world.Handle, a *Agent) {
		gs := a.gameState
		attacker := a.team == world.TeamAttackers
		switch ev.Kind {
		case world.EventBombPickedUp:
			if attacker {
				gs.UpdateBomber(ev.Pos)
			}
		case world.EventBombDropped:
			if attacker {
				gs.UpdateLooseBomb(ev.Pos)
			}
		case world.EventBombPlanted:
			if attacker {
				gs.UpdatePlantedBomb(ev.Pos)
			} else {
				gs.UpdateBombState(world.BombPlanted)
			}
		case world.EventBombDefused:
			gs.UpdateBombState(world.BombDefused)
		case world.EventBombExploded:
			gs.UpdateBombState(world.BombExploded)
		}
	})
}
