package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/tacbot/internal/bot"
	"github.com/Garsondee/tacbot/internal/config"
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/journal"
	"github.com/Garsondee/tacbot/internal/logging"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/telemetry"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	wallHeight      = 256.0
	navCell         = 64.0
	navPad          = 16.0
	journalBatch    = 500
	defaultBuyTime  = 15.0
	defaultMoney    = 3000
	defaultRoundSec = 115.0
)

// Match is a headless round: a World, its nav grid and a bot Manager
// stepped together. It is used by tests and the report tool.
type Match struct {
	Width, Height float64
	World         *World
	Mesh          *nav.Mesh
	Bots          *bot.Manager
	SimLog        *SimLog
	Seed          int64
	Tick          int

	kind       world.ScenarioKind
	walls      []geom.Box
	doors      []geom.Box
	zones      []world.Zone
	hostages   []geom.Vec3
	roundTime  float64
	buyTime    float64
	startMoney int
	settings   bot.Settings
	dt         float64

	rng      *rand.Rand
	log      zerolog.Logger
	metrics  *telemetry.Metrics
	journal  *journal.Journal
	writer   *journal.Writer
	record   journal.MatchRecord
	recorder bot.Recorder

	names  map[world.Handle]string
	spawns map[world.Team][]geom.Vec3
	err    error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map, scenario, seed, sinks: applied first
	simOptAgent                      // spawn bots: applied once the world and manager exist
	simOptSetup                      // round setup: applied after every bot is in
)

// SimOption is a builder function applied to a Match during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Match)
}

// WithMapSize sets the playfield dimensions.
func WithMapSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.Width = w
		m.Height = h
	}}
}

// WithBuilding adds a solid block.
func WithBuilding(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.walls = append(m.walls, rectBox(x, y, w, h))
	}}
}

// WithDoor adds a closed door.
func WithDoor(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.doors = append(m.doors, rectBox(x, y, w, h))
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.Seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.SimLog = NewSimLog(v)
	}}
}

// WithScenario selects the round objective.
func WithScenario(kind world.ScenarioKind) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.kind = kind
	}}
}

// WithZone adds an objective zone.
func WithZone(kind world.ZoneKind, name string, x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.zones = append(m.zones, world.Zone{Kind: kind, Name: name, Extent: rectBox(x, y, w, h)})
	}}
}

// WithHostage places a hostage.
func WithHostage(x, y float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.hostages = append(m.hostages, geom.V(x, y, 0))
	}}
}

// WithRoundTime sets the round length in seconds. Zero never times out.
func WithRoundTime(sec float64) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.roundTime = sec
	}}
}

// WithMoney sets every combatant's starting money.
func WithMoney(n int) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.startMoney = n
	}}
}

// WithSettings replaces the bot tunables.
func WithSettings(s bot.Settings) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.settings = s
	}}
}

// WithConfig takes the bot tunables from a loaded config.
func WithConfig(cfg *config.Config) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.settings = cfg.BotSettings()
	}}
}

// WithLogger sets the base logger for the world and the bots.
func WithLogger(l zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.log = l
	}}
}

// WithMetrics counts bot activity into mt.
func WithMetrics(mt *telemetry.Metrics) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.metrics = mt
	}}
}

// WithJournal persists the match and its events into j.
func WithJournal(j *journal.Journal) SimOption {
	return SimOption{simOptInfra, func(m *Match) {
		m.journal = j
	}}
}

// WithAgent spawns a bot at (x,y) with the default profile.
func WithAgent(name string, team world.Team, x, y float64) SimOption {
	return WithAgentProfile(name, team, x, y, bot.Profile{})
}

// WithAgentProfile spawns a bot at (x,y) with profile p.
func WithAgentProfile(name string, team world.Team, x, y float64, p bot.Profile) SimOption {
	return SimOption{simOptAgent, func(m *Match) {
		m.addAgent(name, team, geom.V(x, y, 0), p)
	}}
}

// WithBombCarrier hands the bomb to the named bot instead of the first
// attacker.
func WithBombCarrier(name string) SimOption {
	return SimOption{simOptSetup, func(m *Match) {
		if h, ok := m.combatantByName(name); ok {
			m.World.GiveBomb(h)
		}
	}}
}

// NewMatch constructs a Match from the given options in ordered passes:
//  1. Infrastructure (map, scenario, seed, sinks)
//  2. World, nav grid and bot manager
//  3. Agents
//  4. Round setup, then the round starts
func NewMatch(opts ...SimOption) (*Match, error) {
	m := &Match{
		Width:      2048,
		Height:     2048,
		SimLog:     NewSimLog(false),
		Seed:       1,
		roundTime:  defaultRoundSec,
		buyTime:    defaultBuyTime,
		startMoney: defaultMoney,
		settings:   bot.DefaultSettings(),
		log:        zerolog.Nop(),
		names:      make(map[world.Handle]string),
		spawns:     make(map[world.Team][]geom.Vec3),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(m)
		}
	}
	if m.settings.TickRate <= 0 {
		return nil, fmt.Errorf("sim: tick rate %v: %w", m.settings.TickRate, config.ErrInvalid)
	}
	m.dt = 1 / m.settings.TickRate
	m.rng = rand.New(rand.NewSource(m.Seed)) // #nosec G404 -- simulation randomness

	if err := m.buildWorld(); err != nil {
		return nil, err
	}

	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(m)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	for team, pts := range m.spawns {
		m.Mesh.SetSpawn(team, pts...)
	}

	m.defaultSetup()
	for _, o := range opts {
		if o.kind == simOptSetup {
			o.fn(m)
		}
	}
	m.World.StartRound()
	m.log.Info().Int64("seed", m.Seed).Str("scenario", m.kind.String()).Int("agents", len(m.names)).Msg("match ready")
	return m, nil
}

func (m *Match) buildWorld() error {
	m.World = NewWorld(WorldConfig{
		Width:      m.Width,
		Height:     m.Height,
		Walls:      m.walls,
		Rand:       rand.New(rand.NewSource(m.rng.Int63())), // #nosec G404 -- simulation randomness
		Log:        logging.Component(m.log, "world"),
		RoundTime:  m.roundTime,
		BuyTime:    m.buyTime,
		StartMoney: m.startMoney,
	})
	for _, d := range m.doors {
		m.World.AddDoor(d)
	}
	for _, p := range m.hostages {
		m.World.AddHostage(p)
	}
	m.World.SetScenario(m.kind, m.zones)

	m.Mesh = nav.NewGridMesh(nav.GridSpec{
		Width:     m.Width,
		Height:    m.Height,
		Cell:      navCell,
		Obstacles: m.walls,
		Pad:       navPad,
		Place:     m.placeName,
	})

	recorders := multiRecorder{m.SimLog}
	if m.journal != nil {
		rec, err := m.journal.BeginMatch(context.Background(), m.Seed, m.kind.String())
		if err != nil {
			return fmt.Errorf("sim: begin match: %w", err)
		}
		m.record = rec
		m.writer = m.journal.Writer(rec.ID, journalBatch)
		recorders = append(recorders, m.writer)
	}
	m.recorder = recorders

	mgr, err := bot.NewManager(bot.Env{
		World:    m.World,
		Scenario: m.World,
		Nav:      m.Mesh,
		Control:  m.World,
		Clock:    m.World.Clock(),
		Bus:      m.World.Bus(),
	}, m.settings,
		bot.WithLogger(logging.Component(m.log, "bot")),
		bot.WithMetrics(m.metrics),
		bot.WithRecorder(m.recorder),
		bot.WithRand(rand.New(rand.NewSource(m.rng.Int63()))), // #nosec G404 -- simulation randomness
	)
	if err != nil {
		return fmt.Errorf("sim: bot manager: %w", err)
	}
	m.Bots = mgr
	return nil
}

// placeName names a cell after the zone it lies in, or its map quadrant.
func (m *Match) placeName(c geom.Vec3) string {
	for _, z := range m.zones {
		if z.Extent.Contains2D(c) {
			return z.Name
		}
	}
	ns := "North"
	if c.Y > m.Height/2 {
		ns = "South"
	}
	ew := "West"
	if c.X > m.Width/2 {
		ew = "East"
	}
	return ns + ew
}

func (m *Match) addAgent(name string, team world.Team, pos geom.Vec3, p bot.Profile) {
	if m.err != nil {
		return
	}
	center := geom.V(m.Width/2, m.Height/2, 0)
	h := m.World.Spawn(name, team, pos, center.Sub(pos).Yaw())
	if _, err := m.Bots.AddAgent(h, team, p); err != nil {
		m.err = fmt.Errorf("sim: add %s: %w", name, err)
		return
	}
	m.names[h] = name
	m.spawns[team] = append(m.spawns[team], pos)
}

// defaultSetup gives the bomb to the first attacker and makes the first
// attacker the VIP in an escort round.
func (m *Match) defaultSetup() {
	first, ok := m.firstOf(world.TeamAttackers)
	if !ok {
		return
	}
	switch m.kind {
	case world.ScenarioBomb:
		m.World.GiveBomb(first)
	case world.ScenarioEscort:
		m.World.SetVIP(first)
	}
}

func (m *Match) firstOf(team world.Team) (world.Handle, bool) {
	for _, c := range m.World.Combatants() {
		if c.Team == team {
			return c.Handle, true
		}
	}
	return world.NoHandle, false
}

func (m *Match) combatantByName(name string) (world.Handle, bool) {
	for h, n := range m.names {
		if n == name {
			return h, true
		}
	}
	return world.NoHandle, false
}

// AgentByName returns the bot with the given name.
func (m *Match) AgentByName(name string) (*bot.Agent, bool) {
	for _, a := range m.Bots.Agents() {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// --- Running ---

// RunTicks advances the match n ticks, logging events to SimLog.
func (m *Match) RunTicks(n int) {
	for i := 0; i < n; i++ {
		m.step()
	}
}

// RunUntil advances the match up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (m *Match) RunUntil(predicate func(*Match) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		m.step()
		if predicate(m) {
			return m.Tick
		}
	}
	return -1
}

// RunRound runs until the round ends or maxTicks pass.
func (m *Match) RunRound(maxTicks int) (world.Team, bool) {
	m.RunUntil(func(m *Match) bool { return m.World.RoundOver() }, maxTicks)
	return m.World.Winner()
}

// step is one frame: think, move, advance the clock, then log what the
// world did.
func (m *Match) step() {
	m.Tick++
	m.Bots.Tick()
	m.World.Step(m.dt)
	m.World.Clock().Advance(m.dt)
	m.logWorldEvents()
	if m.SimLog.verbose {
		m.logAgents()
	}
}

func (m *Match) logWorldEvents() {
	for _, e := range m.World.TakeEvents() {
		agent, team := "--", "--"
		if c, ok := m.World.Combatant(e.Source); ok {
			agent, team = c.Name, c.Team.String()
		}
		other := "--"
		if c, ok := m.World.Combatant(e.Other); ok {
			other = c.Name
		}
		switch e.Kind {
		case world.EventFootstep, world.EventWeaponFired:
			if m.SimLog.verbose {
				m.SimLog.Add(m.Tick, agent, team, "world", e.Kind.String(), fmt.Sprintf("(%.0f,%.0f)", e.Pos.X, e.Pos.Y), 0)
			}
		case world.EventDamage:
			m.recorder.Record(m.Tick, agent, team, "combat", "damage", "by "+other, 0)
		case world.EventDeath:
			m.recorder.Record(m.Tick, agent, team, "combat", "death", "by "+other, 0)
		case world.EventRoundEnd:
			m.recorder.Record(m.Tick, "--", "--", "round", "end", e.Winner.String(), float64(m.Tick))
		default:
			m.recorder.Record(m.Tick, agent, team, "world", e.Kind.String(), fmt.Sprintf("(%.0f,%.0f)", e.Pos.X, e.Pos.Y), 0)
		}
	}
}

func (m *Match) logAgents() {
	for _, a := range m.Bots.Agents() {
		c := a.Snapshot()
		team := a.Team().String()
		m.SimLog.AddVerbose(m.Tick, a.Name(), team, "move", "position",
			fmt.Sprintf("(%.1f,%.1f)", c.Pos.X, c.Pos.Y), 0)
		m.SimLog.AddVerbose(m.Tick, a.Name(), team, "stats", "health",
			fmt.Sprintf("%d", c.Health), float64(c.Health))
		m.SimLog.AddVerbose(m.Tick, a.Name(), team, "stats", "morale",
			a.Morale().String(), float64(a.Morale()))
	}
}

// Close flushes journaled events and stamps the result.
func (m *Match) Close(ctx context.Context) error {
	if m.journal == nil {
		return nil
	}
	if err := m.writer.Flush(ctx); err != nil {
		return fmt.Errorf("sim: flush events: %w", err)
	}
	winner := "none"
	if t, over := m.World.Winner(); over {
		winner = t.String()
	}
	return m.journal.FinishMatch(ctx, m.record.ID, m.Tick, winner)
}

// Record returns the journal row, the zero record without a journal.
func (m *Match) Record() journal.MatchRecord { return m.record }

// --- Inspection ---

// MatchSnapshot is a lightweight state summary.
type MatchSnapshot struct {
	Tick   int
	Agents []AgentSnapshot
	Bomb   world.BombInfo
	Over   bool
	Winner world.Team
}

// AgentSnapshot is a lightweight copy of a bot's state at a tick.
type AgentSnapshot struct {
	Name   string
	Team   world.Team
	X, Y   float64
	Alive  bool
	Health int
	State  string
	Task   bot.Task
	Morale bot.Morale
}

// Snapshot returns the current state of every bot.
func (m *Match) Snapshot() MatchSnapshot {
	winner, over := m.World.Winner()
	snap := MatchSnapshot{Tick: m.Tick, Bomb: m.World.Bomb(), Over: over, Winner: winner}
	for _, a := range m.Bots.Agents() {
		c := a.Snapshot()
		snap.Agents = append(snap.Agents, AgentSnapshot{
			Name:   a.Name(),
			Team:   a.Team(),
			X:      c.Pos.X,
			Y:      c.Pos.Y,
			Alive:  c.Alive,
			Health: c.Health,
			State:  a.StateName(),
			Task:   a.Task(),
			Morale: a.Morale(),
		})
	}
	return snap
}

// Summary is the SimLog summary at the current tick.
func (m *Match) Summary() string {
	return m.SimLog.Summary(m.Tick, m.Bots.Agents())
}

// Alive counts living bots on team.
func (m *Match) Alive(team world.Team) int {
	alive, _ := m.World.alive(team)
	return alive
}

func rectBox(x, y, w, h float64) geom.Box {
	return geom.Box{Min: geom.V(x, y, 0), Max: geom.V(x+w, y+h, wallHeight)}
}

// multiRecorder fans bot events out to several sinks.
type multiRecorder []bot.Recorder

func (mr multiRecorder) Record(tick int, agent, team, category, key, value string, num float64) {
	for _, r := range mr {
		r.Record(tick, agent, team, category, key, value, num)
	}
}
