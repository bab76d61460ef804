package bot

import (
	"math"
	"slices"

	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

// Verbosity controls how much a bot says.
type Verbosity int

const (
	ChatterOff     Verbosity = iota
	ChatterMinimal           // important statements only
	ChatterRadio             // stock radio commands instead of voice
	ChatterNormal
)

func (v Verbosity) String() string {
	switch v {
	case ChatterOff:
		return "off"
	case ChatterMinimal:
		return "minimal"
	case ChatterRadio:
		return "radio"
	case ChatterNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ParseVerbosity maps a config string to a Verbosity.
func ParseVerbosity(s string) (Verbosity, bool) {
	switch s {
	case "off":
		return ChatterOff, true
	case "minimal":
		return ChatterMinimal, true
	case "radio":
		return ChatterRadio, true
	case "normal":
		return ChatterNormal, true
	default:
		return ChatterNormal, false
	}
}

const (
	reportInSilence     = 30.0
	voiceBaseDuration   = 0.4
	voiceCharsPerSecond = 15.0
)

// --- Radio ---

// Radio is a team's shared channel. Every chatter on the team sees the
// others' pending statements through it so only one speaks at a time.
type Radio struct {
	team    world.Team
	clock   timer.Clock
	members []*Chatter
	silence timer.Interval
	places  map[string]float64 // last time each place name was spoken
}

func newRadio(team world.Team, clock timer.Clock) *Radio {
	r := &Radio{team: team, clock: clock, places: make(map[string]float64)}
	r.silence.Start(clock.Now())
	return r
}

func (r *Radio) join(c *Chatter) { r.members = append(r.members, c) }

func (r *Radio) leave(c *Chatter) {
	r.members = slices.DeleteFunc(r.members, func(m *Chatter) bool { return m == c })
}

// SilenceDuration is the time since anyone on the team last spoke.
func (r *Radio) SilenceDuration() float64 { return r.silence.ElapsedTime(r.clock.Now()) }

func (r *Radio) resetSilence() { r.silence.Start(r.clock.Now()) }

func (r *Radio) reset() {
	r.resetSilence()
	clear(r.places)
}

// placeSaidRecently reports whether place was spoken within window.
func (r *Radio) placeSaidRecently(place string, now, window float64) bool {
	t, ok := r.places[place]
	return ok && now-t < window
}

// activeStatement is the statement being spoken on the channel, or the one
// that has waited longest once its start time has come.
func (r *Radio) activeStatement() *Statement {
	var earliest *Statement
	early := math.Inf(1)
	for _, m := range r.members {
		for _, s := range m.statements {
			if s.speaking {
				return s
			}
			if s.start < early {
				early = s.start
				earliest = s
			}
		}
	}
	if earliest != nil && earliest.start > r.clock.Now() {
		return nil
	}
	return earliest
}

// --- Chatter ---

// Chatter queues, speaks and retires one bot's statements.
type Chatter struct {
	agent      *Agent
	radio      *Radio
	verbosity  Verbosity
	statements []*Statement // ordered by start time

	seeAtLeastOneEnemy    bool
	timeWhenSawFirstEnemy float64
	reportedEnemies       bool
	requestedBombLocation bool

	needBackupInterval    timer.Interval
	scaredInterval        timer.Interval
	planInterval          timer.Interval
	spottedBomberInterval timer.Interval
	spottedLooseBombTimer timer.Countdown
	heardNoiseTimer       timer.Countdown
	warnSniperTimer       timer.Countdown
	escortingHostageTimer timer.Countdown
}

func newChatter(a *Agent, r *Radio, v Verbosity) *Chatter {
	c := &Chatter{agent: a, radio: r, verbosity: v}
	r.join(c)
	return c
}

func (c *Chatter) now() float64 { return c.agent.now() }

func (c *Chatter) Verbosity() Verbosity     { return c.verbosity }
func (c *Chatter) SetVerbosity(v Verbosity) { c.verbosity = v }

// Statements returns the pending statements in start-time order.
func (c *Chatter) Statements() []*Statement { return slices.Clone(c.statements) }

// IsTalking is true while one of our statements is being spoken.
func (c *Chatter) IsTalking() bool {
	for _, s := range c.statements {
		if s.speaking {
			return true
		}
	}
	return false
}

// SeesAtLeastOneEnemy is true while enemies are nearby.
func (c *Chatter) SeesAtLeastOneEnemy() bool { return c.seeAtLeastOneEnemy }

// Reset drops pending statements, except round results, and the throttles.
func (c *Chatter) Reset() {
	c.statements = slices.DeleteFunc(c.statements, func(s *Statement) bool { return s.kind != ReportRoundEnd })
	c.seeAtLeastOneEnemy = false
	c.timeWhenSawFirstEnemy = 0
	c.reportedEnemies = false
	c.requestedBombLocation = false
	c.needBackupInterval.Invalidate()
	c.scaredInterval.Invalidate()
	c.planInterval.Invalidate()
	c.spottedBomberInterval.Invalidate()
	c.spottedLooseBombTimer.Invalidate()
	c.heardNoiseTimer.Invalidate()
	c.warnSniperTimer.Invalidate()
	c.escortingHostageTimer.Invalidate()
}

// OnDeath cuts us off mid-sentence and drops what was pending.
func (c *Chatter) OnDeath() {
	if c.IsTalking() && (c.verbosity == ChatterMinimal || c.verbosity == ChatterNormal) {
		me := c.agent
		c.emit(world.Utterance{Speaker: me.self, Team: me.team, Phrase: string(PhraseDeathCry), Time: c.now()}, string(PhraseDeathCry))
	}
	c.Reset()
}

// AddStatement queues s in start-time order. It returns false when s was
// dropped: chatter off, unimportant at minimal verbosity, owner dead, empty,
// or redundant with a pending statement. mustAdd bypasses the dead-owner and
// redundancy checks.
func (c *Chatter) AddStatement(s *Statement, mustAdd bool) bool {
	reason := ""
	switch {
	case c.verbosity == ChatterOff:
		reason = "off"
	case c.verbosity == ChatterMinimal && !s.IsImportant():
		reason = "unimportant"
	case !c.agent.me.Alive && !mustAdd:
		reason = "dead"
	case s.count == 0:
		reason = "empty"
	}
	if reason == "" && !mustAdd {
		for _, pending := range c.statements {
			if s.IsRedundant(pending) {
				reason = "redundant"
				break
			}
		}
	}
	if reason != "" {
		c.agent.mgr.metrics.StatementDropped(reason)
		c.agent.log.Trace().Str("type", s.kind.String()).Str("reason", reason).Msg("statement dropped")
		return false
	}

	i := len(c.statements)
	for j, pending := range c.statements {
		if pending.start > s.start {
			i = j
			break
		}
	}
	c.statements = slices.Insert(c.statements, i, s)
	return true
}

func (c *Chatter) remove(s *Statement) {
	c.statements = slices.DeleteFunc(c.statements, func(p *Statement) bool { return p == s })
}

func (c *Chatter) retire(s *Statement, reason string) {
	c.remove(s)
	c.agent.mgr.metrics.StatementDropped(reason)
	c.agent.log.Trace().Str("type", s.kind.String()).Str("reason", reason).Msg("statement retired")
}

// Update reports enemies, speaks our statement when the channel is ours and
// retires statements that no longer make sense.
func (c *Chatter) Update() {
	me := c.agent
	c.reportEnemies()

	if c.shouldSpeak() && me.EnemiesRemaining() > 0 && c.radio.SilenceDuration() > reportInSilence {
		c.ReportIn()
	}

	if say := c.radio.activeStatement(); say != nil && say.owner == c {
		if !say.update() {
			c.remove(say)
		}
	}

	friendSay := c.radio.activeStatement()
	if friendSay != nil && friendSay.owner == c {
		friendSay = nil
	}
	for _, s := range slices.Clone(c.statements) {
		if !s.IsValid() {
			c.retire(s, "invalid")
			continue
		}
		if s.speaking {
			continue
		}
		if s.IsObsolete() {
			c.retire(s, "obsolete")
			continue
		}
		if friendSay != nil {
			s.Convert(friendSay)
			if s.IsRedundant(friendSay) {
				c.retire(s, "teammate")
			}
		}
	}
}

// reportEnemies tracks whether enemies are around and announces them once.
func (c *Chatter) reportEnemies() {
	me := c.agent
	if !me.me.Alive {
		return
	}
	if me.NearbyEnemyCount() == 0 {
		c.seeAtLeastOneEnemy = false
		c.reportedEnemies = false
	} else if !c.seeAtLeastOneEnemy {
		c.seeAtLeastOneEnemy = true
		c.timeWhenSawFirstEnemy = c.now()
	}
	if c.reportedEnemies || !c.seeAtLeastOneEnemy {
		return
	}
	c.reportedEnemies = true
	if me.IsOutnumbered() && c.NeedBackup() {
		return
	}
	c.EnemySpotted()
}

// shouldSpeak is false when nobody would hear or everyone is already here.
func (c *Chatter) shouldSpeak() bool {
	me := c.agent
	friends := me.FriendsRemaining()
	return friends > 0 && me.NearbyFriendCount() != friends
}

// speak broadcasts one slot and returns how long it takes.
func (c *Chatter) speak(p Phrase, place, about string) (float64, bool) {
	me := c.agent
	now := c.now()
	u := world.Utterance{Speaker: me.self, Team: me.team, Place: about, Time: now}

	if c.verbosity == ChatterRadio {
		cmd := p.Radio()
		if cmd == "" {
			return 0, false
		}
		u.Phrase, u.Radio = cmd, true
		c.emit(u, string(p))
		return radioPhraseDuration, true
	}

	text := string(p)
	if p == "" {
		if c.radio.placeSaidRecently(place, now, placeRepeatInterval) {
			return 0, false
		}
		c.radio.places[place] = now
		text = place
	}
	u.Phrase = text
	c.emit(u, text)
	return voiceBaseDuration + float64(len(text))/voiceCharsPerSecond, true
}

func (c *Chatter) emit(u world.Utterance, label string) {
	me := c.agent
	c.radio.resetSilence()
	me.mgr.env.Control.Broadcast(u)
	me.mgr.metrics.Statement(label)
	me.record("chatter", "say", u.Phrase, 0)
	me.log.Trace().Str("phrase", u.Phrase).Str("place", u.Place).Bool("radio", u.Radio).Msg("say")
}

// transmit hands a meme to every live teammate once.
func (c *Chatter) transmit(m Meme) {
	sender := c.agent
	for _, other := range slices.Clone(c.radio.members) {
		if other == c || !other.agent.me.Alive {
			continue
		}
		m.Interpret(sender, other.agent)
		sender.mgr.metrics.MemeInterpreted(m.Name())
	}
}
