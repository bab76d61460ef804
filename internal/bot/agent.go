package bot

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

// moveIntent is the world-space movement wish carried across ticks until an
// update changes it.
type moveIntent struct {
	dir    geom.Vec3 // unit, flat; zero means stand still
	walk   bool
	crouch bool
}

// watchInfo remembers when another combatant was last seen.
type watchInfo struct {
	timestamp float64
	isEnemy   bool
}

// Agent is the decision core for one bot-controlled combatant. Only the
// agent itself mutates its fields; teammates reach it through memes.
type Agent struct {
	mgr     *Manager
	handle  world.Handle // arena handle inside the manager
	self    world.Handle // combatant handle in the world
	index   int
	name    string
	team    world.Team
	profile Profile
	rng     *rand.Rand
	log     zerolog.Logger

	me         world.Combatant
	wasAlive   bool
	nextUpdate float64 // staggered heavy-update time

	move         moveIntent
	jump         bool
	action       world.Action
	actionTarget world.Handle
	look         lookState

	// behavior
	state              State
	interrupt          State
	stateTimestamp     float64
	task               Task
	taskEntity         world.Handle
	disposition        Disposition
	ignoreEnemiesTimer timer.Countdown
	morale             Morale
	safeTime           float64
	pathFailures       int
	hasBought          bool
	hasKit             bool
	dispatching        bool
	isRogue            bool
	rogueTimer         timer.Countdown
	hidingSpot         *nav.HidingSpot
	followLeader       world.Handle
	unreachable        map[nav.AreaID]float64

	// navigation
	lastKnownArea        *nav.Area
	place                string
	path                 []PathStep
	pathIndex            int
	goalPos              geom.Vec3
	repathTimer          timer.Countdown
	areaEnteredTimestamp float64
	initialEncounter     *nav.Area
	waitingBehindFriend  bool
	politeTimer          timer.Countdown
	stuck                stuckMonitor

	// perception
	reaction           ReactionQueue
	attendSteps        int
	attention          timer.Interval
	blindTimer         timer.Countdown
	alertTimer         timer.Countdown
	watch              map[world.Handle]watchInfo
	nearbyEnemies      int
	nearbyFriends      int
	firstSawEnemy      float64
	bomber             world.Handle
	enemySniperVisible bool
	closestFriend      world.Handle
	enemyPlace         string
	lastEnemy          world.Handle
	lastEnemyPos       geom.Vec3
	lastSawEnemy       timer.Interval
	enemyVisible       bool
	lastAttacker       world.Handle
	attackedTimer      timer.Interval

	noise noiseState

	gameState *GameState
	chatter   *Chatter

	checked         spotCache
	approach        []nav.ApproachPoint
	approachFrom    geom.Vec3
	approachValid   bool
	lookAroundTimer timer.Countdown
}

func newAgent(m *Manager, self world.Handle, c world.Combatant, index int, p Profile) *Agent {
	p = p.normalized()
	name := p.Name
	if name == "" {
		name = c.Name
	}
	if name == "" {
		name = fmt.Sprintf("bot%d", index)
	}
	a := &Agent{
		mgr:          m,
		self:         self,
		index:        index,
		name:         name,
		team:         c.Team,
		profile:      p,
		rng:          rand.New(rand.NewSource(m.rng.Int63())), // #nosec G404 -- simulation randomness
		me:           c,
		watch:        make(map[world.Handle]watchInfo),
		unreachable:  make(map[nav.AreaID]float64),
		actionTarget: world.NoHandle,
		disposition:  EngageAndInvestigate,
	}
	a.log = m.log.With().Str("agent", name).Str("team", c.Team.String()).Logger()
	knowledge := KnowledgeImperfect
	a.gameState = NewGameState(a, m.env.Scenario, m.env.Clock, a.rng, knowledge)
	a.chatter = newChatter(a, m.radio(c.Team), m.settings.Chatter)
	a.attendSteps = ReactionSteps(p.ReactionTime, m.updateInterval())
	a.state = idleState{}
	return a
}

// --- Accessors ---

func (a *Agent) Handle() world.Handle     { return a.handle }
func (a *Agent) Combatant() world.Handle  { return a.self }
func (a *Agent) Name() string             { return a.name }
func (a *Agent) Team() world.Team         { return a.team }
func (a *Agent) Profile() Profile         { return a.profile }
func (a *Agent) Task() Task               { return a.task }
func (a *Agent) TaskEntity() world.Handle { return a.taskEntity }
func (a *Agent) Disposition() Disposition { return a.disposition }
func (a *Agent) Morale() Morale           { return a.morale }
func (a *Agent) GameState() *GameState    { return a.gameState }
func (a *Agent) Chatter() *Chatter        { return a.chatter }
func (a *Agent) Position() geom.Vec3      { return a.me.Pos }
func (a *Agent) Place() string            { return a.place }
func (a *Agent) IsAlive() bool            { return a.me.Alive }
func (a *Agent) Snapshot() world.Combatant {
	return a.me
}

// StateName is the active state, the interrupt when one is running.
func (a *Agent) StateName() string {
	if a.interrupt != nil {
		return a.interrupt.Name()
	}
	if a.state == nil {
		return "none"
	}
	return a.state.Name()
}

func (a *Agent) now() float64             { return a.mgr.env.Clock.Now() }
func (a *Agent) world() world.World       { return a.mgr.env.World }
func (a *Agent) graph() nav.Graph         { return a.mgr.env.Nav }
func (a *Agent) scenario() world.Scenario { return a.mgr.env.Scenario }

func (a *Agent) IsSniper() bool { return a.me.Sniper }

func (a *Agent) hasDefuseKit() bool { return a.hasKit }

// IsSafe is true early in the round, before the enemy can have reached us.
func (a *Agent) IsSafe() bool {
	return a.now()-a.mgr.roundStart < a.safeTime
}

// SafeTime is the length of the opening safe window.
func (a *Agent) SafeTime() float64 { return a.safeTime }

// IsRogue re-rolls every 10 to 30 seconds whether the bot ignores its
// team for a while.
func (a *Agent) IsRogue() bool {
	now := a.now()
	if !a.rogueTimer.IsElapsed(now) {
		return a.isRogue
	}
	a.rogueTimer.Start(now, 10+a.rng.Float64()*20)
	a.isRogue = a.rng.Float64() > a.profile.Teamwork
	return a.isRogue
}

// SetTask changes the scenario task.
func (a *Agent) SetTask(t Task, entity world.Handle) {
	if a.task != t {
		a.record("task", "set", t.String(), 0)
	}
	a.task = t
	a.taskEntity = entity
}

// SetDisposition changes how enemies are engaged.
func (a *Agent) SetDisposition(d Disposition) { a.disposition = d }

// IgnoreEnemies suppresses engagement for duration seconds.
func (a *Agent) IgnoreEnemies(duration float64) {
	a.ignoreEnemiesTimer.Start(a.now(), duration)
}

// IncreaseMorale raises morale one step, up to Excellent.
func (a *Agent) IncreaseMorale() {
	if a.morale < MoraleExcellent {
		a.morale++
	}
}

// DecreaseMorale lowers morale one step, down to Terrible.
func (a *Agent) DecreaseMorale() {
	if a.morale > MoraleTerrible {
		a.morale--
	}
}

// IsOutnumbered is true when more enemies than friends are nearby.
func (a *Agent) IsOutnumbered() bool {
	return a.nearbyFriends < a.nearbyEnemies-1
}

// OutnumberedCount is how many more enemies than friends are nearby.
func (a *Agent) OutnumberedCount() int {
	if a.IsOutnumbered() {
		return a.nearbyEnemies - 1 - a.nearbyFriends
	}
	return 0
}

func (a *Agent) NearbyEnemyCount() int  { return a.nearbyEnemies }
func (a *Agent) NearbyFriendCount() int { return a.nearbyFriends }

// EnemiesRemaining counts live enemies.
func (a *Agent) EnemiesRemaining() int {
	n := 0
	for _, c := range a.mgr.combatants() {
		if c.Alive && c.Team == a.team.Opponent() {
			n++
		}
	}
	return n
}

// FriendsRemaining counts live teammates other than ourselves.
func (a *Agent) FriendsRemaining() int {
	n := 0
	for _, c := range a.mgr.combatants() {
		if c.Alive && c.Team == a.team && c.Handle != a.self {
			n++
		}
	}
	return n
}

// HostageEscortCount is how many hostages follow us.
func (a *Agent) HostageEscortCount() int {
	sc := a.scenario()
	if sc == nil {
		return 0
	}
	n := 0
	for _, h := range sc.Hostages() {
		if h.Alive && !h.Rescued && h.Leader == a.self {
			n++
		}
	}
	return n
}

// --- Tick entry points ---

// refresh pulls our own snapshot from the world.
func (a *Agent) refresh() {
	if c, ok := a.mgr.lookup(a.self); ok {
		a.me = c
	} else {
		a.me.Alive = false
	}
}

// Upkeep runs every tick: view smoothing, aim tracking, stuck sampling.
func (a *Agent) Upkeep(dt float64) {
	a.refresh()
	if !a.me.Alive {
		return
	}
	a.stuck.sample(a, dt)
	if a.IsAttacking() {
		if enemy, ok := a.GetRecognizedEnemy(); ok {
			a.SetLookAt("enemy", a.aimPoint(enemy), PriorityHigh, 0.5)
		}
	}
	a.updateLookAngles(dt)
}

// Update runs the heavy decision pass: perception, belief, behavior, path
// following inside the states, then chatter.
func (a *Agent) Update() {
	a.refresh()
	if !a.me.Alive {
		if a.wasAlive {
			a.onSelfDeath()
		}
		a.wasAlive = false
		return
	}
	a.wasAlive = true

	a.updateArea()
	a.updateReactionQueue()
	a.updateEnemyMemory()
	a.updateBelief()
	a.reactToThreats()
	a.updateState()
	a.updateLookAround()
	a.chatter.Update()
}

// flush hands the tick's intents to the controller.
func (a *Agent) flush() {
	if !a.me.Alive {
		return
	}
	cmd := world.Command{
		YawDelta:   a.look.yawDelta,
		PitchDelta: a.look.pitchDelta,
		Walk:       a.move.walk,
		Crouch:     a.move.crouch,
		Jump:       a.jump,
		Action:     a.action,
		Target:     a.actionTarget,
	}
	if a.move.dir != (geom.Vec3{}) {
		yaw := a.me.Yaw + a.look.yawDelta
		fwd := geom.Forward(yaw, 0)
		left := geom.V(-fwd.Y, fwd.X, 0)
		cmd.Forward = a.move.dir.Dot(fwd)
		cmd.Strafe = a.move.dir.Dot(left)
	}
	a.mgr.env.Control.Drive(a.self, cmd)

	a.jump = false
	a.action = world.ActionNone
	a.actionTarget = world.NoHandle
	a.look.yawDelta = 0
	a.look.pitchDelta = 0
}

// --- Movement primitives ---

// MoveTowards sets the movement wish toward p.
func (a *Agent) MoveTowards(p geom.Vec3) {
	d := p.Sub(a.me.Pos).Flat()
	if d.Len() < 1 {
		a.move.dir = geom.Vec3{}
		return
	}
	a.move.dir = d.Normalize()
}

// MoveAwayFrom sets the movement wish directly away from p.
func (a *Agent) MoveAwayFrom(p geom.Vec3) {
	a.move.dir = a.me.Pos.Sub(p).Flat().Normalize()
}

// Strafe sets a sideways movement wish relative to the facing.
func (a *Agent) Strafe(left bool) {
	fwd := geom.Forward(a.me.Yaw, 0)
	side := geom.V(-fwd.Y, fwd.X, 0)
	if !left {
		side = side.Scale(-1)
	}
	a.move.dir = side
}

// Stop clears the movement wish.
func (a *Agent) Stop() { a.move.dir = geom.Vec3{} }

func (a *Agent) Walk()    { a.move.walk = true }
func (a *Agent) Run()     { a.move.walk = false }
func (a *Agent) Crouch()  { a.move.crouch = true }
func (a *Agent) StandUp() { a.move.crouch = false }
func (a *Agent) Jump()    { a.jump = true }

// Fire pulls the trigger this tick.
func (a *Agent) Fire() { a.action = world.ActionFire }

// Plant starts or continues planting the bomb this tick.
func (a *Agent) Plant() { a.action = world.ActionPlant }

// UseEntity presses use on h this tick.
func (a *Agent) UseEntity(h world.Handle) {
	a.action = world.ActionUse
	a.actionTarget = h
}

// --- Area tracking ---

func (a *Agent) updateArea() {
	g := a.graph()
	if g == nil {
		return
	}
	if a.lastKnownArea != nil && g.AreaContains(a.lastKnownArea, a.me.Pos) {
		return
	}
	area := g.NearestArea(a.me.Pos)
	if area == nil {
		return
	}
	a.lastKnownArea = area
	if area.Place != "" {
		a.place = area.Place
	}
}

// LastKnownArea is the nav area we were last seen standing in.
func (a *Agent) LastKnownArea() *nav.Area { return a.lastKnownArea }

// --- Belief upkeep ---

func (a *Agent) updateBelief() {
	change := a.gameState.ValidateHostagePositions()
	if change.Has(HostageDied) {
		a.chatter.HostageDown()
	}
	if a.team == a.hostageGuardTeam() {
		switch {
		case change.Has(HostagesAllGone):
			a.chatter.HostagesTaken()
		case change.Has(HostageGone) && !a.gameState.HaveSomeHostagesBeenTaken():
			a.gameState.HostageWasTaken()
			a.chatter.HostagesBeingTaken()
		}
	}

	sc := a.scenario()
	if sc == nil || sc.Kind() != world.ScenarioBomb {
		return
	}
	// bomber sightings come from the threat scan
	if a.bomber.IsValid() {
		if c, ok := a.mgr.lookup(a.bomber); ok {
			a.gameState.UpdateBomber(c.Pos)
		}
	}
	b := sc.Bomb()
	switch b.State {
	case world.BombMoving:
		// the loose bomb we were watching is gone
		if a.team == world.TeamDefenders && a.gameState.IsLooseBombLocationKnown() {
			if pos, ok := a.gameState.BombPosition(); ok && a.IsVisiblePoint(pos.Add(geom.V(0, 0, 5)), true) {
				a.chatter.TheyPickedUpTheBomb()
			}
		}
	case world.BombLoose:
		if a.team == world.TeamAttackers || a.IsVisiblePoint(b.Pos.Add(geom.V(0, 0, 5)), true) {
			if !a.gameState.IsLooseBombLocationKnown() && a.team == world.TeamDefenders {
				a.chatter.SpottedLooseBomb(b.Pos)
			}
			a.gameState.UpdateLooseBomb(b.Pos)
		}
	case world.BombPlanted:
		if !a.gameState.IsPlantedBombLocationKnown() && a.IsVisiblePoint(b.Pos.Add(geom.V(0, 0, 5)), true) {
			a.gameState.UpdatePlantedBomb(b.Pos)
			if a.team == world.TeamDefenders {
				a.chatter.FoundPlantedBomb(b.Zone)
			}
		}
	}
}

// hostageGuardTeam is the side keeping hostages.
func (a *Agent) hostageGuardTeam() world.Team { return world.TeamDefenders }

// --- Reactions ---

// reactToThreats starts an attack when a recognized enemy and our
// disposition call for it.
func (a *Agent) reactToThreats() {
	if a.IsAttacking() {
		return
	}
	enemy, ok := a.GetRecognizedEnemy()
	if !ok {
		return
	}
	if !a.ignoreEnemiesTimer.IsElapsed(a.now()) {
		return
	}
	switch a.disposition {
	case IgnoreEnemies:
		return
	case SelfDefense:
		threatening := a.lastAttacker == enemy.Handle && a.attackedTimer.IsLessThan(a.now(), 5)
		if !threatening && !a.IsPlayerLookingAtMe(enemy, lookingAtMeTolerance) &&
			enemy.Pos.Dist(a.me.Pos) > selfDefenseRange {
			return
		}
	}
	a.Attack(enemy.Handle)
}

const selfDefenseRange = 750.0

// OnDamaged is called when another combatant hurts us.
func (a *Agent) OnDamaged(attacker world.Handle) {
	a.lastAttacker = attacker
	a.attackedTimer.Start(a.now())
	a.alertTimer.Start(a.now(), 10)
}

func (a *Agent) onSelfDeath() {
	a.chatter.OnDeath()
	a.DestroyPath()
	a.interrupt = nil
	a.hidingSpot = nil
	a.record("state", "died", a.StateName(), 0)
}

// onPlayerDeath reacts to another combatant dying.
func (a *Agent) onPlayerDeath(victim, killer world.Combatant) {
	if !a.me.Alive {
		return
	}
	switch {
	case victim.Team == a.team:
		a.DecreaseMorale()
		if a.world().LineClear(a.me.Eye(), victim.Center(), a.self, victim.Handle) {
			a.alertTimer.Start(a.now(), 10)
		}
	case victim.Team == a.team.Opponent():
		if killer.Handle == a.self {
			a.IncreaseMorale()
			a.chatter.KilledMyEnemy(victim.Handle)
		} else if killer.Team == a.team {
			a.IncreaseMorale()
		}
		if a.lastEnemy == victim.Handle {
			a.lastEnemy = world.NoHandle
		}
		remaining := a.EnemiesRemaining()
		if remaining > 0 && remaining <= 3 && killer.Team == a.team {
			a.chatter.EnemiesRemaining()
		}
	}
}

// OnRoundStart resets per-round state.
func (a *Agent) OnRoundStart() {
	a.refresh()
	a.DestroyPath()
	a.ResetStuckMonitor()
	a.reaction.Reset()
	a.watch = make(map[world.Handle]watchInfo)
	a.nearbyEnemies, a.nearbyFriends = 0, 0
	a.lastEnemy = world.NoHandle
	a.lastSawEnemy.Invalidate()
	a.bomber = world.NoHandle
	a.noise = noiseState{}
	a.blindTimer.Invalidate()
	a.ignoreEnemiesTimer.Invalidate()
	a.hasBought = false
	a.hasKit = false
	a.hidingSpot = nil
	a.followLeader = world.NoHandle
	clear(a.unreachable)
	a.interrupt = nil
	a.checked.Reset()
	a.approachValid = false
	a.lastKnownArea = nil
	a.updateArea()
	a.gameState.Reset()
	if a.mgr.settings.DefuserPerfectKnowledge && a.team == world.TeamDefenders {
		a.gameState.SetKnowledge(KnowledgePerfect)
	} else {
		a.gameState.SetKnowledge(KnowledgeImperfect)
	}
	a.chatter.Reset()
	a.safeTime = a.computeSafeTime()
	a.SetTask(TaskSeekAndDestroy, world.NoHandle)
	a.disposition = EngageAndInvestigate
	a.wasAlive = a.me.Alive
	a.setState(idleState{})
}

// defaultSafeTime bounds the opening window when no estimate is available.
const defaultSafeTime = 15.0

// computeSafeTime estimates how long before the enemy can reach our spawn.
func (a *Agent) computeSafeTime() float64 {
	if a.lastKnownArea == nil || a.graph() == nil {
		return defaultSafeTime
	}
	t := a.graph().EarliestOccupyTime(a.lastKnownArea.ID, a.team.Opponent())
	if math.IsInf(t, 1) || t <= 0 {
		return defaultSafeTime
	}
	// leave a margin for a fast enemy
	return math.Min(defaultSafeTime, t*0.8)
}

// OnRoundEnd reacts to the round result.
func (a *Agent) OnRoundEnd(winner world.Team) {
	if winner == a.team {
		a.IncreaseMorale()
		if a.me.Alive {
			a.chatter.CelebrateWin()
		}
	} else if winner != world.TeamNone {
		a.DecreaseMorale()
	}
}

// --- Logging ---

func (a *Agent) think(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.mgr.thoughts.Add(a.mgr.tickCount, a.name, a.team, msg)
	a.log.Trace().Msg(msg)
}

func (a *Agent) record(category, key, value string, num float64) {
	if a.mgr.recorder == nil {
		return
	}
	a.mgr.recorder.Record(a.mgr.tickCount, a.name, a.team.String(), category, key, value, num)
}
