package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/timer"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	plantTimeout   = 5.0
	defuseTimeout  = 12.0
	defuseRange    = 50.0
	useRange       = 80.0
	useTimeout     = 3.0
	buyDelayMin    = 1.0
	buyDelayJitter = 1.0
)

// --- Buy ---

// buyState waits a moment in the buy zone and then shops.
type buyState struct {
	delay timer.Countdown
}

func (*buyState) Name() string { return "buy" }

func (s *buyState) OnEnter(a *Agent) {
	a.Stop()
	s.delay.Start(a.now(), buyDelayMin+a.rng.Float64()*buyDelayJitter)
}

func (s *buyState) OnUpdate(a *Agent) {
	if !s.delay.IsElapsed(a.now()) {
		return
	}
	ctl := a.mgr.env.Control
	primary := "rifle"
	if a.profile.PreferSniper && a.mgr.settings.AllowSnipers {
		primary = "sniper_rifle"
	}
	var bought []string
	for _, item := range []string{primary, "armor"} {
		if ctl.Purchase(a.self, item) {
			bought = append(bought, item)
		}
	}
	if a.team == world.TeamDefenders && a.scenario().Kind() == world.ScenarioBomb {
		if ctl.Purchase(a.self, "defuse_kit") {
			a.hasKit = true
			bought = append(bought, "defuse_kit")
		}
	}
	a.hasBought = true
	a.think("bought %v", bought)
	a.record("buy", "items", primary, float64(len(bought)))
	a.Idle()
}

func (*buyState) OnExit(*Agent) {}

// --- Bomb ---

// fetchBombState runs to a loose bomb to pick it up.
type fetchBombState struct{}

func (*fetchBombState) Name() string { return "fetch_bomb" }

func (*fetchBombState) OnEnter(a *Agent) {
	a.DestroyPath()
	a.Run()
}

func (*fetchBombState) OnUpdate(a *Agent) {
	if a.me.HasBomb {
		a.think("got the bomb")
		a.Idle()
		return
	}
	pos, ok := a.gameState.BombPosition()
	if !ok || a.gameState.BombState() != world.BombLoose {
		a.Idle()
		return
	}
	switch a.followPath(pos, FastestRoute) {
	case EndOfPath:
		// standing on it; the pickup is automatic
		a.MoveTowards(pos)
	case PathFailure:
		a.Idle()
	}
}

func (*fetchBombState) OnExit(*Agent) {}

// plantBombState holds the plant action until the bomb is down.
type plantBombState struct {
	timeout timer.Countdown
}

func (*plantBombState) Name() string { return "plant_bomb" }

func (s *plantBombState) OnEnter(a *Agent) {
	a.Stop()
	a.Crouch()
	s.timeout.Start(a.now(), plantTimeout)
	a.chatter.PlantingTheBomb(a.place)
	a.record("bomb", "plant", a.place, 0)
}

func (s *plantBombState) OnUpdate(a *Agent) {
	if !a.me.HasBomb {
		a.think("bomb planted")
		a.SetTask(TaskGuardTickingBomb, world.NoHandle)
		a.Idle()
		return
	}
	if s.timeout.IsElapsed(a.now()) {
		a.think("plant timed out")
		a.Idle()
		return
	}
	a.Stop()
	a.Crouch()
	a.SetLookAt("plant", a.me.Pos.Add(geom.V(0, 0, -10)), PriorityHigh, 0.5)
	a.Plant()
}

func (*plantBombState) OnExit(a *Agent) {
	a.StandUp()
	a.ClearLookAt()
}

// defuseBombState holds use on the planted bomb.
type defuseBombState struct {
	timeout timer.Countdown
}

func (*defuseBombState) Name() string { return "defuse_bomb" }

func (s *defuseBombState) OnEnter(a *Agent) {
	s.timeout.Start(a.now(), defuseTimeout)
	a.record("bomb", "defuse", a.place, 0)
}

func (s *defuseBombState) OnUpdate(a *Agent) {
	gs := a.gameState
	pos, known := gs.BombPosition()
	if gs.BombState() != world.BombPlanted || !known {
		a.Idle()
		return
	}
	if s.timeout.IsElapsed(a.now()) {
		a.think("defuse timed out")
		a.Idle()
		return
	}
	if a.me.Pos.Dist(pos) > defuseRange {
		if a.followPath(pos, FastestRoute) == PathFailure {
			a.Idle()
		}
		return
	}
	a.Stop()
	a.Crouch()
	a.SetLookAt("defuse", pos, PriorityHigh, 0.5)
	a.UseEntity(world.NoHandle)
}

func (*defuseBombState) OnExit(a *Agent) {
	a.StandUp()
	a.ClearLookAt()
}

// --- Hostages ---

// pickupHostageState walks to a free hostage and hands off to use.
type pickupHostageState struct {
	hostage world.Handle
}

func (*pickupHostageState) Name() string { return "pickup_hostage" }

func (*pickupHostageState) OnEnter(a *Agent) {
	a.DestroyPath()
	a.Run()
}

func (s *pickupHostageState) OnUpdate(a *Agent) {
	h, ok := a.scenario().Hostage(s.hostage)
	if !ok || !h.Alive || h.Rescued || h.Leader.IsValid() {
		a.Idle()
		return
	}
	if a.me.Pos.Dist(h.Pos) < useRange {
		a.UseEntityState(s.hostage, h.Pos)
		return
	}
	if a.followPath(h.Pos, a.routeForNow()) == PathFailure {
		a.Idle()
	}
}

func (*pickupHostageState) OnExit(*Agent) {}

// useEntityState faces an entity and presses use on it.
type useEntityState struct {
	entity  world.Handle
	pos     geom.Vec3
	timeout timer.Countdown
}

func (*useEntityState) Name() string { return "use_entity" }

func (s *useEntityState) OnEnter(a *Agent) {
	s.timeout.Start(a.now(), useTimeout)
}

func (s *useEntityState) OnUpdate(a *Agent) {
	if sc := a.scenario(); sc != nil {
		if h, ok := sc.Hostage(s.entity); ok && h.Leader == a.self {
			a.think("hostage following")
			a.Idle()
			return
		}
	}
	if s.timeout.IsElapsed(a.now()) {
		a.Idle()
		return
	}
	if a.me.Pos.Dist(s.pos) > useRange {
		a.MoveTowards(s.pos)
		return
	}
	a.Stop()
	a.SetLookAt("use", s.pos.Add(geom.V(0, 0, world.CrouchEyeHeight)), PriorityHigh, 0.5)
	if a.IsLookingAtPosition(s.pos.Add(geom.V(0, 0, world.CrouchEyeHeight)), 20) {
		a.UseEntity(s.entity)
	}
}

func (*useEntityState) OnExit(a *Agent) {
	a.ClearLookAt()
}
