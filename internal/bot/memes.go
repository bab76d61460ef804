package bot

import (
	"github.com/Garsondee/tacbot/internal/geom"
	"github.com/Garsondee/tacbot/internal/world"
)

// Meme is the information a statement carries to teammates. Interpret is
// called once per live teammate after the statement is fully spoken.
type Meme interface {
	Interpret(sender, receiver *Agent)
	Name() string
}

const (
	helpRange       = 3000.0
	followMemeRange = 1000.0
	defendHereRange = 500.0
	defendHoldTime  = 20.0
)

// HelpMeme asks teammates to come to the sender.
type HelpMeme struct {
	Place string
	Pos   geom.Vec3
}

func (*HelpMeme) Name() string { return "help" }

func (m *HelpMeme) Interpret(sender, receiver *Agent) {
	receiver.RespondToHelpRequest(sender, m.Place, m.Pos, helpRange)
}

// BombsiteStatusMeme reports a bombsite as clear or as holding the bomb.
type BombsiteStatusMeme struct {
	Zone    int
	Planted bool
}

func (*BombsiteStatusMeme) Name() string { return "bombsite_status" }

func (m *BombsiteStatusMeme) Interpret(_, receiver *Agent) {
	gs := receiver.gameState
	if m.Planted {
		gs.MarkBombsiteAsPlanted(m.Zone)
	} else {
		gs.ClearBombsite(m.Zone)
	}
	// searchers pick their next site
	if receiver.task == TaskFindTickingBomb {
		receiver.Idle()
		receiver.chatter.Affirmative()
	}
}

// BombStatusMeme reports the bomb carried or lying loose.
type BombStatusMeme struct {
	State world.BombState
	Pos   geom.Vec3
}

func (*BombStatusMeme) Name() string { return "bomb_status" }

func (m *BombStatusMeme) Interpret(sender, receiver *Agent) {
	switch m.State {
	case world.BombMoving:
		receiver.gameState.UpdateBomber(m.Pos)
		if !receiver.IsRogue() && receiver.IsHunting() && receiver.NearbyEnemyCount() == 0 {
			receiver.RespondToHelpRequest(sender, receiver.placeAt(m.Pos), m.Pos, -1)
		}
	case world.BombLoose:
		receiver.gameState.UpdateLooseBomb(m.Pos)
		if receiver.task == TaskGuardBombZone {
			receiver.Idle()
			receiver.chatter.Affirmative()
		}
	}
}

// FollowMeme asks nearby teammates to tag along.
type FollowMeme struct{}

func (FollowMeme) Name() string { return "follow" }

func (FollowMeme) Interpret(sender, receiver *Agent) {
	if receiver.IsRogue() || receiver.IsBusy() {
		return
	}
	d := receiver.travelDistanceTo(sender.me.Pos)
	if d < 0 || d > followMemeRange {
		return
	}
	receiver.Follow(sender.self)
	receiver.chatter.Say(PhraseCoveringFriend, 3, 0)
}

// DefendHereMeme asks teammates to hold a position.
type DefendHereMeme struct {
	Pos geom.Vec3
}

func (*DefendHereMeme) Name() string { return "defend_here" }

func (m *DefendHereMeme) Interpret(_, receiver *Agent) {
	if receiver.IsRogue() || receiver.IsBusy() {
		return
	}
	receiver.SetTask(TaskHoldPosition, world.NoHandle)
	if receiver.TryToHide(m.Pos, defendHereRange, defendHoldTime+receiver.rng.Float64()*defendHoldTime, receiver.IsSniper()) {
		return
	}
	receiver.MoveTo(m.Pos, SafestRoute)
	receiver.chatter.Affirmative()
}

// WhereBombMeme asks whoever knows to say where the bomb was planted.
type WhereBombMeme struct{}

func (WhereBombMeme) Name() string { return "where_bomb" }

func (WhereBombMeme) Interpret(_, receiver *Agent) {
	if zone := receiver.gameState.PlantedBombsite(); zone >= 0 {
		receiver.chatter.FoundPlantedBomb(zone)
	}
}

// RequestReportMeme asks teammates to report in.
type RequestReportMeme struct{}

func (RequestReportMeme) Name() string { return "request_report" }

func (RequestReportMeme) Interpret(_, receiver *Agent) {
	receiver.chatter.ReportingIn()
}

// AllHostagesGoneMeme tells guards there is nothing left to guard.
type AllHostagesGoneMeme struct{}

func (AllHostagesGoneMeme) Name() string { return "all_hostages_gone" }

func (AllHostagesGoneMeme) Interpret(_, receiver *Agent) {
	receiver.gameState.AllHostagesGone()
	receiver.chatter.Affirmative()
}

// HostageBeingTakenMeme warns guards that a rescuer reached the hostages.
type HostageBeingTakenMeme struct{}

func (HostageBeingTakenMeme) Name() string { return "hostage_being_taken" }

func (HostageBeingTakenMeme) Interpret(_, receiver *Agent) {
	receiver.gameState.HostageWasTaken()
	if receiver.IsBusy() {
		return
	}
	receiver.Idle()
	receiver.chatter.Affirmative()
}

// HeardNoiseMeme keeps teammates from reporting the same noise.
type HeardNoiseMeme struct{}

func (HeardNoiseMeme) Name() string { return "heard_noise" }

func (HeardNoiseMeme) Interpret(_, receiver *Agent) { receiver.chatter.FriendHeardNoise() }

// WarnSniperMeme keeps teammates from repeating a sniper warning.
type WarnSniperMeme struct{}

func (WarnSniperMeme) Name() string { return "warn_sniper" }

func (WarnSniperMeme) Interpret(_, receiver *Agent) { receiver.chatter.FriendSpottedSniper() }

// --- Responses ---

// IsBusy is true while fighting or doing something the round depends on.
func (a *Agent) IsBusy() bool {
	if a.IsAttacking() {
		return true
	}
	switch a.task {
	case TaskPlantBomb, TaskDefuseBomb, TaskFindTickingBomb, TaskRescueHostages,
		TaskEscapeFromBomb, TaskEscapeFromFlames, TaskVIPEscape:
		return true
	}
	return false
}

// RespondToHelpRequest decides whether to go to a teammate who asked for
// help at pos. maxRange limits the walked distance; negative means any.
func (a *Agent) RespondToHelpRequest(sender *Agent, place string, pos geom.Vec3, maxRange float64) bool {
	if a.IsRogue() || a.IsBusy() || !a.me.Alive {
		return false
	}
	if maxRange > 0 {
		d := a.travelDistanceTo(pos)
		if d < 0 || d > maxRange {
			return false
		}
	}
	a.think("helping %s at %s", sender.name, place)
	a.record("chatter", "respond_help", sender.name, 0)
	a.chatter.Say(PhraseOnMyWay, 3, 0)
	a.MoveTo(pos, FastestRoute)
	return true
}

// travelDistanceTo is the walked distance to pos under our cost model,
// or -1 when unreachable.
func (a *Agent) travelDistanceTo(pos geom.Vec3) float64 {
	g := a.graph()
	if g == nil || a.lastKnownArea == nil {
		return -1
	}
	goal := g.NearestArea(pos)
	if goal == nil {
		return -1
	}
	return g.TravelDistance(a.lastKnownArea, goal, a.pathCost(SafestRoute).EdgeCost)
}

// placeAt names the place around pos.
func (a *Agent) placeAt(pos geom.Vec3) string {
	if g := a.graph(); g != nil {
		if area := g.NearestArea(pos); area != nil {
			return area.Place
		}
	}
	return ""
}
