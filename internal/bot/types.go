package bot

// --- Tasks ---

// Task is the scenario job a bot is currently working on.
type Task int

const (
	TaskSeekAndDestroy Task = iota
	TaskPlantBomb
	TaskFindTickingBomb
	TaskDefuseBomb
	TaskGuardTickingBomb
	TaskGuardBombDefuser
	TaskGuardLooseBomb
	TaskGuardBombZone
	TaskGuardInitialEncounter
	TaskEscapeFromBomb
	TaskHoldPosition
	TaskFollow
	TaskVIPEscape
	TaskGuardVIPEscapeZone
	TaskCollectHostages
	TaskRescueHostages
	TaskGuardHostages
	TaskGuardHostageRescueZone
	TaskMoveToLastKnownEnemyPosition
	TaskMoveToSniperSpot
	TaskSniping
	TaskEscapeFromFlames
)

func (t Task) String() string {
	switch t {
	case TaskSeekAndDestroy:
		return "seek_and_destroy"
	case TaskPlantBomb:
		return "plant_bomb"
	case TaskFindTickingBomb:
		return "find_ticking_bomb"
	case TaskDefuseBomb:
		return "defuse_bomb"
	case TaskGuardTickingBomb:
		return "guard_ticking_bomb"
	case TaskGuardBombDefuser:
		return "guard_bomb_defuser"
	case TaskGuardLooseBomb:
		return "guard_loose_bomb"
	case TaskGuardBombZone:
		return "guard_bomb_zone"
	case TaskGuardInitialEncounter:
		return "guard_initial_encounter"
	case TaskEscapeFromBomb:
		return "escape_from_bomb"
	case TaskHoldPosition:
		return "hold_position"
	case TaskFollow:
		return "follow"
	case TaskVIPEscape:
		return "vip_escape"
	case TaskGuardVIPEscapeZone:
		return "guard_vip_escape_zone"
	case TaskCollectHostages:
		return "collect_hostages"
	case TaskRescueHostages:
		return "rescue_hostages"
	case TaskGuardHostages:
		return "guard_hostages"
	case TaskGuardHostageRescueZone:
		return "guard_hostage_rescue_zone"
	case TaskMoveToLastKnownEnemyPosition:
		return "move_to_last_known_enemy_position"
	case TaskMoveToSniperSpot:
		return "move_to_sniper_spot"
	case TaskSniping:
		return "sniping"
	case TaskEscapeFromFlames:
		return "escape_from_flames"
	default:
		return "unknown"
	}
}

// --- Disposition ---

// Disposition governs how a bot reacts to recognized enemies.
type Disposition int

const (
	EngageAndInvestigate Disposition = iota // engage enemies, investigate noises
	OpportunityFire                         // engage enemies in view, ignore noises
	SelfDefense                             // only engage enemies that threaten us
	IgnoreEnemies                           // ignore everything
)

func (d Disposition) String() string {
	switch d {
	case EngageAndInvestigate:
		return "engage_and_investigate"
	case OpportunityFire:
		return "opportunity_fire"
	case SelfDefense:
		return "self_defense"
	case IgnoreEnemies:
		return "ignore_enemies"
	default:
		return "unknown"
	}
}

// --- Morale ---

// Morale ranges from Terrible (-3) to Excellent (+3).
type Morale int

const (
	MoraleTerrible Morale = iota - 3
	MoraleBad
	MoraleNegative
	MoraleNeutral
	MoralePositive
	MoraleGood
	MoraleExcellent
)

func (m Morale) String() string {
	switch m {
	case MoraleTerrible:
		return "terrible"
	case MoraleBad:
		return "bad"
	case MoraleNegative:
		return "negative"
	case MoraleNeutral:
		return "neutral"
	case MoralePositive:
		return "positive"
	case MoraleGood:
		return "good"
	case MoraleExcellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// --- Priorities ---

// Priority orders look-at requests and heard noises.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUninterruptable
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUninterruptable:
		return "uninterruptable"
	default:
		return "unknown"
	}
}

// --- Routing ---

// RouteType selects the cost model used for path searches.
type RouteType int

const (
	SafestRoute RouteType = iota
	FastestRoute
)

func (r RouteType) String() string {
	if r == FastestRoute {
		return "fastest"
	}
	return "safest"
}

// PathResult is the outcome of one UpdatePathMovement call.
type PathResult int

const (
	Progressing PathResult = iota
	EndOfPath
	PathFailure
)

func (r PathResult) String() string {
	switch r {
	case Progressing:
		return "progressing"
	case EndOfPath:
		return "end_of_path"
	case PathFailure:
		return "path_failure"
	default:
		return "unknown"
	}
}
