package world

// Action is a one-shot trigger carried by a Command.
type Action int

const (
	ActionNone Action = iota
	ActionFire
	ActionUse
	ActionPlant
	ActionReload
)

func (a Action) String() string {
	switch a {
	case ActionFire:
		return "fire"
	case ActionUse:
		return "use"
	case ActionPlant:
		return "plant"
	case ActionReload:
		return "reload"
	default:
		return "none"
	}
}

// Command is the movement and aim intent for one combatant for one tick.
type Command struct {
	Forward    float64 // -1..1
	Strafe     float64 // -1..1, positive is left
	YawDelta   float64 // degrees
	PitchDelta float64
	Walk       bool
	Crouch     bool
	Jump       bool
	Action     Action
	Target     Handle // entity an ActionUse is aimed at
}

// Utterance is one spoken chatter phrase.
type Utterance struct {
	Speaker Handle
	Team    Team
	Phrase  string
	Place   string
	Radio   bool
	Time    float64
}

// Controller consumes intents from the decision core.
type Controller interface {
	Drive(h Handle, cmd Command)
	Broadcast(u Utterance)
	// Purchase asks the economy to buy item for h.
	Purchase(h Handle, item string) bool
}
