package bot

import "strings"

// Difficulty selects a profile preset.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyExpert
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	case DifficultyExpert:
		return "expert"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a config string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "normal", "":
		return DifficultyNormal, true
	case "hard":
		return DifficultyHard, true
	case "expert":
		return DifficultyExpert, true
	default:
		return DifficultyNormal, false
	}
}

// Profile holds the personality of one bot. All weights are 0..1.
type Profile struct {
	Name         string
	Difficulty   Difficulty
	Skill        float64
	Aggression   float64
	Teamwork     float64
	ReactionTime float64 // seconds before a threat is consciously recognized
	AttackDelay  float64 // seconds to hold fire after recognizing an enemy
	PreferSniper bool
}

// DefaultProfile returns the preset for d.
func DefaultProfile(d Difficulty) Profile {
	p := Profile{Difficulty: d, Teamwork: 0.75, Aggression: 0.5}
	switch d {
	case DifficultyEasy:
		p.Skill = 0.2
		p.ReactionTime = 0.6
		p.AttackDelay = 0.6
		p.Aggression = 0.3
	case DifficultyNormal:
		p.Skill = 0.5
		p.ReactionTime = 0.4
		p.AttackDelay = 0.3
	case DifficultyHard:
		p.Skill = 0.75
		p.ReactionTime = 0.3
		p.AttackDelay = 0.15
		p.Aggression = 0.6
	case DifficultyExpert:
		p.Skill = 1
		p.ReactionTime = 0.2
		p.AttackDelay = 0
		p.Aggression = 0.7
		p.Teamwork = 0.9
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalized returns p with every weight clamped into range.
func (p Profile) normalized() Profile {
	p.Skill = clamp01(p.Skill)
	p.Aggression = clamp01(p.Aggression)
	p.Teamwork = clamp01(p.Teamwork)
	if p.ReactionTime < 0 {
		p.ReactionTime = 0
	}
	if p.AttackDelay < 0 {
		p.AttackDelay = 0
	}
	return p
}
