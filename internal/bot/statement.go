package bot

import (
	"github.com/Garsondee/tacbot/internal/world"
)

// --- Phrases ---

// Phrase names one spoken line.
type Phrase string

const (
	PhraseEnemySpotted          Phrase = "EnemySpotted"
	PhraseHelp                  Phrase = "Help"
	PhraseInCombat              Phrase = "InCombat"
	PhrasePinnedDown            Phrase = "PinnedDown"
	PhraseSniperWarning         Phrase = "SniperWarning"
	PhraseClear                 Phrase = "Clear"
	PhraseRequestReport         Phrase = "RequestReport"
	PhraseEnemyDown             Phrase = "EnemyDown"
	PhraseHeardNoise            Phrase = "HeardNoise"
	PhraseKilledMyEnemy         Phrase = "KilledMyEnemy"
	PhraseNoEnemiesLeft         Phrase = "NoEnemiesLeft"
	PhraseOneEnemyLeft          Phrase = "OneEnemyLeft"
	PhraseTwoEnemiesLeft        Phrase = "TwoEnemiesLeft"
	PhraseThreeEnemiesLeft      Phrase = "ThreeEnemiesLeft"
	PhraseAffirmative           Phrase = "Affirmative"
	PhraseNegative              Phrase = "Negative"
	PhraseGoingToPlantBomb      Phrase = "GoingToPlantBomb"
	PhrasePlantingBomb          Phrase = "PlantingBomb"
	PhraseDefusingBomb          Phrase = "DefusingBomb"
	PhraseSpottedBomber         Phrase = "SpottedBomber"
	PhraseSpottedLooseBomb      Phrase = "SpottedLooseBomb"
	PhraseGuardingLooseBomb     Phrase = "GuardingLooseBomb"
	PhraseWhereIsTheBomb        Phrase = "WhereIsTheBomb"
	PhraseBombsiteClear         Phrase = "BombsiteClear"
	PhrasePlantedBombPlace      Phrase = "PlantedBombPlace"
	PhraseScared                Phrase = "ScaredEmote"
	PhraseWonRound              Phrase = "WonRound"
	PhraseWonRoundQuickly       Phrase = "WonRoundQuickly"
	PhraseLastManStanding       Phrase = "LastManStanding"
	PhraseDefendBombsite        Phrase = "GoingToDefendBombsite"
	PhraseGuardHostages         Phrase = "GoingToGuardHostages"
	PhraseGuardingHostages      Phrase = "GuardingHostages"
	PhraseHostagesBeingTaken    Phrase = "HostagesBeingTaken"
	PhraseHostagesTaken         Phrase = "HostagesTaken"
	PhraseHostageDown           Phrase = "HostageDown"
	PhraseEscortingHostages     Phrase = "EscortingHostages"
	PhraseCoveringFriend        Phrase = "CoveringFriend"
	PhraseOnMyWay               Phrase = "OnMyWay"
	PhraseMeToo                 Phrase = "AgreeWithPlan"
	PhraseBlinded               Phrase = "Blinded"
	PhraseTheyPickedUpTheBomb   Phrase = "TheyPickedUpTheBomb"
	PhraseGuardingHostageEscape Phrase = "GuardingHostageEscapeZone"
	PhraseDeathCry              Phrase = "DeathCry"
)

// phraseInfo carries the per-phrase flags: important phrases survive the
// minimal verbosity, and radio is the stock radio command used instead of
// voice in radio mode ("" means none).
type phraseInfo struct {
	important bool
	radio     string
}

var phraseTable = map[Phrase]phraseInfo{
	PhraseEnemySpotted:       {true, "enemy_spotted"},
	PhraseHelp:               {true, "need_backup"},
	PhraseInCombat:           {false, "taking_fire"},
	PhrasePinnedDown:         {true, "taking_fire"},
	PhraseSniperWarning:      {true, "enemy_spotted"},
	PhraseClear:              {false, "sector_clear"},
	PhraseRequestReport:      {true, "report_in"},
	PhraseEnemyDown:          {false, "enemy_down"},
	PhraseAffirmative:        {true, "affirmative"},
	PhraseNegative:           {true, "negative"},
	PhraseGoingToPlantBomb:   {true, "cover_me"},
	PhrasePlantingBomb:       {true, "cover_me"},
	PhraseDefusingBomb:       {true, "cover_me"},
	PhraseSpottedBomber:      {true, "enemy_spotted"},
	PhraseSpottedLooseBomb:   {true, ""},
	PhraseGuardingLooseBomb:  {true, "hold_position"},
	PhraseWhereIsTheBomb:     {true, ""},
	PhraseBombsiteClear:      {true, "sector_clear"},
	PhrasePlantedBombPlace:   {true, ""},
	PhraseHostagesBeingTaken: {true, ""},
	PhraseHostagesTaken:      {true, ""},
	PhraseHostageDown:        {true, ""},
	PhraseCoveringFriend:     {false, "affirmative"},
	PhraseOnMyWay:            {false, "affirmative"},
	PhraseDefendBombsite:     {false, "hold_position"},
	PhraseGuardHostages:      {false, "hold_position"},
	PhraseGuardingHostages:   {false, "hold_position"},
	PhraseEscortingHostages:  {false, "follow_me"},
}

// IsImportant reports whether p is mission-critical.
func (p Phrase) IsImportant() bool { return phraseTable[p].important }

// Radio returns the stock radio command for p.
func (p Phrase) Radio() string { return phraseTable[p].radio }

// --- Statements ---

// StatementType is the topic of a statement. Redundancy is judged per type.
type StatementType int

const (
	ReportVisibleEnemies StatementType = iota
	ReportEnemyAction
	ReportMyPlan
	ReportCriticalEvent
	ReportRequestHelp
	ReportRequestInformation
	ReportInformation
	ReportEmote
	ReportAcknowledge
	ReportEnemiesRemaining
	ReportRoundEnd
)

func (t StatementType) String() string {
	switch t {
	case ReportVisibleEnemies:
		return "visible_enemies"
	case ReportEnemyAction:
		return "enemy_action"
	case ReportMyPlan:
		return "my_plan"
	case ReportCriticalEvent:
		return "critical_event"
	case ReportRequestHelp:
		return "request_help"
	case ReportRequestInformation:
		return "request_information"
	case ReportInformation:
		return "information"
	case ReportEmote:
		return "emote"
	case ReportAcknowledge:
		return "acknowledge"
	case ReportEnemiesRemaining:
		return "enemies_remaining"
	case ReportRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// Context is a slot resolved at speaking time.
type Context int

const (
	ContextNone Context = iota
	CurrentEnemyCount
	RemainingEnemyCount
	ShortDelay
	LongDelay
	AccumulateEnemiesDelay
)

// Condition must hold for a statement to stay pending.
type Condition int

const (
	IsInCombat Condition = iota
	RadioSilence
	EnemiesRemaining
)

const (
	maxStatementSlots      = 4
	maxStatementConditions = 4
	placeRepeatInterval    = 20.0
	accumulateReportTime   = 2.0
	minEnemiesToNote       = 3
	phraseGap              = 0.1
	radioPhraseDuration    = 2.0
	neverTime              = 99999999.9
)

// Slot is one part of a statement: a phrase, a place name or a context.
type Slot struct {
	Phrase  Phrase
	Place   string
	Context Context
}

func (s Slot) isPhrase() bool { return s.Context == ContextNone }

// Statement is one queued utterance. Slots are spoken in order, and the
// attached meme is transmitted to teammates when the last slot finishes.
type Statement struct {
	owner *Chatter
	kind  StatementType

	subject world.Handle
	place   string

	slots [maxStatementSlots]Slot
	count int

	conditions [maxStatementConditions]Condition
	condCount  int

	meme Meme

	timestamp float64
	start     float64
	expire    float64

	speaking   bool
	speakStart float64
	index      int
	nextTime   float64
}

func newStatement(c *Chatter, kind StatementType, expireDuration float64) *Statement {
	now := c.now()
	return &Statement{
		owner:     c,
		kind:      kind,
		subject:   world.NoHandle,
		timestamp: now,
		start:     now,
		expire:    now + expireDuration,
		index:     -1,
	}
}

func (s *Statement) Type() StatementType       { return s.kind }
func (s *Statement) Owner() *Agent             { return s.owner.agent }
func (s *Statement) Subject() world.Handle     { return s.subject }
func (s *Statement) HasSubject() bool          { return s.subject.IsValid() }
func (s *Statement) StartTime() float64        { return s.start }
func (s *Statement) IsSpeaking() bool          { return s.speaking }
func (s *Statement) Meme() Meme                { return s.meme }
func (s *Statement) SetStartTime(t float64)    { s.start = t }
func (s *Statement) SetPlace(place string)     { s.place = place }
func (s *Statement) SetSubject(h world.Handle) { s.subject = h }
func (s *Statement) AttachMeme(m Meme)         { s.meme = m }

// Len is the number of slots.
func (s *Statement) Len() int { return s.count }

// Slots returns the filled slots.
func (s *Statement) Slots() []Slot { return s.slots[:s.count] }

// AppendPhrase adds a phrase slot. Extra slots are dropped.
func (s *Statement) AppendPhrase(p Phrase) {
	if p == "" || s.count >= maxStatementSlots {
		return
	}
	s.slots[s.count] = Slot{Phrase: p}
	s.count++
}

// AppendPlace adds a place-name slot.
func (s *Statement) AppendPlace(place string) {
	if place == "" || s.count >= maxStatementSlots {
		return
	}
	s.slots[s.count] = Slot{Place: place}
	s.count++
}

// AppendContext adds a context slot.
func (s *Statement) AppendContext(ctx Context) {
	if s.count >= maxStatementSlots {
		return
	}
	s.slots[s.count] = Slot{Context: ctx}
	s.count++
}

func (s *Statement) AddCondition(c Condition) {
	if s.condCount < maxStatementConditions {
		s.conditions[s.condCount] = c
		s.condCount++
	}
}

// Place returns the explicit place, else the first place slot.
func (s *Statement) Place() string {
	if s.place != "" {
		return s.place
	}
	for _, slot := range s.Slots() {
		if slot.Place != "" {
			return slot.Place
		}
	}
	return ""
}

func (s *Statement) HasPlace() bool { return s.Place() != "" }

// IsImportant is true when any phrase is important or the statement
// carries an enemy count.
func (s *Statement) IsImportant() bool {
	for _, slot := range s.Slots() {
		if slot.isPhrase() && slot.Phrase.IsImportant() {
			return true
		}
		if slot.Context == CurrentEnemyCount {
			return true
		}
	}
	return false
}

// IsValid checks the attached conditions.
func (s *Statement) IsValid() bool {
	me := s.owner.agent
	for _, c := range s.conditions[:s.condCount] {
		switch c {
		case IsInCombat:
			if !me.IsAttacking() {
				return false
			}
		case EnemiesRemaining:
			if me.EnemiesRemaining() == 0 {
				return false
			}
		}
	}
	return true
}

// IsRedundant reports whether s says the same thing as other: same type
// and the same place or subject. Plans, help requests, critical events and
// acknowledgements must also open with the same phrase.
func (s *Statement) IsRedundant(other *Statement) bool {
	if other.kind != s.kind {
		return false
	}
	switch s.kind {
	case ReportMyPlan, ReportRequestHelp, ReportCriticalEvent, ReportAcknowledge:
		if s.leadPhrase() != other.leadPhrase() {
			return false
		}
	}
	if !other.HasPlace() && !s.HasPlace() && !other.HasSubject() && !s.HasSubject() {
		return true
	}
	if other.HasPlace() && s.HasPlace() && other.Place() == s.Place() {
		return true
	}
	return other.HasSubject() && s.HasSubject() && other.subject == s.subject
}

func (s *Statement) leadPhrase() Phrase {
	for _, slot := range s.Slots() {
		if slot.Phrase != "" {
			return slot.Phrase
		}
	}
	return ""
}

// IsObsolete is true when the statement expired or the round ended.
func (s *Statement) IsObsolete() bool {
	me := s.owner.agent
	if me.gameState.IsRoundOver() && s.kind != ReportEmote {
		return true
	}
	return s.owner.now() > s.expire
}

// Convert turns a plan that matches a teammate's into "me too", or delays
// it when the same plan names another place.
func (s *Statement) Convert(other *Statement) {
	if s.kind != ReportMyPlan || other.kind != ReportMyPlan || s.count == 0 || other.count == 0 {
		return
	}
	if s.slots[0].Phrase == PhraseMeToo || s.slots[0].Phrase != other.slots[0].Phrase {
		return
	}
	rng := s.owner.agent.rng
	now := s.owner.now()
	if s.Place() == other.Place() {
		s.slots[0].Phrase = PhraseMeToo
		s.start = now + 0.5 + rng.Float64()*0.5
		return
	}
	s.start = now + 3 + rng.Float64()
}

// update speaks the statement one slot at a time. It returns false when
// the statement is finished.
func (s *Statement) update() bool {
	c := s.owner
	me := c.agent
	now := c.now()

	if me.FriendsRemaining() == 0 && s.kind != ReportEmote {
		return false
	}
	if !s.speaking {
		s.speaking = true
		s.speakStart = now
	}

	if s.index >= 0 && s.slots[s.index].Context == AccumulateEnemiesDelay {
		if me.NearbyEnemyCount() > minEnemiesToNote || now-s.speakStart > accumulateReportTime {
			s.nextTime = 0
		}
	}

	if now <= s.nextTime {
		return true
	}

	s.index++
	if s.index == s.count {
		if s.meme != nil {
			c.transmit(s.meme)
		}
		return false
	}

	slot := s.slots[s.index]
	phrase, place := slot.Phrase, slot.Place
	switch slot.Context {
	case CurrentEnemyCount:
		n := me.NearbyEnemyCount()
		switch {
		case n-1 > me.NearbyFriendCount():
			phrase = PhraseHelp
			s.meme = &HelpMeme{Place: me.place, Pos: me.me.Pos}
		case n > 1:
			phrase = PhraseEnemySpotted
		}
	case RemainingEnemyCount:
		names := [...]Phrase{PhraseNoEnemiesLeft, PhraseOneEnemyLeft, PhraseTwoEnemiesLeft, PhraseThreeEnemiesLeft}
		if n := me.EnemiesRemaining(); n >= 0 && n <= minEnemiesToNote {
			phrase = names[n]
		}
	case ShortDelay:
		s.nextTime = now + 0.1 + me.rng.Float64()*0.4
		return true
	case LongDelay:
		s.nextTime = now + 1 + me.rng.Float64()
		return true
	case AccumulateEnemiesDelay:
		s.nextTime = neverTime
		return true
	}

	if phrase == "" && place == "" {
		s.nextTime = 0
		return true
	}
	duration, spoke := c.speak(phrase, place, s.Place())
	if !spoke {
		s.nextTime = 0
		return true
	}
	s.nextTime = now + duration + phraseGap
	return true
}
