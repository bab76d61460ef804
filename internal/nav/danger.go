package nav

import "github.com/Garsondee/tacbot/internal/world"

const (
	DangerMax          = 100.0       // cap on the danger accumulated in one area
	DefaultDangerDecay = 1.0 / 120.0 // one death drains away in two minutes
)

// DangerMap is a per-team danger value for each area. Danger rises where
// teammates die and drains back to zero over time.
type DangerMap struct {
	decayPerSecond float64
	teams          map[world.Team]map[AreaID]float64
}

// NewDangerMap returns an empty map draining decayPerSecond each second.
func NewDangerMap(decayPerSecond float64) *DangerMap {
	return &DangerMap{
		decayPerSecond: decayPerSecond,
		teams:          make(map[world.Team]map[AreaID]float64),
	}
}

// Increase adds amount to the area for team, clamped to [0, DangerMax].
func (d *DangerMap) Increase(id AreaID, team world.Team, amount float64) {
	layer, ok := d.teams[team]
	if !ok {
		layer = make(map[AreaID]float64)
		d.teams[team] = layer
	}
	v := layer[id] + amount
	if v > DangerMax {
		v = DangerMax
	}
	if v <= 0 {
		delete(layer, id)
		return
	}
	layer[id] = v
}

// Danger returns the current danger of an area for team.
func (d *DangerMap) Danger(id AreaID, team world.Team) float64 {
	return d.teams[team][id]
}

// Decay drains every area by dt seconds worth of decay.
func (d *DangerMap) Decay(dt float64) {
	drop := d.decayPerSecond * dt
	if drop <= 0 {
		return
	}
	for _, layer := range d.teams {
		for id, v := range layer {
			v -= drop
			if v <= 0 {
				delete(layer, id)
				continue
			}
			layer[id] = v
		}
	}
}

// SetDecay changes the drain rate.
func (d *DangerMap) SetDecay(perSecond float64) { d.decayPerSecond = perSecond }

// Reset clears every team.
func (d *DangerMap) Reset() {
	d.teams = make(map[world.Team]map[AreaID]float64)
}
