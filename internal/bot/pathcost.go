package bot

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/Garsondee/tacbot/internal/nav"
	"github.com/Garsondee/tacbot/internal/world"
)

const (
	fastestCrouchPenalty = 20.0
	safestCrouchPenalty  = 5.0
	escortCrouchFactor   = 3.0
	jumpPenalty          = 1.0
	damagingPenalty      = 100.0
	avoidPenalty         = 20.0
	deathFallMargin      = 10.0
	costPerFriendPerUnit = 50000.0
	jitterModulus        = 293
	baseDangerFactor     = 100.0

	// DefaultJitterBucket is how long one route jitter pattern stays stable.
	DefaultJitterBucket = 10.0
)

// FallDamage estimates the damage taken by dropping height units.
func FallDamage(height float64) float64 {
	const slope = 0.2178
	const intercept = 26.0
	return math.Max(0, slope*height-intercept)
}

// PathCost is the edge cost model handed to the graph search. The zero
// value is not usable; build one with Agent.pathCost or fill every field.
type PathCost struct {
	Graph             nav.Graph
	Route             RouteType
	Team              world.Team
	AgentIndex        uint64
	Health            float64
	Aggression        float64
	Attacking         bool
	EscortingHostages bool
	Danger            *nav.DangerMap
	// Occupancy counts teammates standing in an area. Nil means nobody.
	Occupancy    func(id nav.AreaID, team world.Team) int
	Now          float64
	JitterBucket float64
}

func (c *PathCost) dangerFactor() float64 {
	return (1 - 0.95*c.Aggression) * baseDangerFactor
}

func (c *PathCost) danger(id nav.AreaID) float64 {
	if c.Danger == nil {
		return 0
	}
	return c.Danger.Danger(id, c.Team)
}

// EdgeCost is a nav.CostFunc. It returns the incremental cost of entering
// to from from, or -1 when the move is not allowed.
func (c *PathCost) EdgeCost(to, from *nav.Area, ladder *nav.Ladder, length float64) float64 {
	if from == nil {
		if c.Route == FastestRoute {
			return 0
		}
		return c.dangerFactor() * c.danger(to.ID)
	}

	// jump areas cannot be walked through
	if from.Has(nav.AttrJump) && to.Has(nav.AttrJump) {
		return -1
	}
	if to.Has(nav.AttrNoHostages) && c.EscortingHostages {
		return -1
	}

	dist := length
	cost := dist

	if !c.connected(to, from) {
		// one way drop
		fall := from.Center().Z - to.Center().Z
		if ladder != nil && ladder.Bottom.Z < from.Center().Z && ladder.Bottom.Z > to.Center().Z {
			fall = ladder.Bottom.Z - to.Center().Z
		}
		if damage := FallDamage(fall); damage > 0 {
			if damage+deathFallMargin >= c.Health {
				return -1
			}
			painTolerance := 15*c.Aggression + 10
			if c.Route != FastestRoute || damage > painTolerance {
				cost += 100 * damage * damage
			}
		}
	}

	if to.Attrs&(nav.AttrCrouch|nav.AttrWalk) != 0 {
		penalty := safestCrouchPenalty
		if c.Route == FastestRoute {
			penalty = fastestCrouchPenalty
		}
		if to.Has(nav.AttrCrouch) && c.EscortingHostages {
			penalty *= escortCrouchFactor
		}
		cost += penalty * dist
	}
	if to.Has(nav.AttrJump) {
		cost += jumpPenalty * dist
	}
	if to.Has(nav.AttrDamaging) {
		cost += damagingPenalty * dist
	}
	if to.Has(nav.AttrAvoid) {
		cost += avoidPenalty * dist
	}

	if c.Route == SafestRoute {
		cost += dist + dist*c.dangerFactor()*c.danger(to.ID)
	}

	cost += 1 + float64(c.jitter(to.ID))

	if !c.Attacking && c.Occupancy != nil {
		size := (to.SizeX() + to.SizeY()) / 2
		if size >= 1 {
			cost += costPerFriendPerUnit * float64(c.Occupancy(to.ID, c.Team)) / size
		}
	}
	return cost
}

func (c *PathCost) connected(to, from *nav.Area) bool {
	if c.Graph == nil {
		return true
	}
	for _, conn := range c.Graph.Connections(to.ID) {
		if conn.To == from.ID {
			return true
		}
	}
	return false
}

// jitter is stable for one agent, one area and one time bucket, so equal
// cost routes diverge between bots without flickering on repath.
func (c *PathCost) jitter(id nav.AreaID) uint64 {
	bucket := c.JitterBucket
	if bucket <= 0 {
		bucket = DefaultJitterBucket
	}
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], c.AgentIndex)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(id))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(int64(c.Now/bucket)+1))
	return xxhash.Sum64(buf[:]) % jitterModulus
}
