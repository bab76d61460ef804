package sim

import (
	"fmt"

	"github.com/Garsondee/tacbot/internal/world"
)

// Standard returns the stock 2048x2048 map for kind with perTeam bots a
// side. Attackers spawn on the west edge, defenders on the east.
//
//	+--------------------------------+
//	|              ||     [site A]   |
//	| atk          ||                |
//	| atk   [ ]   door   [  ]    def |
//	| atk          ||                |
//	|              ||     [site B]   |
//	+--------------------------------+
func Standard(kind world.ScenarioKind, perTeam int) []SimOption {
	opts := []SimOption{
		WithMapSize(2048, 2048),
		WithScenario(kind),
		WithBuilding(500, 850, 220, 340),
		WithBuilding(1300, 900, 260, 260),
		// a wall through the middle with a door in it
		WithBuilding(1000, 150, 40, 650),
		WithBuilding(1000, 950, 40, 940),
		WithDoor(1000, 800, 40, 150),
	}

	switch kind {
	case world.ScenarioBomb:
		opts = append(opts,
			WithZone(world.ZoneBombsite, "BombsiteA", 1500, 250, 300, 300),
			WithZone(world.ZoneBombsite, "BombsiteB", 1500, 1500, 300, 300),
		)
	case world.ScenarioHostages:
		opts = append(opts,
			WithZone(world.ZoneRescue, "RescueZone", 40, 880, 260, 280),
			WithHostage(1800, 980),
			WithHostage(1800, 1070),
		)
	case world.ScenarioEscort:
		opts = append(opts,
			WithZone(world.ZoneEscape, "EscapeZone", 1860, 880, 160, 280),
		)
	}

	for i := 0; i < perTeam; i++ {
		y := 1024 + float64(i-perTeam/2)*70
		opts = append(opts,
			WithAgent(fmt.Sprintf("atk%d", i+1), world.TeamAttackers, 150, y),
			WithAgent(fmt.Sprintf("def%d", i+1), world.TeamDefenders, 1900, y),
		)
	}
	return opts
}
