package bot

import "github.com/Garsondee/tacbot/internal/geom"

const (
	stuckSamples     = 10
	stuckSpeed       = 10.0 // units per second
	stuckAfter       = 0.5
	wiggleDuration   = 3.0
	wiggleSwitchTime = 0.5
	stillSpeed       = 5.0
)

// stuckMonitor averages recent speeds while we want to move.
type stuckMonitor struct {
	speeds  [stuckSamples]float64
	count   int
	next    int
	lastPos geom.Vec3
	hasLast bool

	slowSince float64
	slow      bool
	isStuck   bool
	stuckAt   float64

	stillSince float64
	still      bool

	wiggleUntil float64
	wiggleLeft  bool
}

func (s *stuckMonitor) reset() {
	*s = stuckMonitor{}
}

// sample records the speed since the last tick.
func (s *stuckMonitor) sample(a *Agent, dt float64) {
	now := a.now()
	p := a.me.Pos
	if !s.hasLast || dt <= 0 {
		s.lastPos = p
		s.hasLast = true
		return
	}
	speed := p.Dist2D(s.lastPos) / dt
	s.lastPos = p

	if speed < stillSpeed {
		if !s.still {
			s.still = true
			s.stillSince = now
		}
	} else {
		s.still = false
	}

	if a.move.dir.Len2D() == 0 {
		// standing still on purpose is not being stuck
		s.count, s.next = 0, 0
		s.slow = false
		return
	}

	s.speeds[s.next] = speed
	s.next = (s.next + 1) % stuckSamples
	if s.count < stuckSamples {
		s.count++
	}
	if s.count < stuckSamples {
		return
	}
	avg := 0.0
	for _, v := range s.speeds {
		avg += v
	}
	avg /= stuckSamples

	switch {
	case avg < stuckSpeed:
		if !s.slow {
			s.slow = true
			s.slowSince = now
		}
		if !s.isStuck && now-s.slowSince >= stuckAfter {
			s.isStuck = true
			s.stuckAt = now
			a.think("stuck")
		}
	case avg > 2*stuckSpeed:
		s.slow = false
		s.isStuck = false
	}
}

func (s *stuckMonitor) stuckFor(now float64) float64 {
	if !s.isStuck {
		return 0
	}
	return now - s.stuckAt
}

func (s *stuckMonitor) stillFor(now float64) float64 {
	if !s.still {
		return 0
	}
	return now - s.stillSince
}

// IsStuck reports whether movement stopped making progress.
func (a *Agent) IsStuck() bool { return a.stuck.isStuck }

// ResetStuckMonitor forgets the collected samples.
func (a *Agent) ResetStuckMonitor() {
	still, since := a.stuck.still, a.stuck.stillSince
	a.stuck.reset()
	a.stuck.still, a.stuck.stillSince = still, since
}

// wiggle strafes randomly and sometimes jumps to work free.
func (a *Agent) wiggle() {
	now := a.now()
	if now >= a.stuck.wiggleUntil {
		a.stuck.wiggleLeft = a.rng.Intn(2) == 0
		a.stuck.wiggleUntil = now + wiggleSwitchTime
	}
	dir := a.move.dir
	side := geom.V(-dir.Y, dir.X, 0)
	if !a.stuck.wiggleLeft {
		side = side.Scale(-1)
	}
	a.move.dir = dir.Add(side).Normalize()
	if a.rng.Float64() < 0.2 {
		a.Jump()
	}
}
