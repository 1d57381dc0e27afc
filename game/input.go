package game

import (
	"math"
	"time"
)

// CircleInput steers in a slow circle and fires at a fixed period. It
// stands in for device input on headless clients.
type CircleInput struct {
	start       time.Time
	Period      time.Duration // one full circle
	ShootPeriod time.Duration // zero disables shooting
}

func NewCircleInput(start time.Time) *CircleInput {
	return &CircleInput{
		start:       start,
		Period:      8 * time.Second,
		ShootPeriod: time.Second,
	}
}

func (c *CircleInput) Poll(now time.Time) (dx, dy float64, shoot bool) {
	elapsed := now.Sub(c.start)
	phase := 2 * math.Pi * float64(elapsed) / float64(c.Period)
	dx, dy = math.Cos(phase), math.Sin(phase)
	if c.ShootPeriod > 0 {
		shoot = elapsed%c.ShootPeriod < c.ShootPeriod/10
	}
	return dx, dy, shoot
}
