package systems

import "time"

// maxStep caps the tick delta after a stall so integration stays stable.
const maxStep = 250 * time.Millisecond

// Clock carries the current tick's time to the systems. The loop advances it
// once per tick before updating the ECS.
type Clock struct {
	Now time.Time
	DT  float64 // seconds since the previous tick
}

func (c *Clock) Advance(now time.Time) {
	if !c.Now.IsZero() {
		step := now.Sub(c.Now)
		if step < 0 {
			step = 0
		}
		c.DT = min(step, maxStep).Seconds()
	}
	c.Now = now
}
