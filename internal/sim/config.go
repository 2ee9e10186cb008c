// Package sim drives a dispatcher with one goroutine per hart: every hart
// seeds its share of a synthetic workload, then drains tasks through
// pick/tick/put-prev until nothing is left, stealing across harts as local
// queues empty out.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/fentz26/hartsched/internal/sched"
)

// Policy names accepted by Config.
const (
	PolicyFIFO = "fifo"
	PolicyRR   = "rr"
	PolicyFair = "fair"
)

// ErrUnknownPolicy is returned for policy names Config does not know.
var ErrUnknownPolicy = errors.New("unknown policy")

// Config defines the simulation workload.
type Config struct {
	// Harts is the number of concurrent harts (one goroutine each).
	Harts int
	// Tasks is the total number of tasks, spread round-robin over harts.
	Tasks int
	// Policy selects the per-hart policy: fifo, rr or fair.
	Policy string
	// TimeSlice is the rr time-slice budget in ticks.
	TimeSlice int
	// WorkTicks is how many ticks of work each task needs.
	WorkTicks int
	// Cancel is how many of its own seeded tasks each hart removes again
	// before draining starts.
	Cancel int
	// TickInterval optionally slows each tick down, to make runs watchable.
	TickInterval time.Duration
	// Seed feeds the per-hart RNG used for nice values under the fair policy.
	Seed int64
}

// DefaultConfig returns the default simulation configuration.
func DefaultConfig() *Config {
	return &Config{
		Harts:     4,
		Tasks:     64,
		Policy:    PolicyFIFO,
		TimeSlice: 5,
		WorkTicks: 8,
		Seed:      1,
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Harts <= 0 {
		return fmt.Errorf("harts must be positive, got %d", c.Harts)
	}
	if c.Tasks < 0 {
		return fmt.Errorf("tasks must not be negative, got %d", c.Tasks)
	}
	if c.WorkTicks <= 0 {
		return fmt.Errorf("work ticks must be positive, got %d", c.WorkTicks)
	}
	if c.Cancel < 0 {
		return fmt.Errorf("cancel must not be negative, got %d", c.Cancel)
	}
	switch c.Policy {
	case PolicyFIFO, PolicyRR, PolicyFair:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy)
	}
	return nil
}

// policies builds one policy instance per hart.
func (c *Config) policies() []sched.Policy {
	ps := make([]sched.Policy, c.Harts)
	for i := range ps {
		switch c.Policy {
		case PolicyRR:
			ps[i] = sched.NewRoundRobin(c.TimeSlice)
		case PolicyFair:
			ps[i] = sched.NewFair()
		default:
			ps[i] = sched.NewFIFO()
		}
	}
	return ps
}
