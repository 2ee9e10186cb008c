package sim

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fentz26/hartsched/internal/dispatch"
	"github.com/fentz26/hartsched/internal/hart"
	"github.com/fentz26/hartsched/internal/lock"
	"github.com/fentz26/hartsched/internal/sched"
	"github.com/fentz26/hartsched/internal/trace"
	"github.com/google/uuid"
)

// HartStats counts what one hart did during a run.
type HartStats struct {
	Seeded    int // tasks born on this hart
	Canceled  int // seeded tasks removed again before draining
	Picked    int // successful picks, local and stolen
	Stolen    int // picks satisfied from a remote queue
	Idle      int // picks that found nothing anywhere
	Requeues  int // put-prev after the policy requested a reschedule
	Completed int // tasks this hart ran to completion
}

// workItem is the task payload: the amount of simulated work left.
type workItem struct {
	ticks int
}

// Sim owns one dispatcher and the harts driving it.
type Sim struct {
	cfg  *Config
	disp *dispatch.Dispatcher
	reg  *hart.Registry
	rec  trace.Recorder

	mu       sync.Mutex
	location map[string]int // task ID -> hart whose queue last owned it
	stats    []HartStats

	remaining atomic.Int64
	seeded    sync.WaitGroup
	wg        sync.WaitGroup
	started   bool
}

// New validates cfg and builds a simulation around a fresh dispatcher. A nil
// recorder disables tracing.
func New(cfg *Config, rec trace.Recorder) (*Sim, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = trace.Nop{}
	}

	reg := hart.NewRegistry()
	disp := dispatch.New(cfg.policies(), func() lock.Locker { return &lock.SpinLock{} }, reg.Identity())
	disp.Init()

	return &Sim{
		cfg:      cfg,
		disp:     disp,
		reg:      reg,
		rec:      rec,
		location: make(map[string]int),
		stats:    make([]HartStats, cfg.Harts),
	}, nil
}

// Start launches one goroutine per hart. Call Wait to block until the
// workload drains.
func (s *Sim) Start() {
	if s.started {
		return
	}
	s.started = true

	s.remaining.Store(int64(s.cfg.Tasks))
	s.seeded.Add(s.cfg.Harts)
	s.wg.Add(s.cfg.Harts)
	for i := 0; i < s.cfg.Harts; i++ {
		go s.hartLoop(i)
	}
}

// Wait blocks until every hart has exited.
func (s *Sim) Wait() {
	s.wg.Wait()
}

// Run executes the whole simulation and blocks until it drains.
func (s *Sim) Run() {
	s.Start()
	s.Wait()
}

// Remaining reports how many tasks have not yet completed or been canceled.
func (s *Sim) Remaining() int {
	return int(s.remaining.Load())
}

// Harts returns the configured hart count.
func (s *Sim) Harts() int {
	return s.cfg.Harts
}

// Stats returns a snapshot of the per-hart counters.
func (s *Sim) Stats() []HartStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HartStats(nil), s.stats...)
}

func (s *Sim) bump(id int, fn func(*HartStats)) {
	s.mu.Lock()
	fn(&s.stats[id])
	s.mu.Unlock()
}

func (s *Sim) setLocation(taskID string, hartID int) {
	s.mu.Lock()
	s.location[taskID] = hartID
	s.mu.Unlock()
}

func (s *Sim) locationOf(taskID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location[taskID]
}

// hartLoop is one hart: bind identity, seed, then drain.
func (s *Sim) hartLoop(id int) {
	defer s.wg.Done()
	unbind := s.reg.Bind(id)
	defer unbind()

	rng := rand.New(rand.NewSource(s.cfg.Seed + int64(id)))

	// Seed this hart's share of the workload. Tasks are always born on
	// their creator's hart.
	var mine []*sched.Task
	for n := id; n < s.cfg.Tasks; n += s.cfg.Harts {
		t := sched.NewTask(uuid.New().String(), &workItem{ticks: s.cfg.WorkTicks})
		s.disp.AddTask(t)
		if s.cfg.Policy == PolicyFair {
			s.disp.SetPriority(t, rng.Intn(40)-20)
		}
		s.setLocation(t.ID, id)
		s.rec.Record(trace.ActionAdd, id, t.ID, trace.NoVictim, "")
		s.bump(id, func(h *HartStats) { h.Seeded++ })
		mine = append(mine, t)
	}

	// Cancel the requested number of this hart's own tasks while they are
	// still guaranteed to sit in its local queue.
	for i := 0; i < s.cfg.Cancel && i < len(mine); i++ {
		if s.disp.RemoveTask(mine[i]) == nil {
			continue
		}
		s.remaining.Add(-1)
		s.rec.Record(trace.ActionRemove, id, mine[i].ID, trace.NoVictim, "canceled")
		s.bump(id, func(h *HartStats) { h.Canceled++ })
	}

	// Everyone finishes seeding before anyone starts draining, so steals
	// cannot race task creation.
	s.seeded.Done()
	s.seeded.Wait()

drain:
	for s.remaining.Load() > 0 {
		t := s.disp.PickNextTask()
		if t == nil {
			s.rec.Record(trace.ActionPickNone, id, "", trace.NoVictim, "")
			s.bump(id, func(h *HartStats) { h.Idle++ })
			runtime.Gosched()
			continue
		}

		from := s.locationOf(t.ID)
		if from == id {
			s.rec.Record(trace.ActionPickLocal, id, t.ID, trace.NoVictim, "")
		} else {
			s.rec.Record(trace.ActionPickSteal, id, t.ID, from, "")
		}
		s.bump(id, func(h *HartStats) {
			h.Picked++
			if from != id {
				h.Stolen++
			}
		})

		w := t.Payload.(*workItem)
		for w.ticks > 0 {
			w.ticks--
			if s.cfg.TickInterval > 0 {
				time.Sleep(s.cfg.TickInterval)
			}
			if s.disp.TaskTick(t) && w.ticks > 0 {
				// Time slice expired with work left: hand the task
				// back to our own queue and pick again.
				s.disp.PutPrevTask(t, true)
				s.setLocation(t.ID, id)
				s.rec.Record(trace.ActionPutPrev, id, t.ID, trace.NoVictim, "preempted")
				s.bump(id, func(h *HartStats) { h.Requeues++ })
				continue drain
			}
		}

		s.remaining.Add(-1)
		s.rec.Record(trace.ActionDone, id, t.ID, trace.NoVictim, "")
		s.bump(id, func(h *HartStats) { h.Completed++ })
	}
}
