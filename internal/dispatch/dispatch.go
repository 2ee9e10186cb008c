// Package dispatch composes N independently guarded per-hart queues into an
// SMP scheduler with opportunistic work stealing.
//
// Every operation resolves the calling hart's identity first and works on
// that hart's own slot. Only PickNextTask ever looks across hart boundaries,
// and it probes remote slots with a non-blocking TryLock so a stalled hart
// can never freeze another hart's search for work. The steal scan runs in
// fixed ascending index order; low-index harts are probed first on every
// scan. Rotating or randomizing the start point would spread the probes but
// is an intentional non-feature here.
package dispatch

import (
	"fmt"

	"github.com/fentz26/hartsched/internal/hart"
	"github.com/fentz26/hartsched/internal/lock"
	"github.com/fentz26/hartsched/internal/sched"
)

// slot pairs one guard with one per-hart policy instance. The policy is
// touched only while the guard is held.
type slot struct {
	guard  lock.Locker
	policy sched.Policy
}

// Dispatcher routes tasks to per-hart queues and serves picks local-first
// with a steal scan as fallback. The slot array is fixed at construction;
// slot index equals hart identity.
type Dispatcher struct {
	slots    []slot
	identity hart.Identity
	// initialized is written once by Init before any other operation may
	// run; racing Init with other operations is a contract violation.
	initialized bool
}

// New builds a dispatcher over the given policies, one per hart, so the
// hart count is len(policies). newGuard is invoked once per slot. identity
// is consulted on every subsequent operation.
func New(policies []sched.Policy, newGuard func() lock.Locker, identity hart.Identity) *Dispatcher {
	if len(policies) == 0 {
		panic("dispatch: need at least one hart")
	}
	if identity == nil {
		panic("dispatch: nil identity capability")
	}
	slots := make([]slot, len(policies))
	for i, p := range policies {
		if p == nil {
			panic(fmt.Sprintf("dispatch: nil policy for hart %d", i))
		}
		slots[i] = slot{guard: newGuard(), policy: p}
	}
	return &Dispatcher{slots: slots, identity: identity}
}

// Harts returns the number of harts the dispatcher was built for.
func (d *Dispatcher) Harts() int {
	return len(d.slots)
}

// Init locks and initializes every slot's policy. Must complete before any
// other operation is called.
func (d *Dispatcher) Init() {
	for i := range d.slots {
		s := &d.slots[i]
		s.guard.Lock()
		s.policy.Init()
		s.guard.Unlock()
	}
	d.initialized = true
}

// self resolves and validates the calling hart's identity. An identity
// outside [0, N) or a call before Init indicates a caller bug that would
// corrupt scheduling invariants, so it fails fast.
func (d *Dispatcher) self() int {
	if !d.initialized {
		panic("dispatch: operation before Init")
	}
	id := d.identity()
	if id < 0 || id >= len(d.slots) {
		panic(fmt.Sprintf("dispatch: hart id %d out of range [0, %d)", id, len(d.slots)))
	}
	return id
}

// AddTask inserts task into the calling hart's own queue. A task is always
// born on its creator's hart; there is no placement-time balancing.
func (d *Dispatcher) AddTask(t *sched.Task) {
	s := &d.slots[d.self()]
	s.guard.Lock()
	defer s.guard.Unlock()
	s.policy.AddTask(t)
}

// RemoveTask removes t from the calling hart's own queue and returns it, or
// nil if it is not there. Other harts' queues are never searched; a task
// that was stolen away or is running elsewhere reports nil, and callers
// needing global removal must track task location themselves.
func (d *Dispatcher) RemoveTask(t *sched.Task) *sched.Task {
	s := &d.slots[d.self()]
	s.guard.Lock()
	defer s.guard.Unlock()
	return s.policy.RemoveTask(t)
}

// PickNextTask returns the next task for the calling hart, or nil when
// nothing is runnable. The local queue is consulted first; if it yields a
// task no stealing is attempted. Otherwise every other slot is probed
// exactly once, ascending, with a non-blocking TryLock: a contended victim
// is skipped rather than waited on, and the first task found is returned.
func (d *Dispatcher) PickNextTask() *sched.Task {
	self := d.self()

	local := &d.slots[self]
	local.guard.Lock()
	t := local.policy.PickNextTask()
	local.guard.Unlock()
	if t != nil {
		return t
	}

	for i := range d.slots {
		if i == self {
			continue
		}
		victim := &d.slots[i]
		if !victim.guard.TryLock() {
			continue
		}
		t = victim.policy.PickNextTask()
		victim.guard.Unlock()
		if t != nil {
			return t
		}
	}
	return nil
}

// PutPrevTask returns a previously running task to the calling hart's own
// queue. preempt reports whether the task was preempted rather than
// yielding; what that means for ordering is up to the policy.
func (d *Dispatcher) PutPrevTask(prev *sched.Task, preempt bool) {
	s := &d.slots[d.self()]
	s.guard.Lock()
	defer s.guard.Unlock()
	s.policy.PutPrevTask(prev, preempt)
}

// TaskTick forwards a timer tick for the hart's currently running task to
// the local policy and reports whether it wants a reschedule.
func (d *Dispatcher) TaskTick(current *sched.Task) bool {
	s := &d.slots[d.self()]
	s.guard.Lock()
	defer s.guard.Unlock()
	return s.policy.TaskTick(current)
}

// SetPriority forwards a priority change for a task in the calling hart's
// queue and reports whether the policy applied it.
func (d *Dispatcher) SetPriority(t *sched.Task, prio int) bool {
	s := &d.slots[d.self()]
	s.guard.Lock()
	defer s.guard.Unlock()
	return s.policy.SetPriority(t, prio)
}
