package sched

// RoundRobin runs tasks in arrival order with a fixed time-slice budget.
// A preempted task with budget remaining goes back to the front of the
// queue; otherwise the budget resets and the task goes to the back.
type RoundRobin struct {
	queue    []*Task
	maxSlice int
}

// NewRoundRobin creates an empty round-robin policy with the given
// time-slice budget in ticks.
func NewRoundRobin(maxSlice int) *RoundRobin {
	if maxSlice <= 0 {
		maxSlice = 1
	}
	return &RoundRobin{maxSlice: maxSlice}
}

func (r *RoundRobin) Init() {}

func (r *RoundRobin) AddTask(t *Task) {
	t.slice = r.maxSlice
	r.queue = append(r.queue, t)
}

func (r *RoundRobin) RemoveTask(t *Task) *Task {
	for i, q := range r.queue {
		if q == t {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return t
		}
	}
	return nil
}

func (r *RoundRobin) PickNextTask() *Task {
	if len(r.queue) == 0 {
		return nil
	}
	t := r.queue[0]
	r.queue = r.queue[1:]
	return t
}

func (r *RoundRobin) PutPrevTask(prev *Task, preempt bool) {
	if preempt && prev.slice > 0 {
		r.queue = append([]*Task{prev}, r.queue...)
		return
	}
	prev.slice = r.maxSlice
	r.queue = append(r.queue, prev)
}

func (r *RoundRobin) TaskTick(current *Task) bool {
	current.slice--
	return current.slice <= 0
}

func (r *RoundRobin) SetPriority(t *Task, prio int) bool {
	return false
}
