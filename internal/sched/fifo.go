package sched

// FIFO is the simplest policy: tasks run in arrival order, ticks never
// request a reschedule, and priorities are not supported.
type FIFO struct {
	queue []*Task
}

// NewFIFO creates an empty FIFO policy.
func NewFIFO() *FIFO {
	return &FIFO{}
}

func (f *FIFO) Init() {}

func (f *FIFO) AddTask(t *Task) {
	f.queue = append(f.queue, t)
}

func (f *FIFO) RemoveTask(t *Task) *Task {
	for i, q := range f.queue {
		if q == t {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return t
		}
	}
	return nil
}

func (f *FIFO) PickNextTask() *Task {
	if len(f.queue) == 0 {
		return nil
	}
	t := f.queue[0]
	f.queue = f.queue[1:]
	return t
}

func (f *FIFO) PutPrevTask(prev *Task, preempt bool) {
	f.queue = append(f.queue, prev)
}

func (f *FIFO) TaskTick(current *Task) bool {
	return false
}

func (f *FIFO) SetPriority(t *Task, prio int) bool {
	return false
}
