package sched

// Policy is the single-core scheduling capability one hart's queue slot
// wraps. Implementations are not safe for concurrent use; the slot guard
// serializes all access. Any implementation satisfying this set is
// interchangeable, and the dispatcher never special-cases one.
type Policy interface {
	// Init prepares the policy for use. Called once, under the slot guard,
	// before any other method.
	Init()
	// AddTask inserts a newly runnable task into the queue.
	AddTask(t *Task)
	// RemoveTask removes t if present and returns it, or nil if t is not
	// in this queue.
	RemoveTask(t *Task) *Task
	// PickNextTask removes and returns the next task to run, or nil when
	// the queue is empty.
	PickNextTask() *Task
	// PutPrevTask returns a previously running task to the queue. preempt
	// reports whether the task was preempted rather than yielding.
	PutPrevTask(prev *Task, preempt bool)
	// TaskTick accounts one timer tick against the currently running task
	// and reports whether the policy wants a reschedule.
	TaskTick(current *Task) bool
	// SetPriority requests a priority change for a task in this queue and
	// reports whether the policy applied it.
	SetPriority(t *Task, prio int) bool
}
