// Package sched defines the per-hart scheduling policy capability and the
// task handle it operates on.
package sched

// Task is the unit of scheduling. A task is owned by exactly one queue at a
// time, or by the hart currently running it, or is in transit during a
// pick/put call. Ownership is enforced by the slot guards around each queue,
// not by the task itself.
type Task struct {
	ID      string
	Payload any

	// Policy bookkeeping. Only the queue that currently owns the task
	// touches these fields.
	slice    int
	vruntime int64
	nice     int
	seq      uint64
}

// NewTask creates a task handle carrying an opaque payload.
func NewTask(id string, payload any) *Task {
	return &Task{ID: id, Payload: payload}
}

// Nice returns the task's current nice value. Meaningful only under the
// fair policy.
func (t *Task) Nice() int {
	return t.nice
}
