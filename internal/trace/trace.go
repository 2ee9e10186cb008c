// Package trace records dispatch decisions for post-hoc inspection.
package trace

import (
	"log"

	"github.com/fentz26/hartsched/internal/store"
)

// Actions recorded by the simulator.
const (
	ActionAdd       = "task.add"
	ActionRemove    = "task.remove"
	ActionPickLocal = "pick.local"
	ActionPickSteal = "pick.steal"
	ActionPickNone  = "pick.none"
	ActionPutPrev   = "task.put_prev"
	ActionDone      = "task.done"
)

// NoVictim is the victim value for actions that did not steal.
const NoVictim = -1

// Recorder sinks dispatch events. Implementations must be safe for
// concurrent use from multiple harts.
type Recorder interface {
	Record(action string, hartID int, taskID string, victim int, details string)
}

// StoreRecorder persists events through a Store. The store serializes
// writers internally, so one recorder can be shared by all harts.
type StoreRecorder struct {
	store *store.Store
}

// NewStoreRecorder creates a recorder backed by s.
func NewStoreRecorder(s *store.Store) *StoreRecorder {
	return &StoreRecorder{store: s}
}

// Record writes one event. A write failure is logged and dropped; tracing
// must never take down the scheduler it observes.
func (r *StoreRecorder) Record(action string, hartID int, taskID string, victim int, details string) {
	if _, err := r.store.WriteEvent(action, hartID, taskID, victim, details); err != nil {
		log.Printf("trace: write event: %v", err)
	}
}

// Nop discards all events.
type Nop struct{}

func (Nop) Record(action string, hartID int, taskID string, victim int, details string) {}
