package sim

import (
	"path/filepath"
	"testing"

	"github.com/fentz26/hartsched/internal/store"
	"github.com/fentz26/hartsched/internal/trace"
)

func TestSimDrainsFIFO(t *testing.T) {
	cfg := &Config{Harts: 4, Tasks: 40, Policy: PolicyFIFO, WorkTicks: 3, Seed: 1}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create sim: %v", err)
	}

	s.Run()

	if got := s.Remaining(); got != 0 {
		t.Errorf("Expected 0 remaining tasks, got %d", got)
	}

	var seeded, picked, completed int
	for _, h := range s.Stats() {
		seeded += h.Seeded
		picked += h.Picked
		completed += h.Completed
	}
	if seeded != cfg.Tasks {
		t.Errorf("Expected %d seeded tasks, got %d", cfg.Tasks, seeded)
	}
	if completed != cfg.Tasks {
		t.Errorf("Expected %d completed tasks, got %d", cfg.Tasks, completed)
	}
	// FIFO never requests a reschedule, so every pick runs to completion.
	if picked != completed {
		t.Errorf("Expected picks (%d) to equal completions (%d) under FIFO", picked, completed)
	}
}

func TestSimRoundRobinRequeues(t *testing.T) {
	// Slice shorter than the work means every task gets preempted and
	// requeued at least once.
	cfg := &Config{Harts: 2, Tasks: 10, Policy: PolicyRR, TimeSlice: 2, WorkTicks: 6, Seed: 1}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create sim: %v", err)
	}

	s.Run()

	var requeues, completed int
	for _, h := range s.Stats() {
		requeues += h.Requeues
		completed += h.Completed
	}
	if completed != cfg.Tasks {
		t.Errorf("Expected %d completed tasks, got %d", cfg.Tasks, completed)
	}
	if requeues == 0 {
		t.Error("Expected preemption requeues with slice < work")
	}
}

func TestSimFairCompletes(t *testing.T) {
	cfg := &Config{Harts: 2, Tasks: 16, Policy: PolicyFair, WorkTicks: 4, Seed: 7}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create sim: %v", err)
	}

	s.Run()

	var completed int
	for _, h := range s.Stats() {
		completed += h.Completed
	}
	if completed != cfg.Tasks {
		t.Errorf("Expected %d completed tasks, got %d", cfg.Tasks, completed)
	}
}

func TestSimCancel(t *testing.T) {
	cfg := &Config{Harts: 2, Tasks: 12, Policy: PolicyFIFO, WorkTicks: 2, Cancel: 2, Seed: 1}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create sim: %v", err)
	}

	s.Run()

	var canceled, completed int
	for _, h := range s.Stats() {
		canceled += h.Canceled
		completed += h.Completed
	}
	if canceled != 4 {
		t.Errorf("Expected 4 canceled tasks, got %d", canceled)
	}
	if completed != cfg.Tasks-canceled {
		t.Errorf("Expected %d completed tasks, got %d", cfg.Tasks-canceled, completed)
	}
}

func TestSimRecordsTrace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer st.Close()

	cfg := &Config{Harts: 2, Tasks: 8, Policy: PolicyFIFO, WorkTicks: 2, Seed: 1}
	s, err := New(cfg, trace.NewStoreRecorder(st))
	if err != nil {
		t.Fatalf("Failed to create sim: %v", err)
	}

	s.Run()

	counts, err := st.CountByAction()
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if counts[trace.ActionAdd] != cfg.Tasks {
		t.Errorf("Expected %d add events, got %d", cfg.Tasks, counts[trace.ActionAdd])
	}
	if counts[trace.ActionDone] != cfg.Tasks {
		t.Errorf("Expected %d done events, got %d", cfg.Tasks, counts[trace.ActionDone])
	}
	picks := counts[trace.ActionPickLocal] + counts[trace.ActionPickSteal]
	if picks != cfg.Tasks {
		t.Errorf("Expected %d pick events under FIFO, got %d", cfg.Tasks, picks)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}

	bad := []*Config{
		{Harts: 0, Tasks: 1, Policy: PolicyFIFO, WorkTicks: 1},
		{Harts: 1, Tasks: -1, Policy: PolicyFIFO, WorkTicks: 1},
		{Harts: 1, Tasks: 1, Policy: PolicyFIFO, WorkTicks: 0},
		{Harts: 1, Tasks: 1, Policy: "lottery", WorkTicks: 1},
		{Harts: 1, Tasks: 1, Policy: PolicyFIFO, WorkTicks: 1, Cancel: -1},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Config %d validated unexpectedly", i)
		}
	}
}
