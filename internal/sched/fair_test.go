package sched

import "testing"

func TestFairPicksMinVruntime(t *testing.T) {
	f := NewFair()
	f.Init()

	a := NewTask("a", nil)
	b := NewTask("b", nil)
	f.AddTask(a)
	f.AddTask(b)

	cur := f.PickNextTask()
	if cur != a {
		t.Fatalf("Expected a first (insertion order on equal vruntime), got %s", cur.ID)
	}

	// Let a accrue runtime, then hand it back; b is now the fair choice.
	for i := 0; i < 3; i++ {
		f.TaskTick(cur)
	}
	f.PutPrevTask(cur, true)

	if got := f.PickNextTask(); got != b {
		t.Errorf("Expected b with lower vruntime, got %s", got.ID)
	}
}

func TestFairTickRequestsReschedule(t *testing.T) {
	f := NewFair()
	f.Init()

	a := NewTask("a", nil)
	f.AddTask(a)
	cur := f.PickNextTask()

	// Nothing else runnable: no reason to reschedule.
	if f.TaskTick(cur) {
		t.Error("Reschedule requested with an empty queue")
	}

	b := NewTask("b", nil)
	f.AddTask(b)
	if !f.TaskTick(cur) {
		t.Error("Expected reschedule once a lower-vruntime task is waiting")
	}
}

func TestFairNewArrivalDoesNotJumpQueue(t *testing.T) {
	f := NewFair()
	f.Init()

	a := NewTask("a", nil)
	f.AddTask(a)
	cur := f.PickNextTask()
	for i := 0; i < 5; i++ {
		f.TaskTick(cur)
	}
	f.PutPrevTask(cur, true)

	// A fresh task starts at the queue's minimum vruntime, so it must not
	// be picked ahead of the task that was already waiting there.
	c := NewTask("c", nil)
	f.AddTask(c)

	if got := f.PickNextTask(); got != a {
		t.Errorf("Expected waiting task a before new arrival, got %s", got.ID)
	}
}

func TestFairSetPriorityRange(t *testing.T) {
	f := NewFair()
	a := NewTask("a", nil)
	f.AddTask(a)

	if f.SetPriority(a, -21) {
		t.Error("Applied nice below -20")
	}
	if f.SetPriority(a, 20) {
		t.Error("Applied nice above 19")
	}
	if !f.SetPriority(a, -20) {
		t.Error("Rejected valid nice -20")
	}
	if !f.SetPriority(a, 19) {
		t.Error("Rejected valid nice 19")
	}
	if a.Nice() != 19 {
		t.Errorf("Expected nice 19, got %d", a.Nice())
	}
}

func TestFairNiceControlsShare(t *testing.T) {
	f := NewFair()
	f.Init()

	fast := NewTask("fast", nil)
	slow := NewTask("slow", nil)
	f.AddTask(fast)
	f.AddTask(slow)
	if !f.SetPriority(fast, -10) || !f.SetPriority(slow, 10) {
		t.Fatal("Failed to apply nice values")
	}

	ticks := map[*Task]int{}
	cur := f.PickNextTask()
	for i := 0; i < 2000; i++ {
		ticks[cur]++
		if f.TaskTick(cur) {
			f.PutPrevTask(cur, true)
			cur = f.PickNextTask()
		}
	}

	if ticks[fast] <= ticks[slow]*5 {
		t.Errorf("Expected nice -10 to dominate nice 10, got %d vs %d ticks", ticks[fast], ticks[slow])
	}
}

func TestFairRemoveTask(t *testing.T) {
	f := NewFair()
	f.Init()

	a := NewTask("a", nil)
	b := NewTask("b", nil)
	f.AddTask(a)
	f.AddTask(b)

	if got := f.RemoveTask(a); got != a {
		t.Fatalf("Expected to remove a, got %v", got)
	}
	if got := f.RemoveTask(a); got != nil {
		t.Errorf("Expected nil removing absent task, got %s", got.ID)
	}
	if got := f.PickNextTask(); got != b {
		t.Errorf("Expected b to survive removal, got %v", got)
	}
}
