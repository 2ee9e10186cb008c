package sched

import "container/heap"

// nice0Weight is the load weight of a nice-0 task.
const nice0Weight = 1024

// niceToWeight maps nice values -20..19 to load weights, indexed by
// nice+20. Each step is ~1.25x the next.
var niceToWeight = [40]int64{
	88761, 71755, 56483, 46273, 36291,
	29154, 23254, 18705, 14949, 11916,
	9548, 7620, 6100, 4904, 3906,
	3121, 2501, 1991, 1586, 1277,
	1024, 820, 655, 526, 423,
	335, 272, 215, 172, 137,
	110, 87, 70, 56, 45,
	36, 29, 23, 18, 15,
}

func weightOf(nice int) int64 {
	return niceToWeight[nice+20]
}

// Fair is a completely-fair policy: the runnable task with the smallest
// weighted virtual runtime is picked next. SetPriority accepts nice values
// in [-20, 19].
type Fair struct {
	h   fairHeap
	seq uint64
	// minVruntime is the vruntime of the last task picked; new arrivals
	// start here so they cannot starve the queue or be starved by it.
	minVruntime int64
}

// NewFair creates an empty fair policy.
func NewFair() *Fair {
	return &Fair{}
}

func (f *Fair) Init() {}

func (f *Fair) AddTask(t *Task) {
	base := f.minVruntime
	if len(f.h) > 0 {
		base = f.h[0].vruntime
	}
	if t.vruntime < base {
		t.vruntime = base
	}
	f.seq++
	t.seq = f.seq
	heap.Push(&f.h, t)
}

func (f *Fair) RemoveTask(t *Task) *Task {
	for i, q := range f.h {
		if q == t {
			heap.Remove(&f.h, i)
			return t
		}
	}
	return nil
}

func (f *Fair) PickNextTask() *Task {
	if len(f.h) == 0 {
		return nil
	}
	t := heap.Pop(&f.h).(*Task)
	f.minVruntime = t.vruntime
	return t
}

func (f *Fair) PutPrevTask(prev *Task, preempt bool) {
	f.seq++
	prev.seq = f.seq
	heap.Push(&f.h, prev)
}

func (f *Fair) TaskTick(current *Task) bool {
	current.vruntime += nice0Weight * 1024 / weightOf(current.nice)
	return len(f.h) > 0 && current.vruntime > f.h[0].vruntime
}

func (f *Fair) SetPriority(t *Task, prio int) bool {
	if prio < -20 || prio > 19 {
		return false
	}
	t.nice = prio
	return true
}

// fairHeap is a min-heap ordered by (vruntime, insertion order).
type fairHeap []*Task

func (h fairHeap) Len() int { return len(h) }

func (h fairHeap) Less(i, j int) bool {
	if h[i].vruntime != h[j].vruntime {
		return h[i].vruntime < h[j].vruntime
	}
	return h[i].seq < h[j].seq
}

func (h fairHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *fairHeap) Push(x any) { *h = append(*h, x.(*Task)) }

func (h *fairHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
