package lock

import (
	"sync"
	"testing"
)

func TestSpinLockTryLockContended(t *testing.T) {
	l := &SpinLock{}

	if !l.TryLock() {
		t.Fatal("TryLock on a free lock failed")
	}
	if l.TryLock() {
		t.Fatal("TryLock on a held lock succeeded")
	}
	l.Unlock()
	if !l.TryLock() {
		t.Fatal("TryLock after Unlock failed")
	}
	l.Unlock()
}

func TestSpinLockMutualExclusion(t *testing.T) {
	l := &SpinLock{}
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 8000 {
		t.Errorf("Expected 8000 increments, got %d", counter)
	}
}

func TestSpinLockUnlockOfUnlockedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic unlocking an unlocked SpinLock")
		}
	}()
	l := &SpinLock{}
	l.Unlock()
}

func TestSyncMutexSatisfiesLocker(t *testing.T) {
	var l Locker = &sync.Mutex{}

	l.Lock()
	if l.TryLock() {
		t.Error("TryLock on a held sync.Mutex succeeded")
	}
	l.Unlock()
}
