// Package hart supplies the calling core's identity to the dispatcher.
package hart

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Identity reports the identity of the hart executing the current call.
// The dispatcher asks on every operation and never caches the answer, so a
// single dispatcher instance can be shared across all harts.
type Identity func() int

// Fixed returns an Identity that always reports id. Useful for single-hart
// deployments and tests.
func Fixed(id int) Identity {
	return func() int { return id }
}

// Registry binds goroutines to hart identities. In-process drivers run one
// goroutine per hart; each binds itself once and the registry answers
// identity queries for whichever goroutine is calling.
type Registry struct {
	mu    sync.RWMutex
	binds map[uint64]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{binds: make(map[uint64]int)}
}

// Bind registers the calling goroutine as hart id and returns an unbind
// function. Binding the same goroutine twice is a caller bug.
func (r *Registry) Bind(id int) func() {
	gid := goroutineID()
	r.mu.Lock()
	if _, ok := r.binds[gid]; ok {
		r.mu.Unlock()
		panic(fmt.Sprintf("hart: goroutine %d already bound", gid))
	}
	r.binds[gid] = id
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.binds, gid)
		r.mu.Unlock()
	}
}

// Current reports the hart identity of the calling goroutine. Calling from
// an unbound goroutine is a contract violation and panics.
func (r *Registry) Current() int {
	gid := goroutineID()
	r.mu.RLock()
	id, ok := r.binds[gid]
	r.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("hart: goroutine %d not bound to a hart", gid))
	}
	return id
}

// Identity returns the registry's lookup as an Identity capability.
func (r *Registry) Identity() Identity {
	return r.Current
}

// goroutineID extracts the goroutine id from the runtime stack header line,
// "goroutine N [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("hart: parse goroutine id: %v", err))
	}
	return id
}
