// Package sched abstracts deferred callbacks so acknowledgment timers can be
// driven deterministically in tests.
package sched

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending deferred callback
type Timer interface {
	// Stop cancels the callback. It reports false if it already ran or was
	// stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the runtime timer
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake is a manual clock. Callbacks run synchronously inside Advance, in
// deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*fakeTimer
}

type fakeTimer struct {
	fake     *Fake
	deadline time.Duration
	seq      int
	f        func()
	done     bool
}

// NewFake returns a fake clock at time zero
func NewFake() *Fake {
	return &Fake{}
}

func (s *Fake) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &fakeTimer{fake: s, deadline: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward and fires every timer that came due
func (s *Fake) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now

	var due, rest []*fakeTimer
	for _, t := range s.pending {
		if t.deadline <= now {
			t.done = true
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.pending = rest
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline == due[j].deadline {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline < due[j].deadline
	})

	// Callbacks may schedule new timers, so the lock is released first.
	for _, t := range due {
		t.f()
	}
}

// Pending returns how many timers are waiting to fire
func (s *Fake) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (t *fakeTimer) Stop() bool {
	s := t.fake
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return true
}
