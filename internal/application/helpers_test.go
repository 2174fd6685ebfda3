package application

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

func mockAnyContext() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

// fakeScheduler records delayed tasks so tests decide when they fire.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &fakeTask{delay: d, fn: f}
	s.tasks = append(s.tasks, task)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.cancelled || task.fired {
			return false
		}
		task.cancelled = true
		return true
	}
}

func (s *fakeScheduler) pending() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*fakeTask
	for _, task := range s.tasks {
		if !task.cancelled && !task.fired {
			out = append(out, task)
		}
	}
	return out
}

// fire runs every pending task, as if their delay had elapsed.
func (s *fakeScheduler) fire() {
	for _, task := range s.pending() {
		s.mu.Lock()
		task.fired = true
		s.mu.Unlock()
		task.fn()
	}
}
