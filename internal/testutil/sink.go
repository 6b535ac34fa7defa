package testutil

import (
	"context"
	"sync"

	"cobot-go/internal/watch"
)

// CaptureSink records every change event it receives. Safe for
// concurrent use. When Err is set, Notify returns it.
type CaptureSink struct {
	mu     sync.Mutex
	events []watch.ChangeEvent

	Err error
}

// NewCaptureSink creates an empty CaptureSink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (s *CaptureSink) Notify(_ context.Context, event watch.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (s *CaptureSink) Events() []watch.ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]watch.ChangeEvent(nil), s.events...)
}
