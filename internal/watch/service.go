package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cobot-go/internal/cobot"
	"cobot-go/internal/database"
	"cobot-go/internal/history"
)

// BookingClient fetches the current bookings from the upstream API.
type BookingClient interface {
	FetchBookings(ctx context.Context, from, to time.Time, resourceID string) ([]cobot.Booking, error)
}

// SnapshotStore persists booking snapshots and retrieves the latest one.
type SnapshotStore interface {
	Latest(resourceID string) (*history.Snapshot, error)
	Append(resourceID string, bookings []cobot.Booking, spaceID string) error
}

// OperationLog records poll operations for the history command.
type OperationLog interface {
	CreatePollOperation(resourceID string) (*database.PollOperation, error)
	FinishPollOperation(id int64, status string, bookings, cancelled, added int) error
	ListPollOperations(limit int) ([]*database.PollOperation, error)
	Close() error
}

// ChangeEvent describes booking changes detected by one poll cycle.
type ChangeEvent struct {
	ResourceID string
	SpaceID    string
	OccurredAt time.Time
	Cancelled  []cobot.Booking
	Added      []cobot.Booking
}

// Sink delivers a change event to an external messaging channel.
type Sink interface {
	Notify(ctx context.Context, event ChangeEvent) error
}

// Report is the outcome of one poll cycle.
type Report struct {
	ResourceID string
	// FirstRun marks a poll against an empty history. Every booking would
	// trivially count as new, so Added is suppressed.
	FirstRun  bool
	Bookings  []cobot.Booking
	Cancelled []cobot.Booking
	Added     []cobot.Booking
}

// HasChanges reports whether the poll detected any cancellations or new
// bookings.
func (r *Report) HasChanges() bool {
	return len(r.Cancelled) > 0 || len(r.Added) > 0
}

// Service runs poll cycles: fetch current bookings, load the previous
// snapshot, persist the current one, diff, and forward detected changes.
// Each cycle is synchronous and sequential; only notification delivery
// happens in the background.
type Service struct {
	client  BookingClient
	store   SnapshotStore
	ops     OperationLog // may be nil
	sink    Sink         // may be nil
	logger  Logger
	clock   Clock
	spaceID string

	notifications sync.WaitGroup
}

// NewService creates a Service. ops and sink may be nil, disabling the
// operation log and notification delivery respectively.
func NewService(client BookingClient, store SnapshotStore, ops OperationLog, sink Sink, logger Logger, clock Clock, spaceID string) *Service {
	return &Service{
		client:  client,
		store:   store,
		ops:     ops,
		sink:    sink,
		logger:  logger,
		clock:   clock,
		spaceID: spaceID,
	}
}

// Poll runs one cycle for a resource, fetching bookings in the window
// [now, now+window). The previous snapshot is read before the current one
// is appended, so the diff always runs against the pre-append state.
// Fetch and persistence failures are fatal for the cycle. A diff failure
// aborts change detection but the snapshot has already been persisted.
func (s *Service) Poll(ctx context.Context, resourceID string, window time.Duration) (report *Report, err error) {
	if s.ops != nil {
		op, opErr := s.ops.CreatePollOperation(resourceID)
		if opErr != nil {
			return nil, fmt.Errorf("recording poll operation: %w", opErr)
		}
		defer func() {
			status := "success"
			var bookings, cancelled, added int
			if err != nil {
				status = "error"
			} else {
				bookings = len(report.Bookings)
				cancelled = len(report.Cancelled)
				added = len(report.Added)
			}
			if finishErr := s.ops.FinishPollOperation(op.ID, status, bookings, cancelled, added); finishErr != nil {
				s.logger.Warn("finishing poll operation", "id", op.ID, "error", finishErr)
			}
		}()
	}

	now := s.clock.Now()
	current, err := s.client.FetchBookings(ctx, now, now.Add(window), resourceID)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}

	previous, err := s.store.Latest(resourceID)
	if err != nil {
		return nil, fmt.Errorf("loading previous snapshot: %w", err)
	}

	if err := s.store.Append(resourceID, current, s.spaceID); err != nil {
		return nil, fmt.Errorf("persisting snapshot: %w", err)
	}

	report = &Report{ResourceID: resourceID, Bookings: current}

	if previous == nil {
		report.FirstRun = true
		s.logger.Info("first poll for resource, change detection starts next cycle",
			"resource", resourceID, "bookings", len(current))
		return report, nil
	}

	cancelled, err := history.Cancelled(current, previous.Bookings, s.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("diffing snapshots: %w", err)
	}
	report.Cancelled = cancelled
	report.Added = history.New(current, previous.Bookings)

	s.logger.Debug("poll complete",
		"resource", resourceID,
		"bookings", len(report.Bookings),
		"cancelled", len(report.Cancelled),
		"new", len(report.Added))

	if report.HasChanges() && s.sink != nil {
		s.notify(ChangeEvent{
			ResourceID: resourceID,
			SpaceID:    s.spaceID,
			OccurredAt: s.clock.Now().UTC(),
			Cancelled:  report.Cancelled,
			Added:      report.Added,
		})
	}

	return report, nil
}

// notify delivers a change event in the background. Delivery failures are
// logged and never abort a poll or mask a computed diff.
func (s *Service) notify(event ChangeEvent) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		if err := s.sink.Notify(context.Background(), event); err != nil {
			s.logger.Warn("notification delivery failed",
				"resource", event.ResourceID, "error", err)
		}
	}()
}

// Wait blocks until all in-flight notifications have been delivered or
// failed. Call before process exit.
func (s *Service) Wait() {
	s.notifications.Wait()
}

// Watch polls a resource at the given interval until ctx is cancelled.
// The first poll runs immediately. Per-cycle errors are logged and the
// loop continues; recovery is simply the next scheduled poll.
func (s *Service) Watch(ctx context.Context, resourceID string, window, interval time.Duration, onReport func(*Report)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := s.Poll(ctx, resourceID, window)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("poll cycle failed", "resource", resourceID, "error", err)
		} else if onReport != nil {
			onReport(report)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
