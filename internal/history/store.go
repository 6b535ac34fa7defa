// Package history persists booking snapshots as an append-only log, one
// file per resource, one JSON record per poll, and computes the
// cancelled/new difference between two snapshots.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cobot-go/internal/cobot"
)

// Clock abstracts time retrieval so snapshot timestamps are deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

// Snapshot is one poll's captured result set for one resource. Once
// written it is never rewritten or deleted; only the most recent record
// of a resource's history is ever read back.
type Snapshot struct {
	Timestamp  string          `json:"timestamp"`
	SpaceID    string          `json:"space_id"`
	ResourceID string          `json:"resource_id"`
	Bookings   []cobot.Booking `json:"bookings"`
}

// Store is an append-only log of snapshots keyed by resource identifier.
// Each resource owns one newline-delimited JSON file under the data
// directory. The store assumes a single process polling a resource at a
// time; no locking is provided.
type Store struct {
	dataDir string
	clock   Clock
}

// NewStore creates a Store rooted at dataDir.
func NewStore(dataDir string, clock Clock) *Store {
	return &Store{dataDir: dataDir, clock: clock}
}

// FilePath returns the history file for a resource. The layout is a pure
// function of the data directory and the resource identifier.
func (s *Store) FilePath(resourceID string) string {
	return filepath.Join(s.dataDir, "bookings_"+resourceID+".jsonl")
}

// Append records a snapshot of the current bookings for a resource,
// timestamped with the current process-local time. The data directory and
// history file are created if absent. Write failures propagate to the
// caller; nothing is retried.
func (s *Store) Append(resourceID string, bookings []cobot.Booking, spaceID string) error {
	snapshot := Snapshot{
		Timestamp:  s.clock.Now().Format(time.RFC3339),
		SpaceID:    spaceID,
		ResourceID: resourceID,
		Bookings:   bookings,
	}
	if snapshot.Bookings == nil {
		snapshot.Bookings = []cobot.Booking{}
	}

	line, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	f, err := os.OpenFile(s.FilePath(resourceID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing history file: %w", err)
	}
	return nil
}

// Latest returns the most recently appended snapshot for a resource, or
// nil when the resource has no history. A malformed last record
// (truncated write, corrupt JSON, missing bookings field) is treated
// exactly like an absent history rather than an error: the next
// successful poll overwrites nothing and the log self-heals.
func (s *Store) Latest(resourceID string) (*Snapshot, error) {
	f, err := os.Open(s.FilePath(resourceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	// Only the last non-blank line matters; everything before it is
	// ignored on read.
	var last []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) > 0 {
			last = append(last[:0], line...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	if len(last) == 0 {
		return nil, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(last, &snapshot); err != nil {
		return nil, nil
	}
	if snapshot.Bookings == nil {
		return nil, nil
	}
	return &snapshot, nil
}
