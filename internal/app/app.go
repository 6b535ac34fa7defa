package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cobot-go/internal/archive"
	"cobot-go/internal/cobot"
	"cobot-go/internal/config"
	"cobot-go/internal/database"
	"cobot-go/internal/history"
	"cobot-go/internal/notify"
	"cobot-go/internal/watch"
)

const requestTimeout = 30 * time.Second

// App is the application layer between the CLI and the watch service.
// It constructs all dependencies from config and manages their lifecycle
// on Close.
type App struct {
	cfg     *config.Config
	client  *cobot.Client
	store   *history.Store
	ops     *database.SQLiteOperationLog
	service *watch.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Bookings", "Watch"). The
// caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	client := cobot.NewClient(cfg.APIBase, cfg.SpaceID, cfg.AccessToken, requestTimeout)
	store := history.NewStore(cfg.DataDir, watch.RealClock{})

	ops, err := database.NewOperationLogFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating operation log: %w", err)
	}

	// A nil *SQLiteOperationLog must stay a nil interface value, or the
	// service would try to use it.
	var opLog watch.OperationLog
	if ops != nil {
		opLog = ops
	}

	sink := notify.NewSinkFromConfig(cfg.Notify)

	svc := watch.NewService(client, store, opLog, sink,
		&slogAdapter{l: logger.With("operation", operation)},
		watch.RealClock{}, cfg.SpaceID)

	return &App{
		cfg:     cfg,
		client:  client,
		store:   store,
		ops:     ops,
		service: svc,
		logFile: logFile,
	}, nil
}

// Bookings fetches bookings for the next `days` days, optionally filtered
// to one resource.
func (a *App) Bookings(ctx context.Context, resourceID string, days int) ([]cobot.Booking, error) {
	now := time.Now()
	return a.client.FetchBookings(ctx, now, now.AddDate(0, 0, days), resourceID)
}

// Resources fetches the space's bookable resources.
func (a *App) Resources(ctx context.Context) ([]cobot.Resource, error) {
	return a.client.FetchResources(ctx)
}

// Poll runs one poll cycle for a resource over a `days`-long window.
func (a *App) Poll(ctx context.Context, resourceID string, days int) (*watch.Report, error) {
	return a.service.Poll(ctx, resourceID, time.Duration(days)*24*time.Hour)
}

// Watch polls a resource at the given interval until ctx is cancelled.
func (a *App) Watch(ctx context.Context, resourceID string, days int, interval time.Duration, onReport func(*watch.Report)) error {
	return a.service.Watch(ctx, resourceID, time.Duration(days)*24*time.Hour, interval, onReport)
}

// History returns the most recent poll operations, newest first.
func (a *App) History(limit int) ([]*database.PollOperation, error) {
	if a.ops == nil {
		return nil, fmt.Errorf("no operation log configured (set [database] type in the config)")
	}
	return a.ops.ListPollOperations(limit)
}

// Archive uploads every snapshot history file under the data directory to
// the configured archive backend. Returns the number of files uploaded.
func (a *App) Archive(ctx context.Context) (int, error) {
	archiver, err := archive.NewArchiverFromConfig(ctx, a.cfg.Archive)
	if err != nil {
		return 0, fmt.Errorf("creating archiver: %w", err)
	}
	if err := archiver.ValidateSetup(ctx); err != nil {
		return 0, fmt.Errorf("validating archive backend: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(a.cfg.DataDir, "bookings_*.jsonl"))
	if err != nil {
		return 0, fmt.Errorf("listing history files: %w", err)
	}

	count := 0
	for _, path := range paths {
		if err := a.archiveFile(ctx, archiver, path); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// archiveFile uploads a single history file.
func (a *App) archiveFile(ctx context.Context, archiver archive.Archiver, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := archiver.Put(ctx, filepath.Base(path), f, info.Size()); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

// Close waits for in-flight notifications and releases all resources.
func (a *App) Close() error {
	a.service.Wait()

	var firstErr error
	if a.ops != nil {
		if err := a.ops.Close(); err != nil {
			firstErr = fmt.Errorf("closing operation log: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
