package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/storage"
	"github.com/rusenback/cwtail/internal/tail"
	"github.com/rusenback/cwtail/internal/tui"
	"go.uber.org/zap"
)

// Viewer shows the tail view until it stops
type Viewer interface {
	Tail(ctx context.Context, source tui.EventSource, state *tail.State, opts tui.TailOptions) (tui.TailResult, error)
}

// Refresher replaces expired credentials in place
type Refresher interface {
	Refresh(ctx context.Context) error
	MaxRefreshes() int
}

// History records finished sessions
type History interface {
	Write(entry *storage.SessionEntry)
}

// TailOptions configures a TailRunner
type TailOptions struct {
	PollInterval time.Duration
	Limit        int32
	Timeout      time.Duration
	QuitKey      string
	Lookback     time.Duration
	MaxLines     int
}

// TailRunner runs the tail view and restarts it after a credential refresh
type TailRunner struct {
	viewer  Viewer
	source  tui.EventSource
	creds   Refresher
	history History
	region  func() string
	opts    TailOptions
	logger  *zap.Logger
	now     func() time.Time
}

// NewTailRunner creates a runner. history may be nil.
func NewTailRunner(viewer Viewer, source tui.EventSource, creds Refresher, history History, region func() string, opts TailOptions, logger *zap.Logger) *TailRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if region == nil {
		region = func() string { return "" }
	}
	return &TailRunner{
		viewer:  viewer,
		source:  source,
		creds:   creds,
		history: history,
		region:  region,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Run tails group/stream until the operator quits. An expired token
// refreshes the credentials and resumes from the same watermark; a
// successful fetch resets the refresh count.
func (r *TailRunner) Run(ctx context.Context, group, stream string) error {
	log := r.logger.With(zap.String("group", group), zap.String("stream", stream))
	state := tail.NewState(r.now(), r.opts.Lookback, r.opts.MaxLines)
	entry := &storage.SessionEntry{
		Region:    r.region(),
		LogGroup:  group,
		LogStream: stream,
		StartedAt: r.now(),
	}
	viewOpts := tui.TailOptions{
		Group:        group,
		Stream:       stream,
		PollInterval: r.opts.PollInterval,
		Limit:        r.opts.Limit,
		Timeout:      r.opts.Timeout,
		QuitKey:      r.opts.QuitKey,
	}

	log.Info("tail started", zap.Int64("watermark", state.Watermark()))
	refreshes := 0
	for {
		result, err := r.viewer.Tail(ctx, r.source, state, viewOpts)
		if err != nil {
			r.record(entry, state, storage.OutcomeFailed)
			return err
		}
		entry.Fetches += result.Fetches
		if result.Fetches > 0 {
			refreshes = 0
		}

		switch {
		case result.Expired:
			if refreshes >= r.creds.MaxRefreshes() {
				r.record(entry, state, storage.OutcomeExpired)
				return clierr.Configuration(
					fmt.Sprintf("credentials still rejected after %d refresh attempts", r.creds.MaxRefreshes()), nil)
			}
			refreshes++
			entry.Refreshes++
			log.Warn("session token expired while tailing", zap.Int("attempt", refreshes))
			if err := r.creds.Refresh(ctx); err != nil {
				r.record(entry, state, storage.OutcomeExpired)
				return err
			}

		case result.Err != nil:
			log.Error("tail failed", zap.Error(result.Err))
			r.record(entry, state, storage.OutcomeFailed)
			return fmt.Errorf("tail %s %s: %w", group, stream, result.Err)

		default:
			log.Info("tail stopped", zap.Int("events", state.Events()), zap.Int("fetches", entry.Fetches))
			r.record(entry, state, storage.OutcomeQuit)
			return nil
		}
	}
}

func (r *TailRunner) record(entry *storage.SessionEntry, state *tail.State, outcome storage.Outcome) {
	if r.history == nil {
		return
	}
	entry.EndedAt = r.now()
	entry.Events = state.Events()
	entry.Outcome = outcome
	r.history.Write(entry)
}
