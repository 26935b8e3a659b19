package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/cwtail/internal/model"
	"github.com/rusenback/cwtail/internal/tail"
)

// EventSource is the part of the CloudWatch client the tail view needs
type EventSource interface {
	FilterLogEvents(ctx context.Context, group, stream string, since int64, limit int32) ([]model.LogEvent, error)
}

// TailOptions configures a TailModel
type TailOptions struct {
	Group        string
	Stream       string
	PollInterval time.Duration
	Limit        int32
	// Timeout bounds a single fetch
	Timeout time.Duration
	QuitKey string
}

// TailModel polls one log stream and renders the scrollback buffer
type TailModel struct {
	ctx    context.Context
	source EventSource
	opts   TailOptions
	state  *tail.State

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     tailKeyMap
	ready    bool
	follow   bool

	fetching  bool
	quitting  bool
	expired   bool
	err       error
	fetches   int
	lastFetch time.Time
}

// Message types for the tail update loop
type tickMsg time.Time

type eventsMsg struct {
	events []model.LogEvent
	err    error
}

// NewTailModel creates a tail view over state. The first fetch starts as
// soon as the program runs; later ones follow the poll interval.
func NewTailModel(ctx context.Context, source EventSource, state *tail.State, opts TailOptions) TailModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = statusStyle

	vp := viewport.New(80, 20)

	return TailModel{
		ctx:      ctx,
		source:   source,
		opts:     opts,
		state:    state,
		viewport: vp,
		spinner:  sp,
		help:     help.New(),
		keys:     newTailKeyMap(opts.QuitKey),
		follow:   true,
		fetching: true,
	}
}

// Init starts the first fetch immediately
func (m TailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchEvents(m.ctx, m.source, m.opts, m.state.Watermark()))
}

// TailResult tells why a tail view stopped
type TailResult struct {
	Expired bool
	Err     error
	Fetches int
}

func (m TailModel) Result() TailResult {
	return TailResult{Expired: m.expired, Err: m.err, Fetches: m.fetches}
}

// Expired reports that the view stopped because the session token expired
func (m TailModel) Expired() bool { return m.expired }

// Err is the fatal fetch error that stopped the view, if any
func (m TailModel) Err() error { return m.err }

// Fetches counts the fetches applied to the state
func (m TailModel) Fetches() int { return m.fetches }

// Quitting reports that the operator pressed the quit key
func (m TailModel) Quitting() bool { return m.quitting }

func (m TailModel) State() *tail.State { return m.state }
