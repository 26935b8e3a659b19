package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/model"
	"go.uber.org/zap"
)

// Prompter collects credentials from the operator. defaults carries values
// worth prefilling, such as the previous region.
type Prompter interface {
	PromptCredentials(ctx context.Context, defaults model.Credentials) (model.Credentials, error)
}

// TokenIssuer exchanges a key pair for temporary session credentials.
type TokenIssuer interface {
	IssueSessionToken(ctx context.Context, creds model.Credentials, duration time.Duration) (model.Credentials, error)
}

// Options tune a Manager.
type Options struct {
	SessionDuration time.Duration
	// MaxRefreshes bounds consecutive refreshes in Do
	MaxRefreshes int
}

// Manager owns the credential lifecycle: load, prompt, exchange, persist.
type Manager struct {
	store    *Store
	prompter Prompter
	issuer   TokenIssuer
	opts     Options
	logger   *zap.Logger
	now      func() time.Time

	handle *Handle
}

func NewManager(store *Store, prompter Prompter, issuer TokenIssuer, opts Options, logger *zap.Logger) *Manager {
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = time.Hour
	}
	if opts.MaxRefreshes < 1 {
		opts.MaxRefreshes = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		prompter: prompter,
		issuer:   issuer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		handle:   NewHandle(model.Credentials{}),
	}
}

// Handle returns the live credential handle. It is empty until Acquire.
func (m *Manager) Handle() *Handle {
	return m.handle
}

// Acquire loads stored credentials, prompting when they are missing,
// invalid, without a region or past their recorded expiration.
func (m *Manager) Acquire(ctx context.Context) (*Handle, error) {
	stored, err := m.store.Load()
	switch {
	case errors.Is(err, ErrNoStoredCredentials):
		m.logger.Info("no stored credentials", zap.String("path", m.store.Path()))
	case err != nil:
		m.logger.Warn("ignoring unreadable credentials file", zap.Error(err))
	}

	if err == nil && Validate(stored) == nil && stored.Region != "" && !stored.Expired(m.now()) {
		if stored.SessionToken == "" {
			stored = m.exchange(ctx, stored)
			if err := m.store.Save(stored); err != nil {
				return nil, err
			}
		}
		m.handle.Replace(stored)
		m.logger.Info("using stored credentials", zap.String("region", stored.Region))
		return m.handle, nil
	}

	if err := m.collect(ctx, stored); err != nil {
		return nil, err
	}
	return m.handle, nil
}

// Refresh collects fresh credentials interactively and replaces the handle.
func (m *Manager) Refresh(ctx context.Context) error {
	m.logger.Info("refreshing credentials")
	return m.collect(ctx, m.handle.Get())
}

func (m *Manager) collect(ctx context.Context, previous model.Credentials) error {
	defaults := model.Credentials{AccessKeyID: previous.AccessKeyID, Region: previous.Region}
	c, err := m.prompter.PromptCredentials(ctx, defaults)
	if err != nil {
		return err
	}
	if err := Validate(c); err != nil {
		return err
	}
	if c.Region == "" {
		return clierr.Configuration("region is required", nil)
	}

	if c.SessionToken == "" {
		c = m.exchange(ctx, c)
	}
	if err := m.store.Save(c); err != nil {
		return err
	}
	m.handle.Replace(c)
	return nil
}

// exchange trades the key pair for a session token. Failure is not fatal:
// the long-lived keys are kept and a warning is logged.
func (m *Manager) exchange(ctx context.Context, c model.Credentials) model.Credentials {
	issued, err := m.issuer.IssueSessionToken(ctx, c, m.opts.SessionDuration)
	if err != nil {
		m.logger.Warn("could not get a session token, continuing with long-lived keys", zap.Error(err))
		return c
	}
	m.logger.Info("session token issued", zap.Duration("duration", m.opts.SessionDuration))
	return issued
}

// Do runs op and, when it fails with an expired or rejected token, refreshes
// the credentials and runs op again. At most MaxRefreshes refreshes happen.
func (m *Manager) Do(ctx context.Context, op func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if !clierr.IsExpiredToken(err) {
			return err
		}
		if attempt >= m.opts.MaxRefreshes {
			return clierr.Configuration(
				fmt.Sprintf("credentials still rejected after %d refresh attempts", m.opts.MaxRefreshes), err)
		}
		m.logger.Warn("credentials rejected, prompting for new ones", zap.Error(err), zap.Int("attempt", attempt+1))
		if err := m.Refresh(ctx); err != nil {
			return err
		}
	}
}

// MaxRefreshes returns the configured refresh bound.
func (m *Manager) MaxRefreshes() int {
	return m.opts.MaxRefreshes
}
