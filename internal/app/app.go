// Package app wires the interactive flow: credentials, namespace
// navigation, stream selection and tailing.
package app

import (
	"context"
	"errors"

	"github.com/rusenback/cwtail/internal/credentials"
	"github.com/rusenback/cwtail/internal/tui"
	"go.uber.org/zap"
)

// Authenticator loads or prompts for credentials
type Authenticator interface {
	Acquire(ctx context.Context) (*credentials.Handle, error)
}

// Navigator picks a log group and a stream inside it
type Navigator interface {
	SelectGroup(ctx context.Context, prefix string) (string, error)
	SelectStream(ctx context.Context, group string) (string, string, error)
}

// Confirmer asks a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Tailer tails one stream until the operator quits
type Tailer interface {
	Run(ctx context.Context, group, stream string) error
}

const returnQuestion = "Return to stream selection?"

type App struct {
	auth    Authenticator
	nav     Navigator
	tailer  Tailer
	confirm Confirmer
	// prefix is where navigation starts, relative to the namespace root
	prefix string
	logger *zap.Logger
}

func New(auth Authenticator, nav Navigator, tailer Tailer, confirm Confirmer, prefix string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{auth: auth, nav: nav, tailer: tailer, confirm: confirm, prefix: prefix, logger: logger}
}

// Run drives the flow until the operator declines to continue. Leaving a
// prompt with esc or ctrl+c ends the flow without an error.
func (a *App) Run(ctx context.Context) error {
	err := a.run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		a.logger.Info("aborted by operator")
		return nil
	}
	return err
}

func (a *App) run(ctx context.Context) error {
	if _, err := a.auth.Acquire(ctx); err != nil {
		return err
	}

	group, err := a.nav.SelectGroup(ctx, a.prefix)
	if err != nil {
		return err
	}
	a.logger.Info("log group selected", zap.String("group", group))

	for {
		var stream string
		group, stream, err = a.nav.SelectStream(ctx, group)
		if err != nil {
			return err
		}
		a.logger.Info("log stream selected", zap.String("group", group), zap.String("stream", stream))

		if err := a.tailer.Run(ctx, group, stream); err != nil {
			return err
		}

		again, err := a.confirm.Confirm(ctx, returnQuestion)
		if err != nil {
			return err
		}
		if !again {
			a.logger.Info("done")
			return nil
		}
	}
}
