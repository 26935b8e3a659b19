// Package clierr defines the error kinds surfaced to the operator and formats
// them for the top-level error handler.
package clierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling and display.
type Kind string

const (
	KindConfiguration Kind = "configuration" // Missing or invalid credentials/config
	KindNotFound      Kind = "not_found"     // Empty group/stream result sets
	KindExpiredToken  Kind = "expired_token" // Expired or rejected credentials, refreshable
	KindUnexpected    Kind = "unexpected"    // Any other API failure
)

// Error is a categorized error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Configuration reports missing or invalid configuration.
func Configuration(msg string, err error) error {
	return &Error{Kind: KindConfiguration, Msg: msg, Err: err}
}

// NotFound reports an empty result set.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// ExpiredToken marks err as a credential rejection that a refresh can fix.
func ExpiredToken(op string, err error) error {
	return &Error{Kind: KindExpiredToken, Op: op, Msg: "credentials expired or invalid", Err: err}
}

// Unexpected wraps any other failure with the operation that produced it.
func Unexpected(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Kind == KindUnexpected {
		return err
	}
	return &Error{Kind: KindUnexpected, Op: op, Err: err}
}

// KindOf returns the kind of the first categorized error in err's chain.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsExpiredToken checks if the error should trigger a credential refresh.
func IsExpiredToken(err error) bool {
	return err != nil && KindOf(err) == KindExpiredToken
}

// IsNotFound checks if the error is an empty result set.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsCategorized reports whether err carries a Kind.
func IsCategorized(err error) bool {
	return KindOf(err) != ""
}

// Pretty formats an error for the operator. Categorized errors print only
// their message; anything else is prefixed with "Error:".
func Pretty(err error) string {
	if err == nil {
		return ""
	}
	if IsCategorized(err) {
		return err.Error()
	}
	return fmt.Sprintf("Error: %s", err)
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}
