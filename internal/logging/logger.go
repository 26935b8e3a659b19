// Package logging builds the zap logger used by cwtail. The terminal belongs
// to the TUI, so log output always goes to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component names the part of the program a log line comes from.
type Component string

const (
	ComponentCLI        Component = "CLI"
	ComponentCredential Component = "CREDENTIALS"
	ComponentNavigator  Component = "NAVIGATOR"
	ComponentTail       Component = "TAIL"
	ComponentCloudWatch Component = "CLOUDWATCH"
	ComponentStorage    Component = "STORAGE"
)

func fileEncoder() zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}

	// Just filename, no directories
	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		enc.AppendString(fmt.Sprintf("%s:%d", file, caller.Line))
	}

	return zapcore.NewConsoleEncoder(config)
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// NewFileLogger creates a logger that appends to filePath. The returned
// function syncs and closes the file.
func NewFileLogger(filePath, level string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}

	core := zapcore.NewCore(
		fileEncoder(),
		zapcore.AddSync(file),
		ParseLevel(level),
	)

	logger := zap.New(core, zap.AddCaller())

	closer := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closer, nil
}

// For returns a child logger tagged with the component name.
func For(logger *zap.Logger, component Component) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(string(component))
}
