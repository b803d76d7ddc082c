// SPDX-License-Identifier: MIT
// Package: paramspace/trial
//
// config.go - store configuration and the badger logger bridge.

package trial

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds configuration for a trial Store.
type Config struct {
	// Path is the directory for badger files. Required unless InMemory is set.
	Path string `yaml:"path"`

	// InMemory keeps everything in RAM; data is lost on Close.
	InMemory bool `yaml:"in_memory"`

	// SyncWrites makes every commit durable before it returns.
	SyncWrites bool `yaml:"sync_writes"`

	// GCInterval is how often value-log GC runs; 0 disables it.
	GCInterval time.Duration `yaml:"gc_interval"`

	// GCDiscardRatio is the garbage share that triggers a rewrite.
	GCDiscardRatio float64 `yaml:"gc_discard_ratio" validate:"gte=0,lte=1"`

	// Logger receives store events and badger's own log lines.
	// If nil, slog.Default() is used for the store and badger stays silent.
	Logger *slog.Logger `yaml:"-" validate:"-"`
}

// DefaultConfig returns production defaults for a store at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration for tests: no disk, no GC.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
