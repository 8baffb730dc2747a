// Package cli provides the dock command-line interface.
// This file re-exports config types from internal/config for public API.
package cli

import (
	"github.com/zot/dock/internal/config"
)

// Re-export config types for public API
type (
	Config        = config.Config
	StorageConfig = config.StorageConfig
	LayoutConfig  = config.LayoutConfig
	WatchConfig   = config.WatchConfig
	LoggingConfig = config.LoggingConfig
	Overrides     = config.Overrides
	Duration      = config.Duration
)

// Re-export config functions for public API
var (
	DefaultConfig = config.DefaultConfig
	LoadConfig    = config.Load
)
