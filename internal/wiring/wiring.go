// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/shade/internal/adapters/config"
	_ "go.trai.ch/shade/internal/adapters/git"
	_ "go.trai.ch/shade/internal/adapters/logger"
	_ "go.trai.ch/shade/internal/adapters/telemetry"
	_ "go.trai.ch/shade/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/shade/internal/app"
	_ "go.trai.ch/shade/internal/engine/explorer"
)
