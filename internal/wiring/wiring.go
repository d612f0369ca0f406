// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/warden/internal/adapters/config"
	_ "go.trai.ch/warden/internal/adapters/corrector"
	_ "go.trai.ch/warden/internal/adapters/logger"
	_ "go.trai.ch/warden/internal/adapters/telemetry"
	_ "go.trai.ch/warden/internal/adapters/validator"
	_ "go.trai.ch/warden/internal/adapters/worker"
	// Register app and engine nodes.
	_ "go.trai.ch/warden/internal/app"
	_ "go.trai.ch/warden/internal/engine/retry"
)
