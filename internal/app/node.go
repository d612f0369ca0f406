package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/adapters/corrector"
	"go.trai.ch/warden/internal/adapters/logger"
	"go.trai.ch/warden/internal/adapters/telemetry"
	"go.trai.ch/warden/internal/adapters/validator"
	"go.trai.ch/warden/internal/adapters/worker"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/warden/internal/engine/retry"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components, giving the CLI
// layer controlled access.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			validator.NodeID,
			worker.NodeID,
			corrector.NodeID,
			retry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	client, err := graft.Dep[*validator.Client](ctx)
	if err != nil {
		return nil, err
	}
	sup, err := graft.Dep[*worker.Supervisor](ctx)
	if err != nil {
		return nil, err
	}
	fix, err := graft.Dep[ports.Corrector](ctx)
	if err != nil {
		return nil, err
	}
	coordinator, err := graft.Dep[*retry.Coordinator](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, log, tracer, client, sup, fix, coordinator), nil
}
