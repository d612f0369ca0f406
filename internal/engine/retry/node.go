package retry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/adapters/corrector"
	"go.trai.ch/warden/internal/adapters/logger"
	"go.trai.ch/warden/internal/adapters/telemetry"
	"go.trai.ch/warden/internal/adapters/validator"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
)

// NodeID is the unique identifier for the retry coordinator Graft node.
const NodeID graft.ID = "engine.retry"

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			validator.NodeID,
			corrector.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Coordinator, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			client, err := graft.Dep[*validator.Client](ctx)
			if err != nil {
				return nil, err
			}
			fix, err := graft.Dep[ports.Corrector](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewCoordinator(client, fix, cfg.MaxRetries, log, tracer), nil
		},
	})
}
