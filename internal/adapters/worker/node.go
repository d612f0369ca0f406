package worker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/adapters/logger"
	"go.trai.ch/warden/internal/adapters/validator"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
)

// NodeID is the unique identifier for the supervisor Graft node.
const NodeID graft.ID = "adapter.worker"

func init() {
	graft.Register(graft.Node[*Supervisor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			validator.NodeID,
		},
		Run: func(ctx context.Context) (*Supervisor, error) {
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

			sup := NewSupervisor(cfg, client, log)
			// The client short-circuits requests once it can observe the
			// worker's state.
			client.BindWorker(sup)
			return sup, nil
		},
	})
}
