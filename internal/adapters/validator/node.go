package validator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/adapters/logger"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
)

// NodeID is the unique identifier for the validation client Graft node.
const NodeID graft.ID = "adapter.validator"

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Client, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg, log), nil
		},
	})
}
