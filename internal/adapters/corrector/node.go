package corrector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warden/internal/adapters/config"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
)

// NodeID is the unique identifier for the corrector Graft node.
const NodeID graft.ID = "adapter.corrector"

func init() {
	graft.Register(graft.Node[ports.Corrector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.Corrector, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewExec(cfg.FixCommand), nil
		},
	})
}
