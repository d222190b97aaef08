package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the registry hook Graft node.
const NodeID graft.ID = "adapter.registry_hook"

func init() {
	graft.Register(graft.Node[ports.RegistryHook]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RegistryHook, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewMultiHook(log, NewLogHook(log)), nil
		},
	})
}
