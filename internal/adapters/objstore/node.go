package objstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config" //nolint:depguard // Wired in backend node
	"go.trai.ch/kiln/internal/core/domain"
)

// NodeID is the unique identifier for the object store backend Graft node.
const NodeID graft.ID = "adapter.objstore_backend"

func init() {
	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*Backend, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			// No remote configured. Consumers must check for nil before
			// wrapping the backend in an interface.
			if settings.Redis == "" {
				return nil, nil
			}
			return New(settings.Redis)
		},
	})
}
