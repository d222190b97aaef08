package storage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"   //nolint:depguard // Wired in factory node
	"go.trai.ch/kiln/internal/adapters/fs"       //nolint:depguard // Wired in factory node
	"go.trai.ch/kiln/internal/adapters/mem"      //nolint:depguard // Wired in factory node
	"go.trai.ch/kiln/internal/adapters/objstore" //nolint:depguard // Wired in factory node
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the target factory Graft node.
const NodeID graft.ID = "adapter.target_factory"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.NodeID,
			mem.NodeID,
			objstore.NodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			fsBackend, err := graft.Dep[*fs.Backend](ctx)
			if err != nil {
				return nil, err
			}

			memBackend, err := graft.Dep[*mem.Backend](ctx)
			if err != nil {
				return nil, err
			}

			backends := []ports.Backend{fsBackend, memBackend}

			// The object store node yields a nil backend when no remote is
			// configured; a typed nil must not reach the factory as a
			// non-nil interface.
			remote, err := graft.Dep[*objstore.Backend](ctx)
			if err != nil {
				return nil, err
			}
			if remote != nil {
				backends = append(backends, remote)
			}

			return NewFactory(settings.Roots, backends...)
		},
	})
}
