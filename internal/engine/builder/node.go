package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/adapters/ledger"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/registry"
	"go.trai.ch/kiln/internal/adapters/storage"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the builder Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			storage.NodeID,
			registry.NodeID,
			ledger.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			factory, err := graft.Dep[*storage.Factory](ctx)
			if err != nil {
				return nil, err
			}

			hook, err := graft.Dep[ports.RegistryHook](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.Ledger](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			opts := []Option{
				WithHook(hook),
				WithLedger(store),
				WithLogger(log),
				WithWorkers(settings.Workers),
			}
			if settings.Verify {
				oracle := NewVerifyingOracle(NewTargetOracle(factory), factory, store)
				opts = append(opts, WithOracle(oracle))
			}

			return New(factory, opts...), nil
		},
	})
}
