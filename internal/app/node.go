package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/ledger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/registry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/storage"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			storage.NodeID,
			builder.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			b, err := graft.Dep[*builder.Builder](ctx)
			if err != nil {
				return nil, err
			}

			factory, err := graft.Dep[*storage.Factory](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return New(b, factory, log, settings), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			ledger.NodeID,
			registry.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[*storage.Factory](ctx)
	if err != nil {
		return nil, err
	}

	b, err := graft.Dep[*builder.Builder](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.Ledger](ctx)
	if err != nil {
		return nil, err
	}

	hook, err := graft.Dep[ports.RegistryHook](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      a,
		Logger:   log,
		Settings: settings,
		Factory:  factory,
		Builder:  b,
		Ledger:   store,
		Hook:     hook,
	}, nil
}
