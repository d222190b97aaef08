// Package app implements the application layer for kiln.
package app

import (
	"context"

	"go.trai.ch/kiln/internal/adapters/storage"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/builder"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	builder  *builder.Builder
	factory  *storage.Factory
	log      ports.Logger
	settings *domain.Settings
}

// New creates a new App instance.
func New(b *builder.Builder, factory *storage.Factory, log ports.Logger, settings *domain.Settings) *App {
	return &App{
		builder:  b,
		factory:  factory,
		log:      log,
		settings: settings,
	}
}

// Build drives the given tasks to completion and returns the build report.
func (a *App) Build(ctx context.Context, tasks ...domain.Task) (*builder.Report, error) {
	report, err := a.builder.Build(ctx, tasks...)
	if err != nil {
		return report, zerr.Wrap(err, "build execution failed")
	}
	return report, nil
}

// Resolver exposes the target resolver for task authors.
func (a *App) Resolver() domain.TargetResolver {
	return a.factory
}

// Roots returns the configured root name to base location mapping.
func (a *App) Roots() map[string]string {
	return a.factory.Roots()
}

// Components bundles the wired application pieces handed to the CLI.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *domain.Settings
	Factory  *storage.Factory
	Builder  *builder.Builder
	Ledger   ports.Ledger
	Hook     ports.RegistryHook
}
