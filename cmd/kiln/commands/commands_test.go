package commands_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/adapters/ledger"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/mem"
	"go.trai.ch/kiln/internal/adapters/registry"
	"go.trai.ch/kiln/internal/adapters/storage"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/builder"
)

func newComponents(t *testing.T) *app.Components {
	t.Helper()

	log := logger.New()
	settings := domain.DefaultSettings()
	settings.Roots = map[string]string{
		domain.DefaultRoot: "mem://targets",
		"dist":             "mem://dist",
	}

	factory, err := storage.NewFactory(settings.Roots, mem.New())
	require.NoError(t, err)

	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	hook := registry.NewMultiHook(log, registry.NewLogHook(log))
	b := builder.New(factory,
		builder.WithHook(hook),
		builder.WithLedger(store),
		builder.WithLogger(log),
	)

	return &app.Components{
		App:      app.New(b, factory, log, settings),
		Logger:   log,
		Settings: settings,
		Factory:  factory,
		Builder:  b,
		Ledger:   store,
		Hook:     hook,
	}
}

func TestVersion(t *testing.T) {
	cli := commands.New(newComponents(t))

	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "kiln version dev")
}

func TestRoots(t *testing.T) {
	cli := commands.New(newComponents(t))

	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"roots"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "default\tmem://targets")
	assert.Contains(t, out.String(), "dist\tmem://dist")
}

func TestLedger_Found(t *testing.T) {
	components := newComponents(t)
	require.NoError(t, components.Ledger.Put(domain.BuildRecord{
		Identifier: "abc123",
		Name:       "compile",
		Status:     domain.StatusCompleted,
	}))

	cli := commands.New(components)

	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"ledger", "abc123"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), `"compile"`)
	assert.Contains(t, out.String(), `"completed"`)
}

func TestLedger_NotFound(t *testing.T) {
	cli := commands.New(newComponents(t))
	cli.SetArgs([]string{"ledger", "missing"})

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no build record found")
}

func TestRoot_Help(t *testing.T) {
	cli := commands.New(newComponents(t))

	var out bytes.Buffer
	cli.SetOut(&out)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "kiln")
}
