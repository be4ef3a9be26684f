package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
)

// Plugin is a downloader extension. Plugins get a one-shot BeforeStart hook
// per run, before credential validation.
type Plugin interface {
	Name() string
	BeforeStart(ctx context.Context) error
}

// Manager owns the registered plugins and fans the pre-run hook out to them.
type Manager struct {
	mu      sync.Mutex
	plugins []Plugin
	logger  arbor.ILogger
}

// NewManager creates a plugin manager with the default direct-download
// plugin registered.
func NewManager(logger arbor.ILogger) *Manager {
	m := &Manager{logger: logger}
	m.Register(&directPlugin{})
	return m
}

// Register adds a plugin to the manager
func (m *Manager) Register(plugin Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = append(m.plugins, plugin)
	m.logger.Debug().
		Str("plugin", plugin.Name()).
		Int("plugin_count", len(m.plugins)).
		Msg("Plugin registered")
}

// BeforeStart invokes the pre-run hook on every registered plugin. The
// first failure aborts: a plugin that cannot start would silently drop the
// assets routed to it.
func (m *Manager) BeforeStart(ctx context.Context) error {
	m.mu.Lock()
	registered := make([]Plugin, len(m.plugins))
	copy(registered, m.plugins)
	m.mu.Unlock()

	for _, plugin := range registered {
		if err := plugin.BeforeStart(ctx); err != nil {
			return fmt.Errorf("plugin %s failed to start: %w", plugin.Name(), err)
		}
	}
	return nil
}

// directPlugin is the built-in pass-through plugin: assets it claims are
// fetched by the download manager directly.
type directPlugin struct{}

func (p *directPlugin) Name() string { return "direct" }

func (p *directPlugin) BeforeStart(ctx context.Context) error { return nil }
