package plugins

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

type recordingPlugin struct {
	name   string
	err    error
	order  *[]string
	called int
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) BeforeStart(ctx context.Context) error {
	p.called++
	if p.order != nil {
		*p.order = append(*p.order, p.name)
	}
	return p.err
}

func TestManager_BeforeStartRunsInRegistrationOrder(t *testing.T) {
	m := NewManager(arbor.NewLogger())

	var order []string
	m.Register(&recordingPlugin{name: "first", order: &order})
	m.Register(&recordingPlugin{name: "second", order: &order})

	assert.NoError(t, m.BeforeStart(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManager_FirstFailureAborts(t *testing.T) {
	m := NewManager(arbor.NewLogger())

	failing := &recordingPlugin{name: "broken", err: fmt.Errorf("no config")}
	after := &recordingPlugin{name: "after"}
	m.Register(failing)
	m.Register(after)

	err := m.BeforeStart(context.Background())
	assert.ErrorContains(t, err, "broken")
	assert.Zero(t, after.called, "plugins after the failure must not run")
}

func TestNewManager_RegistersDirectPlugin(t *testing.T) {
	m := NewManager(arbor.NewLogger())
	assert.Len(t, m.plugins, 1)
	assert.Equal(t, "direct", m.plugins[0].Name())
}
