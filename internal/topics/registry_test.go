package topics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SocialMonitor/internal/ports"
)

type namedModeler struct {
	name string
}

func (m namedModeler) Name() string { return m.name }

func (m namedModeler) Model(_ context.Context, texts []string) (ports.TopicModel, error) {
	return ports.TopicModel{Assignments: make([]int, len(texts))}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(namedModeler{name: "embedding"})
	registry.Register(namedModeler{name: "keywords"})

	modeler, err := registry.Resolve("keywords")
	require.NoError(t, err)
	assert.Equal(t, "keywords", modeler.Name())
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, err := registry.Resolve("bertopic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bertopic")
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := namedModeler{name: "embedding"}
	second := namedModeler{name: "embedding"}
	registry.Register(first)
	registry.Register(second)

	modeler, err := registry.Resolve("embedding")
	require.NoError(t, err)
	assert.Equal(t, second, modeler)
}
