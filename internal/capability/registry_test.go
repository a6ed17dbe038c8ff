package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapability struct {
	name        string
	description string
	example     string
}

func (f *fakeCapability) Name() string        { return f.name }
func (f *fakeCapability) Description() string { return f.description }
func (f *fakeCapability) Example() string     { return f.example }

func (f *fakeCapability) Execute(ctx context.Context, argument string) string {
	return "ok: " + argument
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	c := &fakeCapability{name: "echo"}
	require.NoError(t, registry.Register(c))

	got, err := registry.Get("echo")
	require.NoError(t, err)
	assert.Equal(t, "ok: hi", got.Execute(context.Background(), "hi"))

	_, err = registry.Get("missing")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&fakeCapability{name: "echo"}))
	assert.Error(t, registry.Register(&fakeCapability{name: "echo"}))
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&fakeCapability{name: "wikipedia"}))
	require.NoError(t, registry.Register(&fakeCapability{name: "calculate"}))

	assert.Equal(t, []string{"calculate", "wikipedia"}, registry.Names())
}

func TestRegistryPromptSection(t *testing.T) {
	registry := NewRegistry()
	assert.Empty(t, registry.PromptSection())

	require.NoError(t, registry.Register(&fakeCapability{
		name:        "calculate",
		description: "Runs a calculation and returns the number",
		example:     "calculate: 4 * 7 / 3",
	}))
	require.NoError(t, registry.Register(&fakeCapability{
		name:        "wikipedia",
		description: "Returns a summary from searching the web",
	}))

	section := registry.PromptSection()
	assert.Contains(t, section, "calculate:\ne.g. calculate: 4 * 7 / 3\nRuns a calculation")
	assert.Contains(t, section, "wikipedia:\nReturns a summary")
}
