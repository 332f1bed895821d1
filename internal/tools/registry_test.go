package tools

import (
	"context"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its message argument",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"message": {Type: "string"},
			},
			Required: []string{"message"},
		},
	}
}

func echoHandler(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return args["message"], nil
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(echoTool("echo"), echoHandler))
	assert.Equal(t, 1, registry.Len())

	err := registry.Register(echoTool("echo"), echoHandler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = registry.Register(echoTool(""), echoHandler)
	require.Error(t, err)

	err = registry.Register(echoTool("no-handler"), nil)
	require.Error(t, err)
}

func TestRegistryToolsPreservesOrder(t *testing.T) {
	registry := NewRegistry(nil)
	for _, name := range []string{"zulu", "alpha", "mike"} {
		require.NoError(t, registry.Register(echoTool(name), echoHandler))
	}

	var names []string
	for _, tool := range registry.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, names)
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo"), echoHandler))

	result, err := registry.Dispatch(context.Background(), "echo", map[string]interface{}{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Dispatch(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Equal(t, CodeUnknownTool, CodeOf(err))
}

func TestRegistryDispatchValidatesArguments(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(echoTool("echo"), echoHandler))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "missing required argument", args: map[string]interface{}{}},
		{name: "wrong type", args: map[string]interface{}{"message": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Dispatch(context.Background(), "echo", tt.args)
			require.Error(t, err)
			assert.Equal(t, CodeInvalidArgument, CodeOf(err))
		})
	}
}

func TestRegistryDispatchRecoversPanic(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.Register(Tool{
		Name:        "boom",
		Description: "always panics",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		panic("kaboom")
	}))

	_, err := registry.Dispatch(context.Background(), "boom", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestCatalogRegistersBuiltinTools(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, NewCatalog(Toolbox{
		Files: NewFileOps(nil, nil),
		Web:   NewWebOps(WebOpsConfig{}),
	}, registry))

	assert.Equal(t, 20, registry.Len())

	result, err := registry.Dispatch(context.Background(), "add", map[string]interface{}{"a": 5.0, "b": 3.0})
	require.NoError(t, err)
	calc, ok := result.(*BasicCalcResult)
	require.True(t, ok)
	assert.Equal(t, 8.0, calc.Result)
}
