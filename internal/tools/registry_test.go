package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var echoSchema = json.RawMessage(`{
  "type": "object",
  "properties": {"msg": {"type": "string", "minLength": 1}},
  "required": ["msg"],
  "additionalProperties": false
}`)

func echoTool() Tool {
	return Tool{
		Name:        "echo",
		Description: "echo a message",
		InputSchema: echoSchema,
		Handler: func(_ context.Context, args json.RawMessage) (*Result, error) {
			var in struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return TextResult(in.Msg, nil), nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	err := r.Register(echoTool())
	assert.Error(t, err, "duplicate names must be rejected")

	bad := echoTool()
	bad.Name = "broken"
	bad.InputSchema = json.RawMessage(`{"type": 5}`)
	assert.Error(t, r.Register(bad), "schema that does not compile must be rejected")

	noHandler := echoTool()
	noHandler.Name = "nohandler"
	noHandler.Handler = nil
	assert.Error(t, r.Register(noHandler))

	assert.Equal(t, []string{"echo"}, r.Names())
}

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))
	ctx := context.Background()

	t.Run("valid arguments", func(t *testing.T) {
		res, err := r.Call(ctx, "echo", json.RawMessage(`{"msg":"hi"}`))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "hi", res.Text())
	})

	t.Run("schema violation", func(t *testing.T) {
		res, err := r.Call(ctx, "echo", json.RawMessage(`{"msg":""}`))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Text(), "invalid arguments for echo")
	})

	t.Run("missing arguments", func(t *testing.T) {
		res, err := r.Call(ctx, "echo", nil)
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("not json", func(t *testing.T) {
		res, err := r.Call(ctx, "echo", json.RawMessage(`{msg`))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := r.Call(ctx, "nope", nil)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "echo", list[0].Name)
	assert.JSONEq(t, string(echoSchema), string(list[0].InputSchema))
}
