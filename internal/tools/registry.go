package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool names.
const (
	InjectPomDependencies      = "injectPomDependencies"
	InjectCustomDependency     = "injectCustomDependency"
	ListPredefinedDependencies = "listPredefinedDependencies"
	Help                       = "help"
)

// ErrUnknownTool is returned by Call for a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Content is one block of tool output. Only text blocks are produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of a tool call as sent to the client.
type Result struct {
	Content           []Content `json:"content"`
	StructuredContent any       `json:"structuredContent,omitempty"`
	IsError           bool      `json:"isError,omitempty"`
}

// Text returns the concatenated text blocks.
func (r *Result) Text() string {
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// TextResult returns a successful result with one text block.
func TextResult(text string, structured any) *Result {
	return &Result{
		Content:           []Content{{Type: "text", Text: text}},
		StructuredContent: structured,
	}
}

// ErrorResult returns a failed result whose text is the formatted message.
func ErrorResult(format string, args ...any) *Result {
	return &Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// Handler runs a tool. A returned error is an internal failure; expected
// failures are reported through an error Result.
type Handler func(ctx context.Context, args json.RawMessage) (*Result, error)

// Tool is a named, schema-described operation.
type Tool struct {
	Name        string
	Title       string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Schema is the listing form of a tool.
type Schema struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type entry struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry holds tools in registration order.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds t. Names must be unique and the input schema must compile.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}
	if _, dup := r.index[t.Name]; dup {
		return fmt.Errorf("tool %s already registered", t.Name)
	}

	schema, err := compileSchema(t.Name, t.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %s: %w", t.Name, err)
	}

	r.index[t.Name] = len(r.entries)
	r.entries = append(r.entries, entry{tool: t, schema: schema})
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.entries[i].tool, true
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.tool.Name)
	}
	return names
}

// List returns the listing form of every tool in registration order.
func (r *Registry) List() []Schema {
	out := make([]Schema, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Schema{
			Name:        e.tool.Name,
			Title:       e.tool.Title,
			Description: e.tool.Description,
			InputSchema: e.tool.InputSchema,
		})
	}
	return out
}

// Call validates args against the tool's schema and runs its handler.
// Missing or null args are treated as an empty object.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	e := r.entries[i]

	args = normalizeArgs(args)
	if issues, err := validateArgs(e.schema, args); err != nil {
		return ErrorResult("invalid arguments for %s: %v", name, err), nil
	} else if len(issues) > 0 {
		return ErrorResult("invalid arguments for %s: %s", name, joinIssues(issues)), nil
	}

	return e.tool.Handler(ctx, args)
}

func normalizeArgs(args json.RawMessage) json.RawMessage {
	if len(args) == 0 || string(args) == "null" {
		return json.RawMessage("{}")
	}
	return args
}
