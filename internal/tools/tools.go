package tools

import (
	"embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/logging"
	"github.com/chenchenpp/springboot-code-mcp/internal/pomfile"
	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
)

//go:embed schema/*.json
var schemaFS embed.FS

func mustSchema(name string) json.RawMessage {
	data, err := schemaFS.ReadFile("schema/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("missing embedded schema %s: %v", name, err))
	}
	return data
}

// Deps are the collaborators the built-in tools work with.
type Deps struct {
	Catalog  *presets.Catalog
	Injector *pomfile.Injector
	Log      *zap.Logger
}

// New returns a registry holding every built-in tool.
func New(d Deps) (*Registry, error) {
	if d.Catalog == nil {
		return nil, fmt.Errorf("tools: preset catalog is required")
	}
	d.Log = logging.OrNop(d.Log)
	if d.Injector == nil {
		d.Injector = pomfile.NewInjector(d.Log, pomfile.WriteOptions{})
	}

	r := NewRegistry()
	h := &handlers{deps: d, registry: r}

	tools := []Tool{
		{
			Name:        InjectPomDependencies,
			Description: "Inject preset dependencies (SSO, FEIGN or BOTH) into a Spring Boot pom.xml, skipping any that are already declared",
			InputSchema: mustSchema(InjectPomDependencies),
			Handler:     h.injectPresets,
		},
		{
			Name:        InjectCustomDependency,
			Description: "Inject a custom Maven dependency into a pom.xml file",
			InputSchema: mustSchema(InjectCustomDependency),
			Handler:     h.injectCustom,
		},
		{
			Name:        ListPredefinedDependencies,
			Description: "List the predefined Maven dependencies and their usage examples",
			InputSchema: mustSchema("empty"),
			Handler:     h.listPresets,
		},
		{
			Name:        Help,
			Title:       "Help",
			Description: "Describe the available tools and how to call them",
			InputSchema: mustSchema("empty"),
			Handler:     h.help,
		},
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type handlers struct {
	deps     Deps
	registry *Registry
}
