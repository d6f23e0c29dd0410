package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/branding"
	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
	"github.com/chenchenpp/springboot-code-mcp/internal/scaffold"
)

// ListOutput is the structured content of listPredefinedDependencies.
type ListOutput struct {
	Dependencies map[string]pom.Dependency `json:"dependencies"`
	Aliases      map[string][]string       `json:"aliases,omitempty"`
}

func (h *handlers) listPresets(_ context.Context, _ json.RawMessage) (*Result, error) {
	cat := h.deps.Catalog
	out := ListOutput{
		Dependencies: make(map[string]pom.Dependency),
		Aliases:      cat.Aliases(),
	}

	var b strings.Builder
	b.WriteString("Predefined Maven dependencies\n")
	for _, p := range cat.Presets() {
		out.Dependencies[p.Tag] = p.Dependency

		fmt.Fprintf(&b, "\n=== %s dependency ===\n%s\n", p.Tag, displayBlock(p.Dependency))
		if p.Description != "" {
			fmt.Fprintf(&b, "\nPurpose: %s\n", p.Description)
		}
		if p.Example == "" {
			continue
		}
		snippet, err := scaffold.Example(p.Example, p.Dependency)
		if err != nil {
			h.deps.Log.Warn("rendering usage example", zap.String("tag", p.Tag), zap.Error(err))
			continue
		}
		fmt.Fprintf(&b, "Usage example:\n%s\n", snippet)
	}

	if len(out.Aliases) > 0 {
		names := make([]string, 0, len(out.Aliases))
		for name := range out.Aliases {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\nAliases:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s = %s\n", name, strings.Join(out.Aliases[name], " + "))
		}
	}

	return TextResult(b.String(), out), nil
}

func (h *handlers) help(_ context.Context, _ json.RawMessage) (*Result, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s adds Maven dependencies to Spring Boot pom.xml files.\n", branding.DisplayName())
	b.WriteString("Dependencies that are already declared are skipped, so calls can be repeated safely.\n\n")

	b.WriteString("Tools:\n")
	for _, s := range h.registry.List() {
		fmt.Fprintf(&b, "  %-28s %s\n", s.Name, s.Description)
	}

	fmt.Fprintf(&b, "\nPreset tags: %s\n", strings.Join(h.deps.Catalog.Tags(), ", "))
	b.WriteString("\nExamples:\n")
	b.WriteString(`  injectPomDependencies  {"pomFilePath": "./pom.xml", "dependencyTypes": ["BOTH"]}` + "\n")
	b.WriteString(`  injectCustomDependency {"pomFilePath": "./pom.xml", "groupId": "org.projectlombok", "artifactId": "lombok", "version": "1.18.30", "scope": "provided"}` + "\n")

	return TextResult(b.String(), nil), nil
}

// displayBlock renders dep as a standalone block without the indentation
// used inside <dependencies>.
func displayBlock(dep pom.Dependency) string {
	lines := strings.Split(pom.Render(dep), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "    ")
	}
	return strings.Join(lines, "\n")
}
