package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
	"github.com/chenchenpp/springboot-code-mcp/internal/pomfile"
	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
	"github.com/chenchenpp/springboot-code-mcp/internal/scaffold"
)

const nextSteps = "Next steps:\n" +
	"  1. Run mvn clean install to fetch the new dependencies\n" +
	"  2. Refresh the project in your IDE"

type injectPresetsInput struct {
	PomFilePath     string   `json:"pomFilePath"`
	DependencyTypes []string `json:"dependencyTypes"`
}

// InjectPresetsOutput is the structured content of injectPomDependencies.
type InjectPresetsOutput struct {
	Success     bool     `json:"success"`
	PomFilePath string   `json:"pomFilePath"`
	Injected    []string `json:"injected"`
	Skipped     []string `json:"skipped"`
}

type injectCustomInput struct {
	PomFilePath string `json:"pomFilePath"`
	GroupID     string `json:"groupId"`
	ArtifactID  string `json:"artifactId"`
	Version     string `json:"version"`
	Scope       string `json:"scope"`
	Type        string `json:"type"`
}

// InjectCustomOutput is the structured content of injectCustomDependency.
type InjectCustomOutput struct {
	Success    bool           `json:"success"`
	Dependency pom.Dependency `json:"dependency"`
	Injected   bool           `json:"injected"`
}

func (h *handlers) injectPresets(ctx context.Context, args json.RawMessage) (*Result, error) {
	var in injectPresetsInput
	if err := json.Unmarshal(args, &in); err != nil {
		return ErrorResult("invalid arguments: %v", err), nil
	}

	deps, err := h.deps.Catalog.Resolve(in.DependencyTypes)
	if errors.Is(err, presets.ErrUnknownTag) {
		return ErrorResult("invalid dependencyTypes: %v", err), nil
	}
	if err != nil {
		return nil, err
	}

	out, err := h.deps.Injector.InjectFile(ctx, in.PomFilePath, deps)
	if err != nil {
		return h.injectFailure(in.PomFilePath, err)
	}

	res := out.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Processed pom.xml: %s\n\n", in.PomFilePath)
	writeKeys(&b, "Injected dependencies", res.Injected)
	if len(res.Skipped) > 0 {
		if len(res.Injected) > 0 {
			b.WriteString("\n")
		}
		writeKeys(&b, "Already present, skipped", res.Skipped)
	}
	if res.Changed() {
		b.WriteString("\n" + nextSteps)
		b.WriteString(h.usageExamples(in.DependencyTypes, res.Injected))
	}

	return TextResult(b.String(), InjectPresetsOutput{
		Success:     true,
		PomFilePath: out.Path,
		Injected:    res.Injected,
		Skipped:     res.Skipped,
	}), nil
}

func (h *handlers) injectCustom(ctx context.Context, args json.RawMessage) (*Result, error) {
	var in injectCustomInput
	if err := json.Unmarshal(args, &in); err != nil {
		return ErrorResult("invalid arguments: %v", err), nil
	}

	dep := pom.Dependency{
		GroupID:    strings.TrimSpace(in.GroupID),
		ArtifactID: strings.TrimSpace(in.ArtifactID),
		Version:    strings.TrimSpace(in.Version),
		Scope:      strings.TrimSpace(in.Scope),
		Type:       strings.TrimSpace(in.Type),
	}
	if err := dep.Validate(); err != nil {
		return ErrorResult("invalid dependency: %v", err), nil
	}

	out, err := h.deps.Injector.InjectFile(ctx, in.PomFilePath, []pom.Dependency{dep})
	if err != nil {
		return h.injectFailure(in.PomFilePath, err)
	}

	injected := out.Result.Changed()
	var text string
	if injected {
		text = fmt.Sprintf("Injected dependency: %s\n\n%s", dep, nextSteps)
	} else {
		text = fmt.Sprintf("Dependency already present, skipped: %s", dep.Key())
	}

	return TextResult(text, InjectCustomOutput{
		Success:    true,
		Dependency: dep,
		Injected:   injected,
	}), nil
}

// injectFailure turns an expected failure into an error result. Context
// cancellation is passed through as a real error.
func (h *handlers) injectFailure(path string, err error) (*Result, error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.Is(err, pomfile.ErrNotFound):
		return ErrorResult("error: file not found: %s", path), nil
	}
	h.deps.Log.Warn("dependency injection failed", zap.String("path", path), zap.Error(err))
	return ErrorResult("failed to inject dependencies: %v", err), nil
}

// usageExamples renders the snippet of every selected preset that was
// actually injected.
func (h *handlers) usageExamples(tags []string, injected []string) string {
	var b strings.Builder
	for _, p := range h.deps.Catalog.Selected(tags) {
		if p.Example == "" || !slices.Contains(injected, p.Dependency.Key()) {
			continue
		}
		snippet, err := scaffold.Example(p.Example, p.Dependency)
		if err != nil {
			h.deps.Log.Warn("rendering usage example", zap.String("tag", p.Tag), zap.Error(err))
			continue
		}
		fmt.Fprintf(&b, "\n\n=== %s usage example ===\n%s", p.Tag, snippet)
	}
	return b.String()
}

func writeKeys(b *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", title, len(keys))
	for _, k := range keys {
		fmt.Fprintf(b, "  - %s\n", k)
	}
}
