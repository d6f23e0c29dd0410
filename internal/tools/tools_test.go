package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cat, err := presets.Builtin()
	require.NoError(t, err)
	r, err := New(Deps{Catalog: cat, Log: zap.NewNop()})
	require.NoError(t, err)
	return r
}

func fixturePom(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "pom.xml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pom.xml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func call(t *testing.T, r *Registry, name string, args any) *Result {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	res, err := r.Call(context.Background(), name, raw)
	require.NoError(t, err)
	return res
}

func structured[T any](t *testing.T, res *Result) T {
	t.Helper()
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestNew_RegistersAllTools(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{
		InjectPomDependencies,
		InjectCustomDependency,
		ListPredefinedDependencies,
		Help,
	}, r.Names())

	_, err := New(Deps{})
	assert.Error(t, err, "catalog is required")
}

func TestInjectPomDependencies(t *testing.T) {
	r := newTestRegistry(t)
	path := fixturePom(t)

	res := call(t, r, InjectPomDependencies, map[string]any{
		"pomFilePath":     path,
		"dependencyTypes": []string{"BOTH"},
	})
	require.False(t, res.IsError, res.Text())

	out := structured[InjectPresetsOutput](t, res)
	assert.True(t, out.Success)
	assert.Equal(t, path, out.PomFilePath)
	assert.Equal(t, []string{"com.feiniu:ssospring", "com.feiniu.fnemp:fnemp-apiclient"}, out.Injected)
	assert.Empty(t, out.Skipped)

	text := res.Text()
	assert.Contains(t, text, "Injected dependencies (2):")
	assert.Contains(t, text, "mvn clean install")
	assert.Contains(t, text, "=== SSO usage example ===")
	assert.Contains(t, text, "=== FEIGN usage example ===")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<artifactId>fnemp-apiclient</artifactId>")

	// A repeat call skips both and shows no examples.
	again := call(t, r, InjectPomDependencies, map[string]any{
		"pomFilePath":     path,
		"dependencyTypes": []string{"SSO", "FEIGN"},
	})
	require.False(t, again.IsError)
	out = structured[InjectPresetsOutput](t, again)
	assert.Empty(t, out.Injected)
	assert.Len(t, out.Skipped, 2)
	assert.Contains(t, again.Text(), "Already present, skipped (2):")
	assert.NotContains(t, again.Text(), "usage example")
}

func TestInjectPomDependencies_Errors(t *testing.T) {
	r := newTestRegistry(t)

	noAnchor := filepath.Join(t.TempDir(), "pom.xml")
	require.NoError(t, os.WriteFile(noAnchor, []byte("<project/>"), 0644))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "missing file",
			args: map[string]any{"pomFilePath": filepath.Join(t.TempDir(), "pom.xml"), "dependencyTypes": []string{"SSO"}},
			want: "file not found",
		},
		{
			name: "unknown tag",
			args: map[string]any{"pomFilePath": fixturePom(t), "dependencyTypes": []string{"KAFKA"}},
			want: "unknown preset tag",
		},
		{
			name: "missing anchor",
			args: map[string]any{"pomFilePath": noAnchor, "dependencyTypes": []string{"SSO"}},
			want: "failed to inject dependencies",
		},
		{
			name: "missing dependencyTypes",
			args: map[string]any{"pomFilePath": fixturePom(t)},
			want: "invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, r, InjectPomDependencies, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Text(), tt.want)
		})
	}
}

func TestInjectCustomDependency(t *testing.T) {
	r := newTestRegistry(t)
	path := fixturePom(t)
	args := map[string]any{
		"pomFilePath": path,
		"groupId":     "org.projectlombok",
		"artifactId":  "lombok",
		"version":     "1.18.30",
		"scope":       "provided",
	}

	res := call(t, r, InjectCustomDependency, args)
	require.False(t, res.IsError, res.Text())
	out := structured[InjectCustomOutput](t, res)
	assert.True(t, out.Success)
	assert.True(t, out.Injected)
	assert.Equal(t, "provided", out.Dependency.Scope)
	assert.Contains(t, res.Text(), "Injected dependency: org.projectlombok:lombok:1.18.30")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "      <scope>provided</scope>")

	again := call(t, r, InjectCustomDependency, args)
	require.False(t, again.IsError)
	assert.False(t, structured[InjectCustomOutput](t, again).Injected)
	assert.Contains(t, again.Text(), "already present")
}

func TestInjectCustomDependency_Invalid(t *testing.T) {
	r := newTestRegistry(t)

	res := call(t, r, InjectCustomDependency, map[string]any{
		"pomFilePath": fixturePom(t),
		"groupId":     "   ",
		"artifactId":  "lombok",
		"version":     "1.18.30",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "groupId")
}

func TestListPredefinedDependencies(t *testing.T) {
	r := newTestRegistry(t)

	res := call(t, r, ListPredefinedDependencies, map[string]any{})
	require.False(t, res.IsError)

	out := structured[ListOutput](t, res)
	require.Contains(t, out.Dependencies, "SSO")
	assert.Equal(t, "ssospring", out.Dependencies["SSO"].ArtifactID)
	assert.Equal(t, "1.2.4-SNAPSHOT", out.Dependencies["FEIGN"].Version)
	assert.Equal(t, []string{"SSO", "FEIGN"}, out.Aliases["BOTH"])

	text := res.Text()
	assert.Contains(t, text, "=== SSO dependency ===\n<dependency>\n  <groupId>com.feiniu</groupId>")
	assert.Contains(t, text, "ssoAuth.authLogined(token)")
	assert.Contains(t, text, "BOTH = SSO + FEIGN")
}

func TestHelp(t *testing.T) {
	r := newTestRegistry(t)

	res := call(t, r, Help, nil)
	require.False(t, res.IsError)
	for _, name := range r.Names() {
		assert.True(t, strings.Contains(res.Text(), name), "help should mention %s", name)
	}
	assert.Contains(t, res.Text(), "SSO, FEIGN, BOTH")
}
