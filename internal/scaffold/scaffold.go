package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
)

//go:embed examples/*.java.tmpl
var examplesFS embed.FS

const (
	examplesDir = "examples"
	templateExt = ".java.tmpl"
)

// Names returns the available example names in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(examplesFS, examplesDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), templateExt))
	}
	sort.Strings(names)
	return names
}

// Example renders the named usage snippet for dep. The result has no
// trailing newline.
func Example(name string, dep pom.Dependency) (string, error) {
	if name == "" {
		return "", fmt.Errorf("example name is empty")
	}

	tmplPath := path.Join(examplesDir, name+templateExt)
	tmplBytes, err := fs.ReadFile(examplesFS, tmplPath)
	if err != nil {
		return "", fmt.Errorf("example %q not found (available: %s)", name, strings.Join(Names(), ", "))
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("parsing example %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, dep); err != nil {
		return "", fmt.Errorf("executing example %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
