//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chenchenpp/springboot-code-mcp/internal/pomfile"
	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
	"github.com/chenchenpp/springboot-code-mcp/internal/server"
	"github.com/chenchenpp/springboot-code-mcp/internal/tools"
)

// testEnv holds an isolated project and a running HTTP server.
type testEnv struct {
	ProjectDir string // contains pom.xml
	BaseURL    string // http://127.0.0.1:<port>
	Client     *http.Client
}

const minimalPom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>demo</artifactId>
  <version>0.0.1-SNAPSHOT</version>

  <dependencies>
    <dependency>
      <groupId>org.springframework.boot</groupId>
      <artifactId>spring-boot-starter-web</artifactId>
    </dependency>
  </dependencies>
</project>
`

// setupTestEnv writes a pom.xml into a temp project and starts the MCP
// server on a random port. The server stops when the test ends.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ProjectDir: t.TempDir(),
		Client:     &http.Client{Timeout: 10 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}},
	}
	writeFile(t, filepath.Join(env.ProjectDir, "pom.xml"), minimalPom)

	cat, err := presets.Builtin()
	if err != nil {
		t.Fatalf("loading presets: %v", err)
	}
	reg, err := tools.New(tools.Deps{
		Catalog:  cat,
		Injector: pomfile.NewInjector(nil, pomfile.WriteOptions{Backup: true}),
	})
	if err != nil {
		t.Fatalf("building tools: %v", err)
	}
	srv := server.New(reg, server.Options{Name: "rt-api-mcp", Version: "test"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	env.BaseURL = "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln, "/mcp") }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server shutdown: %v", err)
		}
	})

	return env
}

// rpc posts one JSON-RPC request and decodes the result into out.
func (e *testEnv) rpc(t *testing.T, id int, method string, params any, out any) http.Header {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := e.Client.Post(e.BaseURL+"/mcp", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("%s: decoding response: %v", method, err)
	}
	if envelope.Error != nil {
		t.Fatalf("%s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			t.Fatalf("%s: decoding result: %v", method, err)
		}
	}
	return resp.Header
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
