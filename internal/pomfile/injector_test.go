package pomfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
)

var ssoDep = pom.Dependency{GroupID: "com.feiniu", ArtifactID: "ssospring", Version: "1.0.0-SNAPSHOT"}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestInjectFile(t *testing.T) {
	path := copyFixture(t, 0644)
	inj := NewInjector(nil, WriteOptions{})
	ctx := context.Background()

	out, err := inj.InjectFile(ctx, path, []pom.Dependency{ssoDep})
	if err != nil {
		t.Fatalf("InjectFile() error: %v", err)
	}
	if !out.Written {
		t.Error("first call should write the file")
	}
	if len(out.Result.Injected) != 1 || out.Result.Injected[0] != "com.feiniu:ssospring" {
		t.Errorf("Injected = %v", out.Result.Injected)
	}
	if got := readString(t, path); got != out.Result.Content {
		t.Error("file content differs from Result.Content")
	}

	again, err := inj.InjectFile(ctx, path, []pom.Dependency{ssoDep})
	if err != nil {
		t.Fatalf("second InjectFile() error: %v", err)
	}
	if again.Written {
		t.Error("second call should not rewrite the file")
	}
	if len(again.Result.Skipped) != 1 {
		t.Errorf("Skipped = %v, want one key", again.Result.Skipped)
	}
}

func TestInjectFile_MissingAnchor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.xml")
	const content = "<project>\n  <dependencies/>\n</project>\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewInjector(nil, WriteOptions{}).InjectFile(context.Background(), path, []pom.Dependency{ssoDep})
	if !errors.Is(err, pom.ErrAnchorNotFound) {
		t.Fatalf("InjectFile() error = %v, want ErrAnchorNotFound", err)
	}
	if got := readString(t, path); got != content {
		t.Error("file was modified despite the error")
	}
}

func TestInjectFile_Cancelled(t *testing.T) {
	path := copyFixture(t, 0644)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inj := NewInjector(nil, WriteOptions{})
	abs, _ := Resolve(path)
	unlock, err := inj.lock(context.Background(), abs)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	if _, err := inj.InjectFile(ctx, path, []pom.Dependency{ssoDep}); !errors.Is(err, context.Canceled) {
		t.Errorf("InjectFile() error = %v, want context.Canceled", err)
	}
}

func TestInjectFiles(t *testing.T) {
	first := copyFixture(t, 0644)
	second := copyFixture(t, 0644)
	missing := filepath.Join(t.TempDir(), "pom.xml")

	outcomes, err := NewInjector(nil, WriteOptions{}).InjectFiles(context.Background(),
		[]string{first, missing, second}, []pom.Dependency{ssoDep})
	if err != nil {
		t.Fatalf("InjectFiles() error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}

	for _, idx := range []int{0, 2} {
		o := outcomes[idx]
		if o.Err != nil || !o.Written {
			t.Errorf("outcome %d = %+v, want written without error", idx, o)
		}
	}
	if outcomes[0].Path != first || outcomes[2].Path != second {
		t.Error("outcomes are not in input order")
	}
	if !errors.Is(outcomes[1].Err, ErrNotFound) {
		t.Errorf("outcome 1 error = %v, want ErrNotFound", outcomes[1].Err)
	}
}

func TestInjectFiles_SamePathSerialized(t *testing.T) {
	path := copyFixture(t, 0644)
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = path
	}

	outcomes, err := NewInjector(nil, WriteOptions{}).InjectFiles(context.Background(), paths, []pom.Dependency{ssoDep})
	if err != nil {
		t.Fatalf("InjectFiles() error: %v", err)
	}

	written := 0
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("unexpected error: %v", o.Err)
		}
		if o.Written {
			written++
		}
	}
	if written != 1 {
		t.Errorf("file written %d times, want 1", written)
	}
	if n := strings.Count(readString(t, path), "<artifactId>ssospring</artifactId>"); n != 1 {
		t.Errorf("dependency appears %d times, want 1", n)
	}
}

func TestInjectFiles_SymlinksShareLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on Windows")
	}
	target := copyFixture(t, 0644)
	dir := t.TempDir()
	paths := []string{target}
	for _, name := range []string{"a-pom.xml", "b-pom.xml", "c-pom.xml"} {
		link := filepath.Join(dir, name)
		if err := os.Symlink(target, link); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, link, link)
	}

	outcomes, err := NewInjector(nil, WriteOptions{}).InjectFiles(context.Background(), paths, []pom.Dependency{ssoDep})
	if err != nil {
		t.Fatalf("InjectFiles() error: %v", err)
	}

	written := 0
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("unexpected error: %v", o.Err)
		}
		if o.Written {
			written++
		}
	}
	if written != 1 {
		t.Errorf("file written %d times, want 1", written)
	}
	if n := strings.Count(readString(t, target), "<artifactId>ssospring</artifactId>"); n != 1 {
		t.Errorf("dependency appears %d times in the target, want 1", n)
	}
	for _, p := range paths[1:] {
		info, err := os.Lstat(p)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			t.Errorf("%s is no longer a symlink", p)
		}
	}
}
