package pomfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("pom file not found")

// BackupSuffix is appended to the manifest path for the pre-write copy.
const BackupSuffix = ".bak"

const defaultPerm fs.FileMode = 0644

// WriteOptions controls how Write replaces a manifest.
type WriteOptions struct {
	// Backup copies the current file to <path>.bak before replacing it.
	Backup bool
}

// Resolve returns the cleaned absolute form of path.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("pom file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// Target returns the file that path refers to once symlinks are followed.
// A path that does not exist yet is its own target.
func Target(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("following symlinks in %s: %w", path, err)
	}
	return resolved, nil
}

// Read returns the manifest text at path. A missing file yields an error
// matching ErrNotFound.
func Read(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a pom file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the file at path with content. A symlink is written through
// to its target and left in place. The original permission bits are kept; a
// new file gets 0644.
func Write(path, content string, opts WriteOptions) error {
	path, err := Target(path)
	if err != nil {
		return err
	}

	perm := defaultPerm
	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		if opts.Backup {
			if err := copyFile(path, path+BackupSuffix, perm); err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// chmod is a no-op on Windows, which lacks Unix permission bits.
func chmod(path string, mode fs.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
