package pomfile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chenchenpp/springboot-code-mcp/internal/logging"
	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
)

// DefaultConcurrency bounds how many files InjectFiles processes at once.
const DefaultConcurrency = 8

// Outcome is the result of injecting into one file.
type Outcome struct {
	// Path is the absolute path of the manifest.
	Path   string
	Result *pom.Result
	// Written is true when the file on disk was replaced.
	Written bool
	Err     error
}

// Injector runs read-inject-write cycles against manifest files. Cycles on
// the same file, whether reached directly or through symlinks, never overlap.
type Injector struct {
	log  *zap.Logger
	opts WriteOptions

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewInjector returns an Injector that writes with opts.
func NewInjector(log *zap.Logger, opts WriteOptions) *Injector {
	return &Injector{
		log:   logging.OrNop(log),
		opts:  opts,
		locks: make(map[string]chan struct{}),
	}
}

// lock acquires the per-path lock, giving up when ctx is done.
func (i *Injector) lock(ctx context.Context, path string) (func(), error) {
	i.mu.Lock()
	ch, ok := i.locks[path]
	if !ok {
		ch = make(chan struct{}, 1)
		i.locks[path] = ch
	}
	i.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InjectFile injects deps into the manifest at path. The file is rewritten
// only when at least one dependency was injected.
func (i *Injector) InjectFile(ctx context.Context, path string, deps []pom.Dependency) (*Outcome, error) {
	abs, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	// Links to one file share its lock.
	target, err := Target(abs)
	if err != nil {
		return nil, err
	}

	unlock, err := i.lock(ctx, target)
	if err != nil {
		return nil, err
	}
	defer unlock()

	content, err := Read(target)
	if err != nil {
		return nil, err
	}

	result, err := pom.Inject(content, deps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}

	out := &Outcome{Path: abs, Result: result}
	if result.Changed() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := Write(target, result.Content, i.opts); err != nil {
			return nil, err
		}
		out.Written = true
	}

	i.log.Debug("processed pom file",
		zap.String("path", abs),
		zap.Strings("injected", result.Injected),
		zap.Strings("skipped", result.Skipped),
		zap.Bool("written", out.Written))
	return out, nil
}

// InjectFiles runs InjectFile for every path concurrently and returns one
// Outcome per path in input order. A failure on one file is recorded in its
// Outcome and does not stop the others; the returned error is non-nil only
// when ctx is cancelled.
func (i *Injector) InjectFiles(ctx context.Context, paths []string, deps []pom.Dependency) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for idx, path := range paths {
		g.Go(func() error {
			out, err := i.InjectFile(gctx, path, deps)
			if err != nil {
				outcomes[idx] = Outcome{Path: path, Err: err}
				if abs, rerr := Resolve(path); rerr == nil {
					outcomes[idx].Path = abs
				}
				i.log.Warn("pom injection failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			outcomes[idx] = *out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
