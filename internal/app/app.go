// Package app implements the application layer for shade.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/shade/internal/adapters/watcher"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Explorer is the slice of the discovery engine the application layer needs.
type Explorer interface {
	GetOrScan(ctx context.Context, root string, maxItems int) (*domain.ListResult, error)
	Invalidate(root string)
	InvalidateAll()
	Abort(root string)
	SetTTL(ttl time.Duration)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	explorer     Explorer
	watcher      ports.Watcher
	logger       ports.Logger
	cwd          string
	debounce     func(onBatch func([]string)) *watcher.Debouncer
}

// New creates a new App instance rooted at the current working directory.
func New(loader ports.ConfigLoader, explorer Explorer, w ports.Watcher, log ports.Logger) *App {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &App{
		configLoader: loader,
		explorer:     explorer,
		watcher:      w,
		logger:       log,
		cwd:          cwd,
		debounce: func(onBatch func([]string)) *watcher.Debouncer {
			return watcher.NewDebouncer(watcher.DefaultDebounceWindow, onBatch)
		},
	}
}

// WithWorkingDir overrides the directory config resolution starts from.
// Used for testing.
func (a *App) WithWorkingDir(cwd string) *App {
	a.cwd = cwd
	return a
}

// WithDebounceWindow overrides the watch debounce window. Used for testing.
func (a *App) WithDebounceWindow(f func(onBatch func([]string)) *watcher.Debouncer) *App {
	a.debounce = f
	return a
}

// ListOptions configuration for the List and Paths methods.
type ListOptions struct {
	// Path, when set, scans that single root instead of the configured ones.
	Path string
	// MaxItems, when positive, overrides the configured result cap.
	MaxItems int
}

// RootListing is the outcome of scanning one workspace root.
type RootListing struct {
	Root   string
	Result *domain.ListResult
	Err    error
}

// List scans every target root concurrently and reports one listing per
// root. Roots fail independently: a stray non-repository root does not take
// the others down with it.
func (a *App) List(ctx context.Context, opts ListOptions) ([]RootListing, error) {
	settings, err := a.resolveSettings(opts)
	if err != nil {
		return nil, err
	}

	listings := make([]RootListing, len(settings.Roots))
	g, ctx := errgroup.WithContext(ctx)
	for i, root := range settings.Roots {
		g.Go(func() error {
			result, err := a.explorer.GetOrScan(ctx, root, settings.MaxItems)
			listings[i] = RootListing{Root: root, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return listings, nil
}

// Paths resolves the ignored entries of every target root to absolute paths,
// in configured root order. Unlike List, any root failure fails the call.
func (a *App) Paths(ctx context.Context, opts ListOptions) ([]string, error) {
	listings, err := a.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, listing := range listings {
		if listing.Err != nil {
			return nil, listing.Err
		}
		for _, rel := range listing.Result.Files {
			paths = append(paths, filepath.Join(listing.Root, filepath.FromSlash(rel)))
		}
	}

	return paths, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ListOptions
	// Force actually deletes. Without it Clean only reports what would go.
	Force bool
}

// CleanReport summarizes one clean run.
type CleanReport struct {
	// Entries are the absolute paths selected for deletion.
	Entries []string
	// Deleted is how many entries were removed. Zero on a dry run.
	Deleted int
	// Truncated reports whether any root's listing was capped, meaning more
	// ignored entries exist than were selected.
	Truncated bool
}

// Clean removes the ignored entries under the target roots. The default is a
// dry run; deletion requires Force. Entries that would resolve outside their
// root are refused outright.
func (a *App) Clean(ctx context.Context, opts CleanOptions) (*CleanReport, error) {
	// Deleting from a stale listing would remove files git no longer
	// ignores. Always look again.
	settings, err := a.resolveSettings(opts.ListOptions)
	if err != nil {
		return nil, err
	}
	for _, root := range settings.Roots {
		a.explorer.Invalidate(root)
	}

	listings, err := a.List(ctx, opts.ListOptions)
	if err != nil {
		return nil, err
	}

	report := &CleanReport{}
	for _, listing := range listings {
		if listing.Err != nil {
			return nil, listing.Err
		}
		if listing.Result.Truncated {
			report.Truncated = true
		}
		for _, rel := range listing.Result.Files {
			if !filepath.IsLocal(filepath.FromSlash(rel)) {
				return nil, zerr.With(domain.ErrDeleteOutsideRoot, "entry", rel)
			}
			report.Entries = append(report.Entries, filepath.Join(listing.Root, filepath.FromSlash(rel)))
		}
	}

	if !opts.Force {
		return report, nil
	}

	var failures error
	for _, path := range report.Entries {
		if err := os.RemoveAll(path); err != nil {
			failures = errors.Join(failures, err)
			continue
		}
		report.Deleted++
	}
	if failures != nil {
		return report, errors.Join(domain.ErrDeleteFailed, failures)
	}

	// The deleted entries are gone; cached listings for these roots are
	// fiction now.
	for _, root := range settings.Roots {
		a.explorer.Invalidate(root)
	}

	return report, nil
}

// Watch scans the target roots, then rescans whenever the file system under
// them changes. Bursts of events coalesce into one rescan per root. Watch
// blocks until ctx is cancelled.
//
// Events still pending in the debounce window at shutdown are dropped, not
// flushed: the cache dies with the process, so the rescan they would trigger
// could never be observed.
func (a *App) Watch(ctx context.Context, opts ListOptions) error {
	settings, err := a.resolveSettings(opts)
	if err != nil {
		return err
	}

	for _, root := range settings.Roots {
		if err := a.watcher.Start(ctx, root); err != nil {
			return err
		}
	}

	// Initial pass so the watch starts from a known state.
	for _, root := range settings.Roots {
		a.rescan(ctx, root, settings.MaxItems)
	}

	deb := a.debounce(func(paths []string) {
		for _, root := range affectedRoots(settings.Roots, paths) {
			a.explorer.Abort(root)
			a.explorer.Invalidate(root)
			a.rescan(ctx, root, settings.MaxItems)
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return a.watcher.Stop()
	})
	g.Go(func() error {
		for event := range a.watcher.Events() {
			deb.Add(event.Path)
		}
		return nil
	})

	return g.Wait()
}

// rescan refreshes one root and logs the outcome. Failures are logged, not
// returned: a watch session outlives individual scan errors.
func (a *App) rescan(ctx context.Context, root string, maxItems int) {
	result, err := a.explorer.GetOrScan(ctx, root, maxItems)
	switch {
	case errors.Is(err, domain.ErrScanCancelled):
		// Superseded by a newer change burst or shutdown.
	case err != nil:
		a.logger.Error(zerr.Wrap(err, "rescan failed for "+root))
	case result.Truncated:
		a.logger.Warn(fmt.Sprintf("%s: %d ignored entries (truncated)", root, len(result.Files)))
	default:
		a.logger.Info(fmt.Sprintf("%s: %d ignored entries", root, len(result.Files)))
	}
}

// resolveSettings merges the configured settings with per-invocation
// overrides. An explicit path replaces the configured roots entirely.
func (a *App) resolveSettings(opts ListOptions) (*domain.Settings, error) {
	settings, err := a.configLoader.Load(a.cwd)
	if err != nil {
		return nil, err
	}

	// The cache lifetime is a workspace setting; hand it to the engine here
	// so every operation runs against the configured TTL.
	a.explorer.SetTTL(settings.TTL)

	if opts.Path != "" {
		root, err := filepath.Abs(opts.Path)
		if err != nil {
			return nil, zerr.With(domain.ErrRootNotFound, "root", opts.Path)
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, zerr.With(domain.ErrRootNotFound, "root", root)
		}
		settings.Roots = []string{root}
	}

	if opts.MaxItems > 0 {
		settings.MaxItems = min(opts.MaxItems, domain.MaxItemsCeiling)
	}

	return settings, nil
}

// affectedRoots maps changed paths back to the roots that contain them,
// preserving root order and dropping duplicates.
func affectedRoots(roots []string, paths []string) []string {
	var affected []string
	for _, root := range roots {
		prefix := root + string(filepath.Separator)
		for _, path := range paths {
			if path == root || strings.HasPrefix(path, prefix) {
				affected = append(affected, root)
				break
			}
		}
	}
	return affected
}
