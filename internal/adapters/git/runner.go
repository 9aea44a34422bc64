// Package git runs the external git process that enumerates ignored files.
package git

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Runner)(nil)

// lsFilesArgs asks git for untracked files matched by the standard exclusion
// rules. NUL delimiting is mandatory: paths may contain bytes (including
// newlines) that a line-based format cannot represent unambiguously.
var lsFilesArgs = []string{"ls-files", "--others", "--ignored", "--exclude-standard", "-z"}

// notARepoMarker is the substring git prints on stderr when the working
// directory is outside any repository. The match is a best-effort heuristic:
// it is locale- and version-fragile, but git exposes no more reliable signal
// that also covers older versions.
const notARepoMarker = "not a git repository"

// stderrLimit bounds how much of the error stream is retained for diagnostics.
const stderrLimit = 4 << 10

// Runner implements ports.Scanner using os/exec.
type Runner struct {
	// gitPath overrides the executable name; tests point it at a stub.
	gitPath string
}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{gitPath: "git"}
}

// Scan spawns one git process rooted at root and streams its NUL-delimited
// output into a sorted, deduplicated list of at most maxItems relative paths.
// The child is killed as soon as the cap is reached.
func (r *Runner) Scan(ctx context.Context, root string, maxItems int) (*domain.ListResult, error) {
	if maxItems <= 0 {
		return nil, zerr.With(domain.ErrInvalidMaxItems, "max_items", maxItems)
	}
	if ctx.Err() != nil {
		// Pre-cancelled request: never spawn the process.
		return nil, zerr.Wrap(domain.ErrScanCancelled, "cancelled before scan started")
	}

	cmd := exec.CommandContext(ctx, r.gitPath, lsFilesArgs...) //nolint:gosec // fixed argument list
	cmd.Dir = root

	var stderr tailBuffer
	stderr.limit = stderrLimit
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrScanSpawnFailed, err.Error()), "root", root)
	}

	files, truncated, readErr := collect(stdout, maxItems)
	if truncated || readErr != nil {
		// Reading stopped before the stream ended, either because the cap
		// was reached or the stream was malformed. Nobody will drain the
		// rest, so kill the child instead of letting Wait block on a full
		// pipe forever.
		_ = cmd.Process.Kill()
	}

	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, zerr.Wrap(domain.ErrScanCancelled, "git process terminated")
	}

	if strings.Contains(strings.ToLower(stderr.String()), notARepoMarker) {
		// The heuristic wins over the exit code: git reports this condition
		// fatally on stderr whatever the exact status is.
		return nil, zerr.With(domain.ErrNotARepository, "root", root)
	}

	if !truncated {
		// Errors only matter when the full stream was wanted. A killed child
		// reports both a broken read and a signal exit; neither is a failure.
		if readErr != nil {
			return nil, zerr.Wrap(readErr, "failed to read git output")
		}
		if waitErr != nil {
			return nil, zerr.With(zerr.Wrap(waitErr, "git exited abnormally"), "stderr", stderr.String())
		}
	}

	files = sortEntries(files)

	return &domain.ListResult{Files: files, Truncated: truncated}, nil
}

// tailBuffer is an io.Writer that keeps at most limit bytes.
type tailBuffer struct {
	buf   []byte
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	if room := b.limit - len(b.buf); room > 0 {
		if len(p) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }

var _ io.Writer = (*tailBuffer)(nil)
