// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/shade/internal/core/domain"
)

// Scanner enumerates the files git ignores under a workspace root.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan runs one discovery pass rooted at root, returning at most
	// maxItems entries. It spawns exactly one external process per call and
	// owns that process for the duration of the call.
	//
	// A cancelled ctx terminates the child and returns
	// domain.ErrScanCancelled. A root outside any git working tree returns
	// domain.ErrNotARepository.
	Scan(ctx context.Context, root string, maxItems int) (*domain.ListResult, error)
}
