// Package domain contains core domain types for ignored-file discovery.
package domain

// ListResult is the outcome of one ignored-file scan.
//
// Files holds workspace-relative paths in case-insensitive lexical order
// (ties broken by byte order). Truncated reports whether git produced more
// entries than the requested cap.
//
// A ListResult is immutable once produced. The explorer hands the same
// instance to every caller that shares a cache entry or an in-flight scan,
// so callers must not mutate it.
type ListResult struct {
	Files     []string
	Truncated bool
}

// Empty reports whether the scan matched nothing.
func (r *ListResult) Empty() bool {
	return len(r.Files) == 0
}
