// export_test.go exports private pieces for white-box testing.
package git

var (
	Collect     = collect
	SplitNUL    = splitNUL
	SortEntries = sortEntries
	CompareFold = compareFold
)

// SetGitPath points the runner at a stub executable.
func (r *Runner) SetGitPath(path string) {
	r.gitPath = path
}
