package git

import (
	"bufio"
	"bytes"
	"io"
	"slices"
	"strings"
)

// initialBufSize is the starting size of the stream scanner's buffer.
const initialBufSize = 64 << 10

// maxTokenSize bounds a single path entry. Paths longer than this indicate a
// malformed stream, which is fatal for the scan.
const maxTokenSize = 1 << 20

// collect incrementally consumes a NUL-delimited stream, returning up to
// maxItems non-empty segments and whether the stream held more. It never
// buffers the whole stream: reading stops as soon as the cap is reached.
func collect(r io.Reader, maxItems int) (files []string, truncated bool, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialBufSize), maxTokenSize)
	sc.Split(splitNUL)

	files = make([]string, 0, min(maxItems, 256))
	for sc.Scan() {
		entry := sc.Text()
		if entry == "" {
			// Leading, trailing, or doubled delimiters produce empty
			// segments; they are not paths.
			continue
		}
		if len(files) == maxItems {
			// An entry beyond the cap exists. Only now is the result
			// truncated: a stream holding exactly maxItems entries is
			// complete, not capped.
			truncated = true
			break
		}
		files = append(files, entry)
	}

	return files, truncated, sc.Err()
}

// splitNUL is a bufio.SplitFunc for NUL-delimited output. A trailing segment
// without a terminating delimiter is returned once the stream ends, so a
// pathological final entry is never dropped.
func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// sortEntries orders paths case-insensitively with byte-order tie-breaks,
// then drops exact duplicates. Sorting is deferred to the end of a scan:
// cap-triggered early termination makes incremental order meaningless.
func sortEntries(files []string) []string {
	slices.SortFunc(files, compareFold)
	return slices.Compact(files)
}

// compareFold orders strings case-insensitively; equal folds fall back to
// byte order so the result is deterministic across environments.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
