package git_test

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/git"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxItems      int
		want          []string
		wantTruncated bool
	}{
		{
			name:     "well formed stream",
			input:    "a\x00b\x00c\x00",
			maxItems: 10,
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "trailing segment without delimiter is flushed",
			input:    "a\x00b\x00c",
			maxItems: 10,
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "empty segments are discarded",
			input:    "a\x00b\x00\x00c\x00",
			maxItems: 10,
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "leading delimiter produces no phantom entry",
			input:    "\x00foo\x00bar\x00",
			maxItems: 10,
			want:     []string{"foo", "bar"},
		},
		{
			name:          "cap stops consumption",
			input:         "a\x00b\x00c\x00d\x00",
			maxItems:      2,
			want:          []string{"a", "b"},
			wantTruncated: true,
		},
		{
			name:     "exactly at the cap is complete, not truncated",
			input:    "a\x00b\x00",
			maxItems: 2,
			want:     []string{"a", "b"},
		},
		{
			name:     "trailing empty segment at the cap does not truncate",
			input:    "a\x00b\x00\x00",
			maxItems: 2,
			want:     []string{"a", "b"},
		},
		{
			name:     "empty stream",
			input:    "",
			maxItems: 10,
			want:     []string{},
		},
		{
			name:     "paths with slashes are preserved verbatim",
			input:    "dir/file.txt\x00.other\x00nested/dir/.gitkeep\x00",
			maxItems: 10,
			want:     []string{"dir/file.txt", ".other", "nested/dir/.gitkeep"},
		},
		{
			name:     "paths may contain newlines",
			input:    "weird\nname\x00plain\x00",
			maxItems: 10,
			want:     []string{"weird\nname", "plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, truncated, err := git.Collect(strings.NewReader(tt.input), tt.maxItems)
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestCollect_FragmentedStream(t *testing.T) {
	// One byte per read exercises the partial-segment buffering across
	// chunk boundaries.
	input := "dir/file.txt\x00.other\x00nested/dir/.gitkeep"
	files, truncated, err := git.Collect(iotest.OneByteReader(strings.NewReader(input)), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/file.txt", ".other", "nested/dir/.gitkeep"}, files)
	assert.False(t, truncated)
}

func TestSortEntries(t *testing.T) {
	t.Run("case insensitive order", func(t *testing.T) {
		got := git.SortEntries([]string{"B", "a", "A", "b"})

		lowered := make([]string, len(got))
		for i, s := range got {
			lowered[i] = strings.ToLower(s)
		}
		assert.Equal(t, []string{"a", "a", "b", "b"}, lowered)
	})

	t.Run("ties broken by byte order", func(t *testing.T) {
		got := git.SortEntries([]string{"a", "A"})
		assert.Equal(t, []string{"A", "a"}, got)
	})

	t.Run("exact duplicates removed", func(t *testing.T) {
		got := git.SortEntries([]string{"b", "a", "b"})
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("slash paths sort after shorter prefixes", func(t *testing.T) {
		got := git.SortEntries([]string{"dir/file.txt", ".other", "nested/dir/.gitkeep"})
		assert.Equal(t, []string{".other", "dir/file.txt", "nested/dir/.gitkeep"}, got)
	})
}

func TestCompareFold(t *testing.T) {
	assert.Negative(t, git.CompareFold("a", "B"))
	assert.Positive(t, git.CompareFold("b", "A"))
	assert.Zero(t, git.CompareFold("same", "same"))
	// Equal folds: uppercase sorts first by byte order.
	assert.Negative(t, git.CompareFold("A", "a"))
}
