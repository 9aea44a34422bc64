package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/cmd/shade/commands"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/build"
	"go.trai.ch/shade/internal/core/domain"
)

type mockApp struct {
	listFunc  func(ctx context.Context, opts app.ListOptions) ([]app.RootListing, error)
	pathsFunc func(ctx context.Context, opts app.ListOptions) ([]string, error)
	cleanFunc func(ctx context.Context, opts app.CleanOptions) (*app.CleanReport, error)
	watchFunc func(ctx context.Context, opts app.ListOptions) error
}

func (m *mockApp) List(ctx context.Context, opts app.ListOptions) ([]app.RootListing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockApp) Paths(ctx context.Context, opts app.ListOptions) ([]string, error) {
	if m.pathsFunc != nil {
		return m.pathsFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) (*app.CleanReport, error) {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return &app.CleanReport{}, nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.ListOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, mock *mockApp, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(mock)
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cli.SetOutput(out, errOut)
	cli.SetArgs(args)

	err := cli.Execute(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommands_List(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ListOptions
		mock := &mockApp{
			listFunc: func(_ context.Context, opts app.ListOptions) ([]app.RootListing, error) {
				captured = opts
				return nil, nil
			},
		}

		_, _, err := execute(t, mock, "list", "/tmp/ws", "--max-items", "10")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/ws", captured.Path)
		assert.Equal(t, 10, captured.MaxItems)
	})

	t.Run("renders a tree per root", func(t *testing.T) {
		mock := &mockApp{
			listFunc: func(_ context.Context, _ app.ListOptions) ([]app.RootListing, error) {
				return []app.RootListing{{
					Root:   "/ws/a",
					Result: &domain.ListResult{Files: []string{"dist/out.js", "tmp.log"}},
				}}, nil
			},
		}

		out, errOut, err := execute(t, mock, "list", "--output", "tree")
		require.NoError(t, err)
		assert.Contains(t, out, "/ws/a")
		assert.Contains(t, out, "└── tmp.log")
		assert.Contains(t, out, "dist/")
		assert.Empty(t, errOut)
	})

	t.Run("flat prints relative paths", func(t *testing.T) {
		mock := &mockApp{
			listFunc: func(_ context.Context, _ app.ListOptions) ([]app.RootListing, error) {
				return []app.RootListing{{
					Root:   "/ws/a",
					Result: &domain.ListResult{Files: []string{"dist/out.js", "tmp.log"}},
				}}, nil
			},
		}

		out, _, err := execute(t, mock, "list", "--flat")
		require.NoError(t, err)
		assert.Equal(t, "dist/out.js\ntmp.log\n", out)
	})

	t.Run("auto mode prints flat without a terminal", func(t *testing.T) {
		mock := &mockApp{
			listFunc: func(_ context.Context, _ app.ListOptions) ([]app.RootListing, error) {
				return []app.RootListing{{
					Root:   "/ws/a",
					Result: &domain.ListResult{Files: []string{"tmp.log"}},
				}}, nil
			},
		}

		out, _, err := execute(t, mock, "list")
		require.NoError(t, err)
		assert.Equal(t, "tmp.log\n", out)
	})

	t.Run("reports truncation on stderr", func(t *testing.T) {
		mock := &mockApp{
			listFunc: func(_ context.Context, _ app.ListOptions) ([]app.RootListing, error) {
				return []app.RootListing{{
					Root:   "/ws/a",
					Result: &domain.ListResult{Files: []string{"a"}, Truncated: true},
				}}, nil
			},
		}

		_, errOut, err := execute(t, mock, "list", "--flat")
		require.NoError(t, err)
		assert.Contains(t, errOut, "truncated at 1 entries")
	})

	t.Run("failed root surfaces as error after the others print", func(t *testing.T) {
		mock := &mockApp{
			listFunc: func(_ context.Context, _ app.ListOptions) ([]app.RootListing, error) {
				return []app.RootListing{
					{Root: "/ws/bad", Err: domain.ErrNotARepository},
					{Root: "/ws/good", Result: &domain.ListResult{Files: []string{"x"}}},
				}, nil
			},
		}

		out, errOut, err := execute(t, mock, "list", "--flat")
		require.ErrorIs(t, err, domain.ErrNotARepository)
		assert.Contains(t, out, "x")
		assert.Contains(t, errOut, "/ws/bad")
	})
}

func TestCommands_Paths(t *testing.T) {
	mock := &mockApp{
		pathsFunc: func(_ context.Context, _ app.ListOptions) ([]string, error) {
			return []string{"/ws/a/dist/out.js", "/ws/a/tmp.log"}, nil
		},
	}

	out, _, err := execute(t, mock, "paths")
	require.NoError(t, err)
	assert.Equal(t, "/ws/a/dist/out.js\n/ws/a/tmp.log\n", out)
}

func TestCommands_Clean(t *testing.T) {
	t.Run("dry run by default", func(t *testing.T) {
		var captured app.CleanOptions
		mock := &mockApp{
			cleanFunc: func(_ context.Context, opts app.CleanOptions) (*app.CleanReport, error) {
				captured = opts
				return &app.CleanReport{Entries: []string{"/ws/a/tmp.log"}}, nil
			},
		}

		out, _, err := execute(t, mock, "clean")
		require.NoError(t, err)
		assert.False(t, captured.Force)
		assert.Contains(t, out, "/ws/a/tmp.log")
		assert.Contains(t, out, "dry run: 1 entries would be deleted")
	})

	t.Run("force deletes and reports count", func(t *testing.T) {
		mock := &mockApp{
			cleanFunc: func(_ context.Context, opts app.CleanOptions) (*app.CleanReport, error) {
				require.True(t, opts.Force)
				return &app.CleanReport{Entries: []string{"/ws/a/tmp.log"}, Deleted: 1}, nil
			},
		}

		out, _, err := execute(t, mock, "clean", "--force")
		require.NoError(t, err)
		assert.Contains(t, out, "deleted 1 entries")
	})

	t.Run("propagates failure", func(t *testing.T) {
		mock := &mockApp{
			cleanFunc: func(_ context.Context, _ app.CleanOptions) (*app.CleanReport, error) {
				return nil, errors.New("simulated error")
			},
		}

		_, _, err := execute(t, mock, "clean")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	var captured app.ListOptions
	called := false
	mock := &mockApp{
		watchFunc: func(_ context.Context, opts app.ListOptions) error {
			captured = opts
			called = true
			return nil
		},
	}

	_, _, err := execute(t, mock, "watch", "/tmp/ws")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "/tmp/ws", captured.Path)
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
