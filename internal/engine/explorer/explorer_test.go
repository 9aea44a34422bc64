package explorer_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/telemetry"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports/mocks"
	"go.trai.ch/shade/internal/engine/explorer"
	"go.uber.org/mock/gomock"
)

const testRoot = "/work/repo"

func setupExplorerTest(t *testing.T) (*explorer.Explorer, *mocks.MockScanner, *clockwork.FakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)

	scanner := mocks.NewMockScanner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	clock := clockwork.NewFakeClock()
	e := explorer.New(scanner, logger, telemetry.NewNoOpTracer()).WithClock(clock)
	return e, scanner, clock
}

func TestExplorer_GetOrScan_CachesWithinTTL(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	want := &domain.ListResult{Files: []string{"a", "b"}}
	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).Return(want, nil).Times(1)

	first, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	second, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	// The exact same instance is shared, not a copy.
	assert.Same(t, first, second)
}

func TestExplorer_GetOrScan_ExpiresAfterTTL(t *testing.T) {
	e, scanner, clock := setupExplorerTest(t)
	e.SetTTL(30 * time.Second)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{Files: []string{"a"}}, nil).Times(2)

	_, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	clock.Advance(31 * time.Second)

	_, err = e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
}

func TestExplorer_GetOrScan_StillFreshJustBeforeTTL(t *testing.T) {
	e, scanner, clock := setupExplorerTest(t)
	e.SetTTL(30 * time.Second)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{}, nil).Times(1)

	_, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	clock.Advance(29 * time.Second)

	_, err = e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
}

func TestExplorer_GetOrScan_DistinctMaxItemsAreDistinctEntries(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 10).
		Return(&domain.ListResult{Files: []string{"a"}, Truncated: true}, nil).Times(1)
	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{Files: []string{"a", "b"}}, nil).Times(1)

	capped, err := e.GetOrScan(context.Background(), testRoot, 10)
	require.NoError(t, err)
	full, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	assert.True(t, capped.Truncated)
	assert.False(t, full.Truncated)
}

func TestExplorer_GetOrScan_CoalescesConcurrentRequests(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, scanner, _ := setupExplorerTest(t)

		want := &domain.ListResult{Files: []string{"a"}}
		release := make(chan struct{})
		scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
			DoAndReturn(func(context.Context, string, int) (*domain.ListResult, error) {
				<-release
				return want, nil
			}).Times(1)

		var wg sync.WaitGroup
		results := make([]*domain.ListResult, 2)
		errs := make([]error, 2)
		for i := range results {
			wg.Go(func() {
				results[i], errs[i] = e.GetOrScan(context.Background(), testRoot, 100)
			})
		}

		// Let both callers reach the in-flight scan, then let it resolve.
		time.Sleep(time.Millisecond)
		close(release)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		assert.Same(t, results[0], results[1])
	})
}

func TestExplorer_GetOrScan_SharersObserveTheSameFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, scanner, _ := setupExplorerTest(t)

		release := make(chan struct{})
		scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
			DoAndReturn(func(context.Context, string, int) (*domain.ListResult, error) {
				<-release
				return nil, domain.ErrNotARepository
			}).Times(1)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Go(func() {
				_, errs[i] = e.GetOrScan(context.Background(), testRoot, 100)
			})
		}

		time.Sleep(time.Millisecond)
		close(release)
		wg.Wait()

		assert.ErrorIs(t, errs[0], domain.ErrNotARepository)
		assert.ErrorIs(t, errs[1], domain.ErrNotARepository)
	})
}

func TestExplorer_GetOrScan_FailuresAreNeverCached(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	gomock.InOrder(
		scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
			Return(nil, domain.ErrNotARepository),
		scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
			Return(&domain.ListResult{}, nil),
	)

	_, err := e.GetOrScan(context.Background(), testRoot, 100)
	assert.ErrorIs(t, err, domain.ErrNotARepository)

	// The failed entry reverted to empty: the next call retries cleanly.
	_, err = e.GetOrScan(context.Background(), testRoot, 100)
	assert.NoError(t, err)
}

func TestExplorer_GetOrScan_PreCancelledNeverScans(t *testing.T) {
	e, _, _ := setupExplorerTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.GetOrScan(ctx, testRoot, 100)
	assert.ErrorIs(t, err, domain.ErrScanCancelled)
}

func TestExplorer_Invalidate_ForcesFreshScan(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{}, nil).Times(2)

	_, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	// Well inside the TTL, invalidation alone must force a re-scan.
	e.Invalidate(testRoot)

	_, err = e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
}

func TestExplorer_Invalidate_LeavesOtherRootsAlone(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{}, nil).Times(1)
	scanner.EXPECT().Scan(gomock.Any(), "/work/other", 100).
		Return(&domain.ListResult{}, nil).Times(1)

	first, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
	_, err = e.GetOrScan(context.Background(), "/work/other", 100)
	require.NoError(t, err)

	e.Invalidate("/work/other")

	again, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestExplorer_InvalidateAll(t *testing.T) {
	e, scanner, _ := setupExplorerTest(t)

	scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
		Return(&domain.ListResult{}, nil).Times(2)

	_, err := e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)

	e.InvalidateAll()

	_, err = e.GetOrScan(context.Background(), testRoot, 100)
	require.NoError(t, err)
}

func TestExplorer_Abort_CancelsInFlightScan(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, scanner, _ := setupExplorerTest(t)

		started := make(chan struct{})
		scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
			DoAndReturn(func(ctx context.Context, _ string, _ int) (*domain.ListResult, error) {
				close(started)
				<-ctx.Done()
				return nil, domain.ErrScanCancelled
			}).Times(1)

		var wg sync.WaitGroup
		var scanErr error
		wg.Go(func() {
			_, scanErr = e.GetOrScan(context.Background(), testRoot, 100)
		})

		<-started
		e.Abort(testRoot)
		wg.Wait()

		assert.ErrorIs(t, scanErr, domain.ErrScanCancelled)
	})
}

func TestExplorer_Abort_DiscardsLateResult(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, scanner, _ := setupExplorerTest(t)

		stale := &domain.ListResult{Files: []string{"stale"}}
		fresh := &domain.ListResult{Files: []string{"fresh"}}

		started := make(chan struct{})
		release := make(chan struct{})
		gomock.InOrder(
			// The superseded scan ignores its cancellation and completes
			// successfully after Abort. Its result must not reach the cache.
			scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).
				DoAndReturn(func(context.Context, string, int) (*domain.ListResult, error) {
					close(started)
					<-release
					return stale, nil
				}),
			scanner.EXPECT().Scan(gomock.Any(), testRoot, 100).Return(fresh, nil),
		)

		var wg sync.WaitGroup
		wg.Go(func() {
			_, _ = e.GetOrScan(context.Background(), testRoot, 100)
		})

		<-started
		e.Abort(testRoot)
		e.Invalidate(testRoot)
		close(release)
		wg.Wait()

		got, err := e.GetOrScan(context.Background(), testRoot, 100)
		require.NoError(t, err)
		assert.Same(t, fresh, got)
	})
}
