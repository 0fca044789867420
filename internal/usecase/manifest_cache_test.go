package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/usecase"
	mock_usecase "manifest-reconciliation/internal/usecase/mocks"
)

func TestManifestCache_Get(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := &domain.ManifestSet{Air: []domain.ManifestEntry{{ID: "a1"}}}
	second := &domain.ManifestSet{Air: []domain.ManifestEntry{{ID: "a2"}}}

	gw := mock_usecase.NewMockValidationGateway(ctrl)
	gomock.InOrder(
		gw.EXPECT().ConsolidatedToStart(gomock.Any(), domain.KindUnloading, "BR01").Return(first, nil),
		gw.EXPECT().ConsolidatedToStart(gomock.Any(), domain.KindUnloading, "BR01").Return(second, nil),
	)

	cache := usecase.NewManifestCache(gw, domain.KindUnloading)
	assert.Nil(t, cache.Peek("BR01"))

	got, err := cache.Get(ctx, "BR01")
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = cache.Get(ctx, "BR01")
	require.NoError(t, err)
	assert.Same(t, first, got, "second Get is served from the cache")

	got, err = cache.Refresh(ctx, "BR01")
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestManifestCache_Errors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mock_usecase.NewMockValidationGateway(ctrl)
	gw.EXPECT().ConsolidatedToStart(gomock.Any(), gomock.Any(), "BR01").Return(nil, errBackend)
	gw.EXPECT().ConsolidatedToStart(gomock.Any(), gomock.Any(), "BR02").Return(nil, nil)

	cache := usecase.NewManifestCache(gw, domain.KindInventory)

	_, err := cache.Get(ctx, "BR01")
	assert.ErrorIs(t, err, errBackend)
	assert.Contains(t, err.Error(), "BR01")
	assert.Nil(t, cache.Peek("BR01"))

	got, err := cache.Get(ctx, "BR02")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	delivered := &domain.ManifestSet{F2: []domain.ManifestEntry{{ID: "f"}}}
	cache.Put("BR02", delivered)
	assert.Same(t, delivered, cache.Peek("BR02"))
}

func TestManifestCache_ConcurrentMissesFetchOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	set := &domain.ManifestSet{Ground: []domain.ManifestEntry{{ConsNumber: "G-1"}}}
	started := make(chan struct{})
	release := make(chan struct{})

	gw := mock_usecase.NewMockValidationGateway(ctrl)
	gw.EXPECT().ConsolidatedToStart(gomock.Any(), domain.KindUnloading, "BR01").
		DoAndReturn(func(context.Context, domain.WorkflowKind, string) (*domain.ManifestSet, error) {
			close(started)
			<-release
			return set, nil
		}).
		Times(1)

	cache := usecase.NewManifestCache(gw, domain.KindUnloading)

	const callers = 8
	results := make(chan *domain.ManifestSet, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			got, err := cache.Get(ctx, "BR01")
			assert.NoError(t, err)
			results <- got
		}()
	}

	<-started
	close(release)
	wg.Wait()
	close(results)

	for got := range results {
		assert.Same(t, set, got)
	}
}
