package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campaign-platform/domain"
	"campaign-platform/modules/category/usecase"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	findByID     func(ctx context.Context, id string) (*domain.Category, error)
	findTopLevel func(ctx context.Context) ([]*domain.Category, error)
	findChildren func(ctx context.Context, parentID string) ([]*domain.Category, error)
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return f.findByID(ctx, id)
}

func (f *fakeCategoryRepo) FindTopLevel(ctx context.Context) ([]*domain.Category, error) {
	return f.findTopLevel(ctx)
}

func (f *fakeCategoryRepo) FindChildren(ctx context.Context, parentID string) ([]*domain.Category, error) {
	return f.findChildren(ctx, parentID)
}

func newCategoryUsecase(t *testing.T, repo *fakeCategoryRepo) domain.CategoryUsecase {
	t.Helper()
	c := cache.NewMemoryCache(&cache.Config{DefaultTTL: time.Minute}, nil)
	t.Cleanup(func() { _ = c.Close() })
	return usecase.NewCategoryUsecase(repo, c, time.Minute, log.NewNopLogger())
}

func TestListChildren_EmptyIsNotAnError(t *testing.T) {
	uc := newCategoryUsecase(t, &fakeCategoryRepo{
		findChildren: func(context.Context, string) ([]*domain.Category, error) {
			return []*domain.Category{}, nil
		},
	})

	children, err := uc.ListChildren(context.Background(), "beauty")
	require.NoError(t, err)
	require.NotNil(t, children)
	require.Empty(t, children)
}

func TestListChildren_FetchFailureIsAnError(t *testing.T) {
	uc := newCategoryUsecase(t, &fakeCategoryRepo{
		findChildren: func(context.Context, string) ([]*domain.Category, error) {
			return nil, errors.New("db unavailable")
		},
	})

	children, err := uc.ListChildren(context.Background(), "beauty")
	require.ErrorIs(t, err, domain.ErrCategoryFetchFailed)
	require.Nil(t, children)
}

func TestListTopLevel_ServedFromCacheAfterFirstLoad(t *testing.T) {
	var calls atomic.Int32
	uc := newCategoryUsecase(t, &fakeCategoryRepo{
		findTopLevel: func(context.Context) ([]*domain.Category, error) {
			calls.Add(1)
			return []*domain.Category{{SQLModel: domain.SQLModel{ID: "beauty"}, Name: "Beauty"}}, nil
		},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := uc.ListTopLevel(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Beauty", got[0].Name)
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestListTopLevel_ConcurrentMissesShareOneLoad(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	uc := newCategoryUsecase(t, &fakeCategoryRepo{
		findTopLevel: func(context.Context) ([]*domain.Category, error) {
			calls.Add(1)
			<-release
			return []*domain.Category{}, nil
		},
	})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ListTopLevel(context.Background())
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestFindByID_NotFound(t *testing.T) {
	uc := newCategoryUsecase(t, &fakeCategoryRepo{
		findByID: func(context.Context, string) (*domain.Category, error) {
			return nil, domain.ErrRecordNotFound
		},
	})
	_, err := uc.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
