package usecase

import (
	"context"
	"errors"
	"time"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"

	"golang.org/x/sync/singleflight"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindTopLevel(ctx context.Context) ([]*domain.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]*domain.Category, error)
}

type categoryUsecase struct {
	repo   CategoryRepository
	cache  cache.Client
	ttl    time.Duration
	group  singleflight.Group
	logger log.Logger
}

func NewCategoryUsecase(repo CategoryRepository, cacheClient cache.Client, ttl time.Duration, logger log.Logger) domain.CategoryUsecase {
	return &categoryUsecase{
		repo:   repo,
		cache:  cacheClient,
		ttl:    ttl,
		logger: logger,
	}
}

func topLevelKey() string              { return cache.Key("categories", "top") }
func childrenKey(parent string) string { return cache.Key("categories", "children", parent) }

func (u *categoryUsecase) ListTopLevel(ctx context.Context) ([]*domain.Category, error) {
	return u.cached(ctx, topLevelKey(), func(ctx context.Context) ([]*domain.Category, error) {
		return u.repo.FindTopLevel(ctx)
	})
}

func (u *categoryUsecase) ListChildren(ctx context.Context, parentID string) ([]*domain.Category, error) {
	return u.cached(ctx, childrenKey(parentID), func(ctx context.Context) ([]*domain.Category, error) {
		return u.repo.FindChildren(ctx, parentID)
	})
}

func (u *categoryUsecase) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrCategoryNotFound.WithDetail("category_id", id)
		}
		return nil, domain.ErrCategoryFetchFailed.WithWrap(err)
	}
	return category, nil
}

// cached serves key from the cache, collapsing concurrent misses into one
// load. An empty list is a valid result and is cached like any other; only a
// failed load is an error.
func (u *categoryUsecase) cached(
	ctx context.Context,
	key string,
	load func(ctx context.Context) ([]*domain.Category, error),
) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := u.cache.GetJSON(ctx, key, &categories)
	switch {
	case err == nil:
		if categories == nil {
			categories = []*domain.Category{}
		}
		return categories, nil
	case !errors.Is(err, cache.ErrKeyNotFound):
		u.logger.WarnContext(ctx, "Category cache read failed", log.String("key", key), log.Error(err))
	}

	v, err, _ := u.group.Do(key, func() (interface{}, error) {
		loaded, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if err := u.cache.SetJSON(ctx, key, loaded, u.ttl); err != nil {
			u.logger.WarnContext(ctx, "Category cache write failed", log.String("key", key), log.Error(err))
		}
		return loaded, nil
	})
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to fetch categories", log.String("key", key), log.Error(err))
		return nil, domain.ErrCategoryFetchFailed.WithWrap(err)
	}
	return v.([]*domain.Category), nil
}
