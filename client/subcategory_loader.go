package client

import (
	"context"
	"sync"

	"campaign-platform/domain"
)

type CategoryAPI interface {
	ListSubcategories(ctx context.Context, parentID string) ([]*domain.Category, error)
}

// SubcategoryLoader fetches the subcategories of the selected category. When
// the selection changes faster than responses arrive, only the response for
// the latest request is kept.
type SubcategoryLoader struct {
	api CategoryAPI

	mu         sync.Mutex
	token      uint64
	categoryID string
	items      []*domain.Category
	err        error
	loading    bool
}

func NewSubcategoryLoader(api CategoryAPI) *SubcategoryLoader {
	return &SubcategoryLoader{api: api}
}

// Load selects categoryID and fetches its children. It reports whether the
// result was applied; a response overtaken by a newer Load is dropped and
// applied is false. An empty categoryID clears the list without a request.
func (l *SubcategoryLoader) Load(ctx context.Context, categoryID string) (applied bool, err error) {
	l.mu.Lock()
	l.token++
	token := l.token
	l.categoryID = categoryID
	l.items = nil
	l.err = nil
	l.loading = categoryID != ""
	l.mu.Unlock()

	if categoryID == "" {
		return true, nil
	}

	items, err := l.api.ListSubcategories(ctx, categoryID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.token {
		return false, nil
	}
	l.loading = false
	if err != nil {
		l.err = err
		return true, err
	}
	if items == nil {
		items = []*domain.Category{}
	}
	l.items = items
	return true, nil
}

// Current returns the selected category, its loaded children and the error of
// the latest load, if any.
func (l *SubcategoryLoader) Current() (categoryID string, items []*domain.Category, loading bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.categoryID, l.items, l.loading, l.err
}
