package domain

import (
	"context"
	"net/http"
)

/******************************
*       Category errors       *
******************************/
var (
	// ErrCategoryFetchFailed is a data fetch failure. It is never used for an
	// empty result, which is reported as an empty list.
	ErrCategoryFetchFailed = &DetailedError{
		IDField:         "CATEGORY_FETCH_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to fetch categories",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrCategoryNotFound = &DetailedError{
		IDField:         "CATEGORY_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Category not found",
		StatusCodeField: http.StatusNotFound,
	}
)

type Category struct {
	SQLModel
	ParentID     *string `json:"parent_id" gorm:"type:varchar(36);index"`
	Name         string  `json:"name" gorm:"type:varchar(100);not null"`
	DisplayOrder int     `json:"display_order" gorm:"not null;default:0"`
}

func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

type CategoryFilter struct {
	ID       *string `json:"id,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	// TopLevel selects rows whose parent is null.
	TopLevel *bool   `json:"top_level,omitempty"`
	Name     *string `json:"name,omitempty"`
}

type CategoryUsecase interface {
	ListTopLevel(ctx context.Context) ([]*Category, error)
	ListChildren(ctx context.Context, parentID string) ([]*Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
}
