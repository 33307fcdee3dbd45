package usecase

import (
	"context"
	"strings"

	"campaign-platform/domain"

	"github.com/pkg/errors"
)

/******************************
*            Brand            *
******************************/
func (u *DraftUsecase) SetBrandDescription(ctx context.Context, ref domain.DraftRef, description string) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.Brand.BrandDescription = strings.TrimSpace(description)
		return nil
	})
}

/******************************
*           Product           *
******************************/
func (u *DraftUsecase) SetProduct(ctx context.Context, ref domain.DraftRef, req *domain.SetProductRequest) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.Product.Name = strings.TrimSpace(req.Name)
		d.Product.URL = strings.TrimSpace(req.URL)
		d.Product.RetailPrice = req.RetailPrice
		d.Product.Quantity = req.Quantity
		return nil
	})
}

func (u *DraftUsecase) AddColor(ctx context.Context, ref domain.DraftRef) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.AddColor()
		return nil
	})
}

func (u *DraftUsecase) UpdateColor(ctx context.Context, ref domain.DraftRef, index int, req *domain.ColorRequest) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		thumbnail := req.ThumbnailURL
		if thumbnail == "" {
			thumbnail = domain.PlaceholderColorThumbnail
		}
		return d.UpdateColor(index, domain.DraftColor{
			ColorCode:    strings.ToUpper(req.ColorCode),
			ColorName:    strings.TrimSpace(req.ColorName),
			ThumbnailURL: thumbnail,
			Quantity:     req.Quantity,
		})
	})
}

func (u *DraftUsecase) RemoveColor(ctx context.Context, ref domain.DraftRef, index int) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.RemoveColor(index)
	})
}

func (u *DraftUsecase) AddDetailImage(ctx context.Context, ref domain.DraftRef, url string) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.AddDetailImage(strings.TrimSpace(url))
		return nil
	})
}

func (u *DraftUsecase) UpdateDetailImage(ctx context.Context, ref domain.DraftRef, index int, url string) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.UpdateDetailImage(index, strings.TrimSpace(url))
	})
}

func (u *DraftUsecase) RemoveDetailImage(ctx context.Context, ref domain.DraftRef, index int) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.RemoveDetailImage(index)
	})
}

// SetCategory resets the subcategory and answers with the subcategories of
// exactly the chosen category.
func (u *DraftUsecase) SetCategory(ctx context.Context, ref domain.DraftRef, categoryID string) (*domain.DraftView, error) {
	category, err := u.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsTopLevel() {
		return nil, domain.ErrBadRequest.WithReasonf("category %s is a subcategory", categoryID)
	}
	children, err := u.categories.ListChildren(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	view, err := u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.SetCategory(category.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	view.Subcategories = children
	return view, nil
}

// SetSubcategory accepts only a child of the draft's current category. An
// empty id clears the selection.
func (u *DraftUsecase) SetSubcategory(ctx context.Context, ref domain.DraftRef, subcategoryID string) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		if subcategoryID == "" {
			d.Product.SubcategoryID = ""
			return nil
		}
		if d.Product.CategoryID == "" {
			return domain.ErrSubcategoryMismatch.WithReason("select a category first")
		}

		sub, err := u.categories.FindByID(ctx, subcategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.ErrSubcategoryMismatch.WithDetail("subcategory_id", subcategoryID)
			}
			return err
		}
		if sub.ParentID == nil || *sub.ParentID != d.Product.CategoryID {
			return domain.ErrSubcategoryMismatch.
				WithDetail("category_id", d.Product.CategoryID).
				WithDetail("subcategory_id", subcategoryID)
		}
		d.Product.SubcategoryID = sub.ID
		return nil
	})
}

/******************************
*           Pricing           *
******************************/
func (u *DraftUsecase) SetBasePrice(ctx context.Context, ref domain.DraftRef, price int64) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.SetBasePrice(price)
	})
}

func (u *DraftUsecase) SelectHigherTier(ctx context.Context, ref domain.DraftRef, option domain.HigherTierOption) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.SelectHigherTier(option)
	})
}

func (u *DraftUsecase) SetProductQuantity(ctx context.Context, ref domain.DraftRef, quantity int) (*domain.DraftView, error) {
	if quantity < 0 {
		return nil, domain.ErrBadRequest.WithReason("quantity must not be negative")
	}
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.Pricing.ProductQuantity = quantity
		return nil
	})
}

/******************************
*      Timeline & delivery    *
******************************/

// SetTimeline stores the dates as given. Ordering problems come back as
// warnings on the view and only block submit.
func (u *DraftUsecase) SetTimeline(ctx context.Context, ref domain.DraftRef, timeline *domain.TimelineSection) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		d.Timeline = *timeline
		return nil
	})
}

func (u *DraftUsecase) SetDelivery(ctx context.Context, ref domain.DraftRef, req *domain.SetDeliveryRequest) (*domain.DraftView, error) {
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return d.SetDelivery(req.Service, strings.TrimSpace(req.OtherText))
	})
}
