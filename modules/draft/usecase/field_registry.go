package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"campaign-platform/domain"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fieldSetter decodes raw into one draft slot.
type fieldSetter func(d *domain.CampaignDraft, raw []byte) error

func decode[T any](field string, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, domain.ErrDraftFieldInvalid.WithDetail("field", field).WithWrap(err)
	}
	return v, nil
}

// slot replaces *target(d) with the decoded value.
func slot[T any](field string, target func(d *domain.CampaignDraft) *T) fieldSetter {
	return func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[T](field, raw)
		if err != nil {
			return err
		}
		*target(d) = v
		return nil
	}
}

var draftFields = map[string]fieldSetter{
	"brand.brandDescription": slot("brand.brandDescription", func(d *domain.CampaignDraft) *string { return &d.Brand.BrandDescription }),

	"product.name":          slot("product.name", func(d *domain.CampaignDraft) *string { return &d.Product.Name }),
	"product.url":           slot("product.url", func(d *domain.CampaignDraft) *string { return &d.Product.URL }),
	"product.retailPrice":   slot("product.retailPrice", func(d *domain.CampaignDraft) *int64 { return &d.Product.RetailPrice }),
	"product.quantity":      slot("product.quantity", func(d *domain.CampaignDraft) *int { return &d.Product.Quantity }),
	"product.subcategoryId": slot("product.subcategoryId", func(d *domain.CampaignDraft) *string { return &d.Product.SubcategoryID }),
	"product.categoryId": func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[string]("product.categoryId", raw)
		if err != nil {
			return err
		}
		d.SetCategory(v)
		return nil
	},
	"product.colors": func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[[]domain.DraftColor]("product.colors", raw)
		if err != nil {
			return err
		}
		if v == nil {
			v = []domain.DraftColor{}
		}
		d.Product.Colors = v
		return nil
	},
	"product.detailImages": func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[[]string]("product.detailImages", raw)
		if err != nil {
			return err
		}
		if v == nil {
			v = []string{}
		}
		d.Product.DetailImages = v
		return nil
	},

	"pricing.basePrice":       slot("pricing.basePrice", func(d *domain.CampaignDraft) *int64 { return &d.Pricing.BasePrice }),
	"pricing.productQuantity": slot("pricing.productQuantity", func(d *domain.CampaignDraft) *int { return &d.Pricing.ProductQuantity }),
	"pricing.allowHigherTier": func(d *domain.CampaignDraft, raw []byte) error {
		allow, err := decode[bool]("pricing.allowHigherTier", raw)
		if err != nil {
			return err
		}
		if !allow {
			return d.SelectHigherTier(domain.HigherTierNone)
		}
		if d.Pricing.HigherTierPrice != nil {
			d.Pricing.AllowHigherTier = true
			return nil
		}
		return d.SelectHigherTier(domain.HigherTier400000)
	},
	"pricing.higherTierPrice": func(d *domain.CampaignDraft, raw []byte) error {
		price, err := decode[*int64]("pricing.higherTierPrice", raw)
		if err != nil {
			return err
		}
		if price == nil {
			return d.SelectHigherTier(domain.HigherTierNone)
		}
		return d.SelectHigherTier(domain.HigherTierOption(strconv.FormatInt(*price, 10)))
	},

	"timeline.recruitmentStart": slot("timeline.recruitmentStart", func(d *domain.CampaignDraft) *string { return &d.Timeline.RecruitmentStart }),
	"timeline.recruitmentEnd":   slot("timeline.recruitmentEnd", func(d *domain.CampaignDraft) *string { return &d.Timeline.RecruitmentEnd }),
	"timeline.selectionStart":   slot("timeline.selectionStart", func(d *domain.CampaignDraft) *string { return &d.Timeline.SelectionStart }),
	"timeline.selectionEnd":     slot("timeline.selectionEnd", func(d *domain.CampaignDraft) *string { return &d.Timeline.SelectionEnd }),
	"timeline.shippingDate":     slot("timeline.shippingDate", func(d *domain.CampaignDraft) *string { return &d.Timeline.ShippingDate }),
	"timeline.contentStart":     slot("timeline.contentStart", func(d *domain.CampaignDraft) *string { return &d.Timeline.ContentStart }),
	"timeline.contentEnd":       slot("timeline.contentEnd", func(d *domain.CampaignDraft) *string { return &d.Timeline.ContentEnd }),

	"delivery.service": func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[domain.Carrier]("delivery.service", raw)
		if err != nil {
			return err
		}
		return d.SetDelivery(v, d.Delivery.OtherText)
	},
	"delivery.otherText": func(d *domain.CampaignDraft, raw []byte) error {
		v, err := decode[string]("delivery.otherText", raw)
		if err != nil {
			return err
		}
		return d.SetDelivery(d.Delivery.Service, v)
	},
}

// DraftFields lists every path UpdateField accepts.
func DraftFields() []string {
	fields := make([]string, 0, len(draftFields))
	for f := range draftFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (u *DraftUsecase) UpdateField(ctx context.Context, ref domain.DraftRef, field string, value []byte) (*domain.DraftView, error) {
	setter, ok := draftFields[strings.TrimSpace(field)]
	if !ok {
		return nil, domain.ErrDraftUnknownField.WithDetail("field", field)
	}
	return u.mutate(ctx, ref, func(d *domain.CampaignDraft) error {
		return setter(d, value)
	})
}
