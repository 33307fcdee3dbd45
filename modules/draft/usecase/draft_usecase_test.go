package usecase_test

import (
	"context"
	"testing"
	"time"

	"campaign-platform/domain"
	"campaign-platform/modules/draft/repository"
	"campaign-platform/modules/draft/usecase"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
)

type draftCfg struct{}

func (draftCfg) LockTTL() time.Duration { return 5 * time.Second }

type fakeBrandRepo struct {
	findByOwner func(ctx context.Context, userID string) ([]*domain.Brand, error)
}

func (f *fakeBrandRepo) FindByOwner(ctx context.Context, userID string) ([]*domain.Brand, error) {
	return f.findByOwner(ctx, userID)
}

type fakeCategories struct {
	listTopLevel func(ctx context.Context) ([]*domain.Category, error)
	listChildren func(ctx context.Context, parentID string) ([]*domain.Category, error)
	findByID     func(ctx context.Context, id string) (*domain.Category, error)
}

func (f *fakeCategories) ListTopLevel(ctx context.Context) ([]*domain.Category, error) {
	return f.listTopLevel(ctx)
}

func (f *fakeCategories) ListChildren(ctx context.Context, parentID string) ([]*domain.Category, error) {
	return f.listChildren(ctx, parentID)
}

func (f *fakeCategories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return f.findByID(ctx, id)
}

func category(id, parent string) *domain.Category {
	c := &domain.Category{SQLModel: domain.SQLModel{ID: id}, Name: id}
	if parent != "" {
		c.ParentID = &parent
	}
	return c
}

// catalog has beauty(skincare, makeup) and fashion(shoes).
func catalog() *fakeCategories {
	all := map[string]*domain.Category{
		"beauty":   category("beauty", ""),
		"fashion":  category("fashion", ""),
		"skincare": category("skincare", "beauty"),
		"makeup":   category("makeup", "beauty"),
		"shoes":    category("shoes", "fashion"),
	}
	return &fakeCategories{
		findByID: func(_ context.Context, id string) (*domain.Category, error) {
			if c, ok := all[id]; ok {
				return c, nil
			}
			return nil, domain.ErrCategoryNotFound
		},
		listChildren: func(_ context.Context, parentID string) ([]*domain.Category, error) {
			out := []*domain.Category{}
			for _, id := range []string{"skincare", "makeup", "shoes"} {
				if *all[id].ParentID == parentID {
					out = append(out, all[id])
				}
			}
			return out, nil
		},
	}
}

type draftFixture struct {
	uc    *usecase.DraftUsecase
	cache cache.Client
	owner string
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	c := cache.NewMemoryCache(&cache.Config{DefaultTTL: time.Minute}, nil)
	t.Cleanup(func() { _ = c.Close() })

	brands := &fakeBrandRepo{
		findByOwner: func(_ context.Context, userID string) ([]*domain.Brand, error) {
			if userID != "owner-1" {
				return []*domain.Brand{}, nil
			}
			return []*domain.Brand{{SQLModel: domain.SQLModel{ID: "brand-1"}, UserID: userID}}, nil
		},
	}
	store := repository.NewDraftStore(c, time.Hour)
	return &draftFixture{
		uc:    usecase.NewDraftUsecase(store, brands, catalog(), draftCfg{}, log.NewNopLogger()),
		cache: c,
		owner: "owner-1",
	}
}

func (f *draftFixture) open(t *testing.T) domain.DraftRef {
	t.Helper()
	view, err := f.uc.Open(context.Background(), f.owner)
	require.NoError(t, err)
	return domain.DraftRef{OwnerID: f.owner, DraftID: view.Draft.ID}
}

func TestOpen_Defaults(t *testing.T) {
	f := newDraftFixture(t)

	view, err := f.uc.Open(context.Background(), f.owner)
	require.NoError(t, err)

	d := view.Draft
	require.Equal(t, "brand-1", d.BrandID)
	require.EqualValues(t, 200000, d.Pricing.BasePrice)
	require.False(t, d.Pricing.AllowHigherTier)
	require.Nil(t, d.Pricing.HigherTierPrice)
	require.Zero(t, d.Pricing.ProductQuantity)
	require.Equal(t, domain.CarrierCJ, d.Delivery.Service)
	require.Empty(t, d.Product.Colors)
	require.Equal(t, domain.HigherTierNone, view.HigherTier)
	require.Zero(t, view.TotalBudget)
}

func TestOpen_WithoutBrandFails(t *testing.T) {
	f := newDraftFixture(t)

	_, err := f.uc.Open(context.Background(), "owner-without-brand")
	require.ErrorIs(t, err, domain.ErrBrandNotFound)
}

func TestGet_OtherOwnerCannotSeeDraft(t *testing.T) {
	f := newDraftFixture(t)
	ref := f.open(t)

	_, err := f.uc.Get(context.Background(), domain.DraftRef{OwnerID: "intruder", DraftID: ref.DraftID})
	require.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDiscard_RemovesDraft(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	require.NoError(t, f.uc.Discard(ctx, ref))

	_, err := f.uc.Get(ctx, ref)
	require.ErrorIs(t, err, domain.ErrDraftNotFound)
	require.ErrorIs(t, f.uc.Discard(ctx, ref), domain.ErrDraftNotFound)
}

func TestTotalBudget(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.SetBasePrice(ctx, ref, 300000)
	require.NoError(t, err)
	view, err := f.uc.SetProductQuantity(ctx, ref, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3000000, view.TotalBudget)

	view, err = f.uc.Get(ctx, ref)
	require.NoError(t, err)
	require.EqualValues(t, 3000000, view.TotalBudget)
}

func TestSetBasePrice_RejectsUnofferedPrice(t *testing.T) {
	f := newDraftFixture(t)
	ref := f.open(t)

	_, err := f.uc.SetBasePrice(context.Background(), ref, 250000)
	require.ErrorIs(t, err, domain.ErrInvalidBasePrice)
}

func TestSelectHigherTier_KeepsPriceAndFlagTogether(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	view, err := f.uc.SelectHigherTier(ctx, ref, domain.HigherTier350000)
	require.NoError(t, err)
	require.True(t, view.Draft.Pricing.AllowHigherTier)
	require.EqualValues(t, 350000, *view.Draft.Pricing.HigherTierPrice)
	require.Equal(t, domain.HigherTier350000, view.HigherTier)

	view, err = f.uc.SelectHigherTier(ctx, ref, domain.HigherTierNone)
	require.NoError(t, err)
	require.False(t, view.Draft.Pricing.AllowHigherTier)
	require.Nil(t, view.Draft.Pricing.HigherTierPrice)

	_, err = f.uc.SelectHigherTier(ctx, ref, "300000")
	require.ErrorIs(t, err, domain.ErrInvalidHigherTier)
}

func TestUpdateField_TierFieldsKeepInvariant(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	view, err := f.uc.UpdateField(ctx, ref, "pricing.allowHigherTier", []byte(`true`))
	require.NoError(t, err)
	require.True(t, view.Draft.Pricing.AllowHigherTier)
	require.NotNil(t, view.Draft.Pricing.HigherTierPrice)

	view, err = f.uc.UpdateField(ctx, ref, "pricing.higherTierPrice", []byte(`350000`))
	require.NoError(t, err)
	require.True(t, view.Draft.Pricing.AllowHigherTier)
	require.EqualValues(t, 350000, *view.Draft.Pricing.HigherTierPrice)

	view, err = f.uc.UpdateField(ctx, ref, "pricing.higherTierPrice", []byte(`null`))
	require.NoError(t, err)
	require.False(t, view.Draft.Pricing.AllowHigherTier)
	require.Nil(t, view.Draft.Pricing.HigherTierPrice)

	view, err = f.uc.UpdateField(ctx, ref, "pricing.allowHigherTier", []byte(`false`))
	require.NoError(t, err)
	require.False(t, view.Draft.Pricing.AllowHigherTier)
	require.Nil(t, view.Draft.Pricing.HigherTierPrice)

	_, err = f.uc.UpdateField(ctx, ref, "pricing.higherTierPrice", []byte(`123`))
	require.ErrorIs(t, err, domain.ErrInvalidHigherTier)
}

func TestUpdateField_UnknownAndMistyped(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.UpdateField(ctx, ref, "product.colour", []byte(`"red"`))
	require.ErrorIs(t, err, domain.ErrDraftUnknownField)

	_, err = f.uc.UpdateField(ctx, ref, "product.retailPrice", []byte(`"expensive"`))
	require.ErrorIs(t, err, domain.ErrDraftFieldInvalid)

	view, err := f.uc.UpdateField(ctx, ref, "product.name", []byte(`"Glow serum"`))
	require.NoError(t, err)
	require.Equal(t, "Glow serum", view.Draft.Product.Name)
}

func TestUpdateField_DeliveryOtherText(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.UpdateField(ctx, ref, "delivery.service", []byte(`"etc"`))
	require.NoError(t, err)
	view, err := f.uc.UpdateField(ctx, ref, "delivery.otherText", []byte(`"Quick parcel"`))
	require.NoError(t, err)
	require.Equal(t, domain.CarrierEtc, view.Draft.Delivery.Service)
	require.Equal(t, "Quick parcel", view.Draft.Delivery.OtherText)

	view, err = f.uc.UpdateField(ctx, ref, "delivery.service", []byte(`"post"`))
	require.NoError(t, err)
	require.Empty(t, view.Draft.Delivery.OtherText)

	view, err = f.uc.UpdateField(ctx, ref, "delivery.otherText", []byte(`"Ignored"`))
	require.NoError(t, err)
	require.Equal(t, domain.Carrier("post"), view.Draft.Delivery.Service)
	require.Empty(t, view.Draft.Delivery.OtherText)

	_, err = f.uc.UpdateField(ctx, ref, "delivery.service", []byte(`"pigeon"`))
	require.ErrorIs(t, err, domain.ErrInvalidCarrier)
}

func TestColors_AddThenRemoveIsNoOp(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.AddColor(ctx, ref)
	require.NoError(t, err)
	before, err := f.uc.UpdateColor(ctx, ref, 0, &domain.ColorRequest{ColorCode: "#ff0000", ColorName: "Red", Quantity: 3})
	require.NoError(t, err)

	added, err := f.uc.AddColor(ctx, ref)
	require.NoError(t, err)
	require.Len(t, added.Draft.Product.Colors, 2)
	require.Equal(t, domain.DraftColor{
		ColorCode:    domain.DefaultColorCode,
		ThumbnailURL: domain.PlaceholderColorThumbnail,
		Quantity:     1,
	}, added.Draft.Product.Colors[1])

	after, err := f.uc.RemoveColor(ctx, ref, 1)
	require.NoError(t, err)
	require.Equal(t, before.Draft.Product.Colors, after.Draft.Product.Colors)
	require.Equal(t, "#FF0000", after.Draft.Product.Colors[0].ColorCode)

	_, err = f.uc.RemoveColor(ctx, ref, 5)
	require.ErrorIs(t, err, domain.ErrDraftIndexOutOfRange)
}

func TestDetailImages_RemoveShiftsLaterEntries(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	for _, url := range []string{"https://img/a.png", "", "https://img/c.png"} {
		_, err := f.uc.AddDetailImage(ctx, ref, url)
		require.NoError(t, err)
	}

	view, err := f.uc.RemoveDetailImage(ctx, ref, 0)
	require.NoError(t, err)
	require.Equal(t, []string{domain.PlaceholderDetailImage, "https://img/c.png"}, view.Draft.Product.DetailImages)
}

func TestDetailImages_UpdateReplacesPlaceholder(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.AddDetailImage(ctx, ref, "")
	require.NoError(t, err)

	view, err := f.uc.UpdateDetailImage(ctx, ref, 0, "/uploads/campaigns/owner-1/a.png")
	require.NoError(t, err)
	require.Equal(t, []string{"/uploads/campaigns/owner-1/a.png"}, view.Draft.Product.DetailImages)

	_, err = f.uc.UpdateDetailImage(ctx, ref, 3, "/uploads/x.png")
	require.ErrorIs(t, err, domain.ErrDraftIndexOutOfRange)
}

func TestSetCategory_ResetsSubcategoryAndListsChildren(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.SetCategory(ctx, ref, "beauty")
	require.NoError(t, err)
	_, err = f.uc.SetSubcategory(ctx, ref, "makeup")
	require.NoError(t, err)

	view, err := f.uc.SetCategory(ctx, ref, "beauty")
	require.NoError(t, err)
	require.Equal(t, "beauty", view.Draft.Product.CategoryID)
	require.Empty(t, view.Draft.Product.SubcategoryID)
	require.Len(t, view.Subcategories, 2)

	view, err = f.uc.SetCategory(ctx, ref, "fashion")
	require.NoError(t, err)
	require.Len(t, view.Subcategories, 1)
	require.Equal(t, "shoes", view.Subcategories[0].ID)

	_, err = f.uc.SetCategory(ctx, ref, "shoes")
	require.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = f.uc.SetCategory(ctx, ref, "nope")
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestSetSubcategory_MustBelongToCategory(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.SetSubcategory(ctx, ref, "skincare")
	require.ErrorIs(t, err, domain.ErrSubcategoryMismatch)

	_, err = f.uc.SetCategory(ctx, ref, "fashion")
	require.NoError(t, err)

	_, err = f.uc.SetSubcategory(ctx, ref, "skincare")
	require.ErrorIs(t, err, domain.ErrSubcategoryMismatch)

	view, err := f.uc.SetSubcategory(ctx, ref, "shoes")
	require.NoError(t, err)
	require.Equal(t, "shoes", view.Draft.Product.SubcategoryID)
}

func TestSetTimeline_OrderingIsOnlyAWarning(t *testing.T) {
	f := newDraftFixture(t)
	ref := f.open(t)

	view, err := f.uc.SetTimeline(context.Background(), ref, &domain.TimelineSection{
		RecruitmentStart: "2025-03-10",
		RecruitmentEnd:   "2025-03-01",
	})
	require.NoError(t, err)
	require.Len(t, view.Warnings, 1)
	require.Contains(t, view.Warnings[0], "timeline.recruitmentEnd")
}

func TestMutation_FailsFastWhenDraftIsLocked(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	ok, err := f.cache.Lock(ctx, cache.Key("draft", ref.OwnerID, ref.DraftID), "other-request", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.uc.SetBrandDescription(ctx, ref, "Clean beauty")
	require.ErrorIs(t, err, domain.ErrDraftBusy)

	require.NoError(t, f.cache.Unlock(ctx, cache.Key("draft", ref.OwnerID, ref.DraftID), "other-request"))
	view, err := f.uc.SetBrandDescription(ctx, ref, "Clean beauty")
	require.NoError(t, err)
	require.Equal(t, "Clean beauty", view.Draft.Brand.BrandDescription)
}

func TestMutation_FailedEditIsNotSaved(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	ref := f.open(t)

	_, err := f.uc.SetDelivery(ctx, ref, &domain.SetDeliveryRequest{Service: "pigeon"})
	require.ErrorIs(t, err, domain.ErrInvalidCarrier)

	view, err := f.uc.Get(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, domain.CarrierCJ, view.Draft.Delivery.Service)
}
