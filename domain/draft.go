package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"campaign-platform/pkg/utils"

	"github.com/samber/lo"
)

/******************************
*         Draft errors        *
******************************/
var (
	ErrDraftNotFound = &DetailedError{
		IDField:         "DRAFT_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Campaign draft not found or expired",
		StatusCodeField: http.StatusNotFound,
	}
	ErrDraftBusy = &DetailedError{
		IDField:         "DRAFT_BUSY",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Campaign draft is being modified by another request",
		StatusCodeField: http.StatusConflict,
	}
	ErrDraftValidation = &DetailedError{
		IDField:         "DRAFT_VALIDATION",
		StatusDescField: http.StatusText(http.StatusUnprocessableEntity),
		ErrorField:      "Campaign draft is incomplete or inconsistent",
		StatusCodeField: http.StatusUnprocessableEntity,
	}
	ErrDraftUnknownField = &DetailedError{
		IDField:         "DRAFT_UNKNOWN_FIELD",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Unknown draft field",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrDraftFieldInvalid = &DetailedError{
		IDField:         "DRAFT_FIELD_INVALID",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Draft field value has the wrong type",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrDraftIndexOutOfRange = &DetailedError{
		IDField:         "DRAFT_INDEX_OUT_OF_RANGE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "No entry at that position",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidBasePrice = &DetailedError{
		IDField:         "INVALID_BASE_PRICE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Base price must be one of the offered price options",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidHigherTier = &DetailedError{
		IDField:         "INVALID_HIGHER_TIER",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Higher tier must be 400000, 350000 or none",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidCarrier = &DetailedError{
		IDField:         "INVALID_CARRIER",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Unknown delivery service",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrSubcategoryMismatch = &DetailedError{
		IDField:         "SUBCATEGORY_MISMATCH",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Subcategory does not belong to the selected category",
		StatusCodeField: http.StatusBadRequest,
	}
)

/******************************
*     Pricing and carriers    *
******************************/
const (
	DefaultBasePrice int64 = 200000
	DefaultColorCode       = "#000000"

	PlaceholderColorThumbnail = "https://images.pexels.com/photos/90946/pexels-photo-90946.jpeg?auto=compress&cs=tinysrgb&w=400"
	PlaceholderDetailImage    = "https://images.pexels.com/photos/230544/pexels-photo-230544.jpeg?auto=compress&cs=tinysrgb&w=800"
)

// PriceOptions are the base rates a brand may offer, in KRW.
var PriceOptions = []int64{200000, 300000, 400000, 500000}

// HigherTierOption is the tri-state higher tier selector.
type HigherTierOption string

const (
	HigherTier400000 HigherTierOption = "400000"
	HigherTier350000 HigherTierOption = "350000"
	HigherTierNone   HigherTierOption = "none"
)

// Price returns the tier price, or nil for none. ok is false for anything
// outside the three options.
func (o HigherTierOption) Price() (price *int64, ok bool) {
	switch o {
	case HigherTier400000, HigherTier350000:
		p, _ := strconv.ParseInt(string(o), 10, 64)
		return &p, true
	case HigherTierNone:
		return nil, true
	}
	return nil, false
}

type Carrier string

const (
	CarrierCJ     Carrier = "cj"
	CarrierPost   Carrier = "post"
	CarrierHanjin Carrier = "hanjin"
	CarrierLotte  Carrier = "lotte"
	CarrierLogen  Carrier = "logen"
	CarrierEtc    Carrier = "etc"
)

type CarrierOption struct {
	Code  Carrier `json:"code"`
	Label string  `json:"label"`
}

var Carriers = []CarrierOption{
	{CarrierCJ, "CJ대한통운"},
	{CarrierPost, "우체국택배"},
	{CarrierHanjin, "한진택배"},
	{CarrierLotte, "롯데택배"},
	{CarrierLogen, "로젠택배"},
	{CarrierEtc, "기타"},
}

func (c Carrier) IsValid() bool {
	return lo.ContainsBy(Carriers, func(o CarrierOption) bool { return o.Code == c })
}

/******************************
*        Draft structure      *
******************************/
type DraftColor struct {
	ColorCode    string `json:"colorCode"`
	ColorName    string `json:"colorName"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Quantity     int    `json:"quantity"`
}

type BrandSection struct {
	BrandDescription string `json:"brandDescription"`
}

type ProductSection struct {
	Name          string       `json:"name"`
	URL           string       `json:"url"`
	RetailPrice   int64        `json:"retailPrice"`
	CategoryID    string       `json:"categoryId"`
	SubcategoryID string       `json:"subcategoryId"`
	Quantity      int          `json:"quantity"`
	Colors        []DraftColor `json:"colors"`
	DetailImages  []string     `json:"detailImages"`
}

type PricingSection struct {
	BasePrice       int64  `json:"basePrice"`
	AllowHigherTier bool   `json:"allowHigherTier"`
	HigherTierPrice *int64 `json:"higherTierPrice"`
	ProductQuantity int    `json:"productQuantity"`
}

// TimelineSection holds YYYY-MM-DD dates.
type TimelineSection struct {
	RecruitmentStart string `json:"recruitmentStart" binding:"date_ymd"`
	RecruitmentEnd   string `json:"recruitmentEnd" binding:"date_ymd"`
	SelectionStart   string `json:"selectionStart" binding:"date_ymd"`
	SelectionEnd     string `json:"selectionEnd" binding:"date_ymd"`
	ShippingDate     string `json:"shippingDate" binding:"date_ymd"`
	ContentStart     string `json:"contentStart" binding:"date_ymd"`
	ContentEnd       string `json:"contentEnd" binding:"date_ymd"`
}

type DeliverySection struct {
	Service   Carrier `json:"service"`
	OtherText string  `json:"otherText"`
}

// CampaignDraft accumulates a campaign across the five authoring sections.
// Colors and DetailImages are addressed by position only.
type CampaignDraft struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	BrandID   string          `json:"brandId"`
	Brand     BrandSection    `json:"brand"`
	Product   ProductSection  `json:"product"`
	Pricing   PricingSection  `json:"pricing"`
	Timeline  TimelineSection `json:"timeline"`
	Delivery  DeliverySection `json:"delivery"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

func NewCampaignDraft(id, ownerID, brandID string) *CampaignDraft {
	now := utils.NowUnixMillis()
	return &CampaignDraft{
		ID:      id,
		OwnerID: ownerID,
		BrandID: brandID,
		Product: ProductSection{
			Colors:       []DraftColor{},
			DetailImages: []string{},
		},
		Pricing:   PricingSection{BasePrice: DefaultBasePrice},
		Delivery:  DeliverySection{Service: CarrierCJ},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *CampaignDraft) TotalBudget() int64 {
	return d.Pricing.BasePrice * int64(d.Pricing.ProductQuantity)
}

func (d *CampaignDraft) AddColor() int {
	d.Product.Colors = append(d.Product.Colors, DraftColor{
		ColorCode:    DefaultColorCode,
		ThumbnailURL: PlaceholderColorThumbnail,
		Quantity:     1,
	})
	return len(d.Product.Colors) - 1
}

func (d *CampaignDraft) UpdateColor(index int, color DraftColor) error {
	if index < 0 || index >= len(d.Product.Colors) {
		return ErrDraftIndexOutOfRange.WithDetail("index", index)
	}
	d.Product.Colors[index] = color
	return nil
}

func (d *CampaignDraft) RemoveColor(index int) error {
	if index < 0 || index >= len(d.Product.Colors) {
		return ErrDraftIndexOutOfRange.WithDetail("index", index)
	}
	d.Product.Colors = append(d.Product.Colors[:index:index], d.Product.Colors[index+1:]...)
	return nil
}

// AddDetailImage appends url, or the placeholder when url is empty.
func (d *CampaignDraft) AddDetailImage(url string) int {
	if url == "" {
		url = PlaceholderDetailImage
	}
	d.Product.DetailImages = append(d.Product.DetailImages, url)
	return len(d.Product.DetailImages) - 1
}

func (d *CampaignDraft) UpdateDetailImage(index int, url string) error {
	if index < 0 || index >= len(d.Product.DetailImages) {
		return ErrDraftIndexOutOfRange.WithDetail("index", index)
	}
	d.Product.DetailImages[index] = url
	return nil
}

func (d *CampaignDraft) RemoveDetailImage(index int) error {
	if index < 0 || index >= len(d.Product.DetailImages) {
		return ErrDraftIndexOutOfRange.WithDetail("index", index)
	}
	d.Product.DetailImages = append(d.Product.DetailImages[:index:index], d.Product.DetailImages[index+1:]...)
	return nil
}

// SetCategory always clears the subcategory, even when the category is
// unchanged.
func (d *CampaignDraft) SetCategory(categoryID string) {
	d.Product.CategoryID = categoryID
	d.Product.SubcategoryID = ""
}

func (d *CampaignDraft) SetBasePrice(price int64) error {
	if !lo.Contains(PriceOptions, price) {
		return ErrInvalidBasePrice.WithDetail("allowed", PriceOptions)
	}
	d.Pricing.BasePrice = price
	return nil
}

// SelectHigherTier sets allowHigherTier and higherTierPrice together.
func (d *CampaignDraft) SelectHigherTier(option HigherTierOption) error {
	price, ok := option.Price()
	if !ok {
		return ErrInvalidHigherTier
	}
	d.Pricing.HigherTierPrice = price
	d.Pricing.AllowHigherTier = price != nil
	return nil
}

// HigherTierSelection reports the current tri-state selection.
func (d *CampaignDraft) HigherTierSelection() HigherTierOption {
	if !d.Pricing.AllowHigherTier || d.Pricing.HigherTierPrice == nil {
		return HigherTierNone
	}
	return HigherTierOption(strconv.FormatInt(*d.Pricing.HigherTierPrice, 10))
}

// SetDelivery stores the free-text carrier only for CarrierEtc.
func (d *CampaignDraft) SetDelivery(service Carrier, otherText string) error {
	if !service.IsValid() {
		return ErrInvalidCarrier.WithDetail("service", service)
	}
	d.Delivery.Service = service
	if service == CarrierEtc {
		d.Delivery.OtherText = otherText
	} else {
		d.Delivery.OtherText = ""
	}
	return nil
}

type timelinePoint struct {
	field string
	value string
}

func (t TimelineSection) points() []timelinePoint {
	return []timelinePoint{
		{"timeline.recruitmentStart", t.RecruitmentStart},
		{"timeline.recruitmentEnd", t.RecruitmentEnd},
		{"timeline.selectionStart", t.SelectionStart},
		{"timeline.selectionEnd", t.SelectionEnd},
		{"timeline.shippingDate", t.ShippingDate},
		{"timeline.contentStart", t.ContentStart},
		{"timeline.contentEnd", t.ContentEnd},
	}
}

// orderingProblems returns field -> message for every set pair of adjacent
// milestones that runs backwards.
func (t TimelineSection) orderingProblems() map[string]string {
	problems := map[string]string{}
	points := t.points()
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		prevDate, errPrev := utils.ParseDate(prev.value)
		curDate, errCur := utils.ParseDate(cur.value)
		if errPrev != nil || errCur != nil {
			continue
		}
		if curDate.Before(prevDate) {
			problems[cur.field] = fmt.Sprintf("must not be before %s", prev.field)
		}
	}
	return problems
}

// TimelineWarnings lists ordering problems without blocking edits.
func (d *CampaignDraft) TimelineWarnings() []string {
	problems := d.Timeline.orderingProblems()
	warnings := make([]string, 0, len(problems))
	for _, p := range d.Timeline.points() {
		if msg, ok := problems[p.field]; ok {
			warnings = append(warnings, p.field+" "+msg)
		}
	}
	return warnings
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks every required field and cross-field rule and returns a
// single ErrDraftValidation listing all problems under details.fields.
func (d *CampaignDraft) Validate() error {
	problems := map[string]string{}
	require := func(ok bool, field, msg string) {
		if !ok {
			if _, exists := problems[field]; !exists {
				problems[field] = msg
			}
		}
	}

	require(d.Brand.BrandDescription != "", "brand.brandDescription", "is required")

	p := d.Product
	require(p.Name != "", "product.name", "is required")
	require(p.URL != "", "product.url", "is required")
	require(p.RetailPrice > 0, "product.retailPrice", "must be greater than 0")
	require(p.CategoryID != "", "product.categoryId", "is required")
	require(p.Quantity > 0, "product.quantity", "must be greater than 0")
	require(len(p.Colors) > 0, "product.colors", "at least one color is required")
	for i, c := range p.Colors {
		field := fmt.Sprintf("product.colors[%d]", i)
		require(c.ColorName != "", field+".colorName", "is required")
		require(hexColorPattern.MatchString(c.ColorCode), field+".colorCode", "must be #RRGGBB")
		require(c.Quantity >= 1, field+".quantity", "must be at least 1")
	}
	require(len(p.DetailImages) > 0, "product.detailImages", "at least one image is required")
	for i, url := range p.DetailImages {
		require(url != "", fmt.Sprintf("product.detailImages[%d]", i), "is required")
	}

	pr := d.Pricing
	require(lo.Contains(PriceOptions, pr.BasePrice), "pricing.basePrice", "must be one of the price options")
	require(pr.AllowHigherTier == (pr.HigherTierPrice != nil), "pricing.higherTierPrice", "must be set exactly when the higher tier is allowed")
	if pr.HigherTierPrice != nil {
		_, ok := HigherTierOption(strconv.FormatInt(*pr.HigherTierPrice, 10)).Price()
		require(ok, "pricing.higherTierPrice", "must be 350000 or 400000")
	}
	require(pr.ProductQuantity > 0, "pricing.productQuantity", "must be greater than 0")

	for _, pt := range d.Timeline.points() {
		require(pt.value != "", pt.field, "is required")
		if pt.value != "" {
			require(utils.IsDate(pt.value), pt.field, "must be a YYYY-MM-DD date")
		}
	}
	for field, msg := range d.Timeline.orderingProblems() {
		require(false, field, msg)
	}

	require(d.Delivery.Service.IsValid(), "delivery.service", "is not a known carrier")
	if d.Delivery.Service == CarrierEtc {
		require(d.Delivery.OtherText != "", "delivery.otherText", "is required when the carrier is etc")
	}

	if len(problems) == 0 {
		return nil
	}
	return ErrDraftValidation.WithDetail("fields", problems)
}

/******************************
*    Draft usecase contracts  *
******************************/

// DraftRef addresses a draft owned by one brand admin.
type DraftRef struct {
	OwnerID string
	DraftID string
}

// DraftView is what every draft operation returns.
type DraftView struct {
	Draft          *CampaignDraft   `json:"draft"`
	TotalBudget    int64            `json:"totalBudget"`
	HigherTier     HigherTierOption `json:"higherTier"`
	Warnings       []string         `json:"warnings"`
	Subcategories  []*Category      `json:"subcategories,omitempty"`
	PriceOptions   []int64          `json:"priceOptions"`
	CarrierOptions []CarrierOption  `json:"carrierOptions"`
}

func NewDraftView(d *CampaignDraft) *DraftView {
	return &DraftView{
		Draft:          d,
		TotalBudget:    d.TotalBudget(),
		HigherTier:     d.HigherTierSelection(),
		Warnings:       d.TimelineWarnings(),
		PriceOptions:   PriceOptions,
		CarrierOptions: Carriers,
	}
}

type DraftUsecase interface {
	Open(ctx context.Context, ownerID string) (*DraftView, error)
	Get(ctx context.Context, ref DraftRef) (*DraftView, error)
	Discard(ctx context.Context, ref DraftRef) error

	// UpdateField replaces the slot named by a dotted JSON path such as
	// "product.name". No cross-field validation happens here.
	UpdateField(ctx context.Context, ref DraftRef, field string, value []byte) (*DraftView, error)

	SetBrandDescription(ctx context.Context, ref DraftRef, description string) (*DraftView, error)
	SetProduct(ctx context.Context, ref DraftRef, req *SetProductRequest) (*DraftView, error)
	AddColor(ctx context.Context, ref DraftRef) (*DraftView, error)
	UpdateColor(ctx context.Context, ref DraftRef, index int, req *ColorRequest) (*DraftView, error)
	RemoveColor(ctx context.Context, ref DraftRef, index int) (*DraftView, error)
	AddDetailImage(ctx context.Context, ref DraftRef, url string) (*DraftView, error)
	UpdateDetailImage(ctx context.Context, ref DraftRef, index int, url string) (*DraftView, error)
	RemoveDetailImage(ctx context.Context, ref DraftRef, index int) (*DraftView, error)
	SetCategory(ctx context.Context, ref DraftRef, categoryID string) (*DraftView, error)
	SetSubcategory(ctx context.Context, ref DraftRef, subcategoryID string) (*DraftView, error)
	SetBasePrice(ctx context.Context, ref DraftRef, price int64) (*DraftView, error)
	SelectHigherTier(ctx context.Context, ref DraftRef, option HigherTierOption) (*DraftView, error)
	SetProductQuantity(ctx context.Context, ref DraftRef, quantity int) (*DraftView, error)
	SetTimeline(ctx context.Context, ref DraftRef, timeline *TimelineSection) (*DraftView, error)
	SetDelivery(ctx context.Context, ref DraftRef, req *SetDeliveryRequest) (*DraftView, error)
}

type SetProductRequest struct {
	Name        string `json:"name" binding:"max=255"`
	URL         string `json:"url" binding:"omitempty,url"`
	RetailPrice int64  `json:"retailPrice" binding:"gte=0"`
	Quantity    int    `json:"quantity" binding:"gte=0"`
}

type ColorRequest struct {
	ColorCode    string `json:"colorCode" binding:"required,hex_color"`
	ColorName    string `json:"colorName" binding:"max=100"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Quantity     int    `json:"quantity" binding:"gte=1"`
}

type SetDeliveryRequest struct {
	Service   Carrier `json:"service" binding:"required,carrier"`
	OtherText string  `json:"otherText" binding:"max=100"`
}

type UpdateFieldRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value" binding:"required"`
}

type SetBrandDescriptionRequest struct {
	BrandDescription string `json:"brandDescription" binding:"max=2000"`
}

// Image URLs may be relative when uploads are served locally.
type AddDetailImageRequest struct {
	URL string `json:"url" binding:"omitempty,uri"`
}

type UpdateDetailImageRequest struct {
	URL string `json:"url" binding:"required,uri"`
}

type SetCategoryRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
}

type SetSubcategoryRequest struct {
	SubcategoryID string `json:"subcategoryId"`
}

type SetBasePriceRequest struct {
	BasePrice int64 `json:"basePrice" binding:"required,base_price"`
}

type SelectHigherTierRequest struct {
	Option HigherTierOption `json:"option" binding:"required,higher_tier_option"`
}

type SetProductQuantityRequest struct {
	ProductQuantity int `json:"productQuantity" binding:"gte=0"`
}
