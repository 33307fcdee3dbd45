package api

import (
	"strconv"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	usecase     domain.DraftUsecase
	middlewares middleware.Middlewares
}

func NewDraftHandler(usecase domain.DraftUsecase, middlewares middleware.Middlewares) *DraftHandler {
	return &DraftHandler{usecase: usecase, middlewares: middlewares}
}

func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drafts := rg.Group("/drafts")
	drafts.Use(h.middlewares.Authenticator(), h.middlewares.RequireAnyRoles(domain.RoleBrandAdmin))
	{
		drafts.POST("", h.Open)
		drafts.GET("/:id", h.Get)
		drafts.DELETE("/:id", h.Discard)
		drafts.PATCH("/:id/fields", h.UpdateField)

		drafts.PUT("/:id/brand", h.SetBrandDescription)

		drafts.PUT("/:id/product", h.SetProduct)
		drafts.POST("/:id/colors", h.AddColor)
		drafts.PUT("/:id/colors/:index", h.UpdateColor)
		drafts.DELETE("/:id/colors/:index", h.RemoveColor)
		drafts.POST("/:id/images", h.AddDetailImage)
		drafts.PUT("/:id/images/:index", h.UpdateDetailImage)
		drafts.DELETE("/:id/images/:index", h.RemoveDetailImage)
		drafts.PUT("/:id/category", h.SetCategory)
		drafts.PUT("/:id/subcategory", h.SetSubcategory)

		drafts.PUT("/:id/pricing/base-price", h.SetBasePrice)
		drafts.PUT("/:id/pricing/higher-tier", h.SelectHigherTier)
		drafts.PUT("/:id/pricing/quantity", h.SetProductQuantity)

		drafts.PUT("/:id/timeline", h.SetTimeline)
		drafts.PUT("/:id/delivery", h.SetDelivery)
	}
}

func draftRef(c *gin.Context) domain.DraftRef {
	return domain.DraftRef{OwnerID: common.GetIdentityID(c), DraftID: c.Param("id")}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		common.ResponseError(c, domain.ErrDraftIndexOutOfRange.WithDetail("index", c.Param("index")))
		return 0, false
	}
	return index, true
}

func respondView(c *gin.Context, view *domain.DraftView, err error) {
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, view, "")
}

func (h *DraftHandler) Open(c *gin.Context) {
	view, err := h.usecase.Open(c.Request.Context(), common.GetIdentityID(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, view, "Draft opened")
}

func (h *DraftHandler) Get(c *gin.Context) {
	view, err := h.usecase.Get(c.Request.Context(), draftRef(c))
	respondView(c, view, err)
}

func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.usecase.Discard(c.Request.Context(), draftRef(c)); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c)
}

func (h *DraftHandler) UpdateField(c *gin.Context) {
	var req domain.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.UpdateField(c.Request.Context(), draftRef(c), req.Field, req.Value)
	respondView(c, view, err)
}

func (h *DraftHandler) SetBrandDescription(c *gin.Context) {
	var req domain.SetBrandDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetBrandDescription(c.Request.Context(), draftRef(c), req.BrandDescription)
	respondView(c, view, err)
}

func (h *DraftHandler) SetProduct(c *gin.Context) {
	var req domain.SetProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetProduct(c.Request.Context(), draftRef(c), &req)
	respondView(c, view, err)
}

func (h *DraftHandler) AddColor(c *gin.Context) {
	view, err := h.usecase.AddColor(c.Request.Context(), draftRef(c))
	respondView(c, view, err)
}

func (h *DraftHandler) UpdateColor(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req domain.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.UpdateColor(c.Request.Context(), draftRef(c), index, &req)
	respondView(c, view, err)
}

func (h *DraftHandler) RemoveColor(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	view, err := h.usecase.RemoveColor(c.Request.Context(), draftRef(c), index)
	respondView(c, view, err)
}

// AddDetailImage accepts an empty body, which appends the placeholder image.
func (h *DraftHandler) AddDetailImage(c *gin.Context) {
	var req domain.AddDetailImageRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ResponseBindError(c, err)
			return
		}
	}
	view, err := h.usecase.AddDetailImage(c.Request.Context(), draftRef(c), req.URL)
	respondView(c, view, err)
}

func (h *DraftHandler) UpdateDetailImage(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req domain.UpdateDetailImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.UpdateDetailImage(c.Request.Context(), draftRef(c), index, req.URL)
	respondView(c, view, err)
}

func (h *DraftHandler) RemoveDetailImage(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	view, err := h.usecase.RemoveDetailImage(c.Request.Context(), draftRef(c), index)
	respondView(c, view, err)
}

func (h *DraftHandler) SetCategory(c *gin.Context) {
	var req domain.SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetCategory(c.Request.Context(), draftRef(c), req.CategoryID)
	respondView(c, view, err)
}

func (h *DraftHandler) SetSubcategory(c *gin.Context) {
	var req domain.SetSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetSubcategory(c.Request.Context(), draftRef(c), req.SubcategoryID)
	respondView(c, view, err)
}

func (h *DraftHandler) SetBasePrice(c *gin.Context) {
	var req domain.SetBasePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindErrorAs(c, domain.ErrInvalidBasePrice, err)
		return
	}
	view, err := h.usecase.SetBasePrice(c.Request.Context(), draftRef(c), req.BasePrice)
	respondView(c, view, err)
}

func (h *DraftHandler) SelectHigherTier(c *gin.Context) {
	var req domain.SelectHigherTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindErrorAs(c, domain.ErrInvalidHigherTier, err)
		return
	}
	view, err := h.usecase.SelectHigherTier(c.Request.Context(), draftRef(c), req.Option)
	respondView(c, view, err)
}

func (h *DraftHandler) SetProductQuantity(c *gin.Context) {
	var req domain.SetProductQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetProductQuantity(c.Request.Context(), draftRef(c), req.ProductQuantity)
	respondView(c, view, err)
}

func (h *DraftHandler) SetTimeline(c *gin.Context) {
	var req domain.TimelineSection
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	view, err := h.usecase.SetTimeline(c.Request.Context(), draftRef(c), &req)
	respondView(c, view, err)
}

func (h *DraftHandler) SetDelivery(c *gin.Context) {
	var req domain.SetDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindErrorAs(c, domain.ErrInvalidCarrier, err)
		return
	}
	view, err := h.usecase.SetDelivery(c.Request.Context(), draftRef(c), &req)
	respondView(c, view, err)
}
