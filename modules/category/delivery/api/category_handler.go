package api

import (
	"campaign-platform/common"
	"campaign-platform/domain"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	usecase domain.CategoryUsecase
}

func NewCategoryHandler(usecase domain.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{usecase: usecase}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.ListTopLevel)
	categories.GET("/:id/subcategories", h.ListChildren)
}

func (h *CategoryHandler) ListTopLevel(c *gin.Context) {
	categories, err := h.usecase.ListTopLevel(c.Request.Context())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, categories, "")
}

func (h *CategoryHandler) ListChildren(c *gin.Context) {
	categories, err := h.usecase.ListChildren(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, categories, "")
}
