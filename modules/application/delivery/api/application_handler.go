package api

import (
	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	usecase     domain.ApplicationUsecase
	middlewares middleware.Middlewares
}

func NewApplicationHandler(usecase domain.ApplicationUsecase, middlewares middleware.Middlewares) *ApplicationHandler {
	return &ApplicationHandler{usecase: usecase, middlewares: middlewares}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authenticated := rg.Group("")
	authenticated.Use(h.middlewares.Authenticator())
	{
		authenticated.POST("/campaigns/:id/applications",
			h.middlewares.RequireAnyRoles(domain.RoleCreatorAdmin), h.Apply)
		authenticated.GET("/campaigns/:id/applications",
			h.middlewares.RequireAnyRoles(domain.RoleBrandAdmin), h.ListForCampaign)
		authenticated.PUT("/applications/:id/review",
			h.middlewares.RequireAnyRoles(domain.RoleBrandAdmin), h.Review)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	application, err := h.usecase.Apply(c.Request.Context(), common.GetIdentityID(c), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, application, "Application submitted")
}

func (h *ApplicationHandler) ListForCampaign(c *gin.Context) {
	var query domain.ListApplicationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.ResponseBindError(c, err)
		return
	}

	page, err := h.usecase.ListForCampaign(c.Request.Context(), common.GetIdentityID(c), c.Param("id"), &query)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, page, "")
}

func (h *ApplicationHandler) Review(c *gin.Context) {
	var req domain.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}

	application, err := h.usecase.Review(c.Request.Context(), common.GetIdentityID(c), c.Param("id"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, application, "Application reviewed")
}
