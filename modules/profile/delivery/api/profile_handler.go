package api

import (
	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	usecase     domain.ProfileUsecase
	middlewares middleware.Middlewares
}

func NewProfileHandler(usecase domain.ProfileUsecase, middlewares middleware.Middlewares) *ProfileHandler {
	return &ProfileHandler{usecase: usecase, middlewares: middlewares}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(h.middlewares.Authenticator())
	{
		profile.GET("", h.Get)
		profile.POST("", h.Complete)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.usecase.Resolve(c.Request.Context(), common.GetIdentityID(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, profile, "")
}

// Complete clears the profile_incomplete state for an identity that has no
// profile yet.
func (h *ProfileHandler) Complete(c *gin.Context) {
	var req domain.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}

	profile, err := h.usecase.Complete(c.Request.Context(), common.GetIdentityID(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, profile, "Profile completed")
}
