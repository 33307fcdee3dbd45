package api

import (
	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	usecase     domain.DashboardUsecase
	middlewares middleware.Middlewares
}

func NewDashboardHandler(usecase domain.DashboardUsecase, middlewares middleware.Middlewares) *DashboardHandler {
	return &DashboardHandler{usecase: usecase, middlewares: middlewares}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.middlewares.Authenticator(), h.Get)
}

// Get renders the caller's dashboard. The role on the stored profile picks
// the view, so a session without a profile gets profile_incomplete.
func (h *DashboardHandler) Get(c *gin.Context) {
	var query domain.DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.ResponseBindError(c, err)
		return
	}

	dashboard, err := h.usecase.Get(c.Request.Context(), common.GetIdentityID(c), &query)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, dashboard, "")
}
