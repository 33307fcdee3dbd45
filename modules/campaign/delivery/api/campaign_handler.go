package api

import (
	"net/http"
	"strings"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type CampaignHandler struct {
	usecase     domain.CampaignUsecase
	middlewares middleware.Middlewares
}

func NewCampaignHandler(usecase domain.CampaignUsecase, middlewares middleware.Middlewares) *CampaignHandler {
	return &CampaignHandler{usecase: usecase, middlewares: middlewares}
}

func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/drafts/:id/submit",
		h.middlewares.Authenticator(),
		h.middlewares.RequireAnyRoles(domain.RoleBrandAdmin),
		h.Submit,
	)

	campaigns := rg.Group("/campaigns")
	campaigns.Use(h.middlewares.Authenticator(), h.middlewares.RequireProfile())
	{
		campaigns.GET("/:id", h.Get)
	}
}

// Submit answers 201 for a new campaign and 200 when the key replays an
// earlier submit.
func (h *CampaignHandler) Submit(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if key == "" {
		common.ResponseError(c, domain.ErrIdempotencyKeyRequired)
		return
	}
	if len(key) > 128 {
		common.ResponseError(c, domain.ErrBadRequest.WithReason("Idempotency-Key must be at most 128 characters"))
		return
	}

	res, err := h.usecase.Submit(c.Request.Context(), &domain.SubmitDraftRequest{
		OwnerID:        common.GetIdentityID(c),
		DraftID:        c.Param("id"),
		IdempotencyKey: key,
	})
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	if res.Replayed {
		common.Response(c, http.StatusOK, "SUCCESS", res, "Campaign already submitted")
		return
	}
	common.ResponseCreated(c, res, "Campaign submitted")
}

func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, campaign, "")
}
