package api

import (
	"time"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	usecase     domain.AuthUsecase
	middlewares middleware.Middlewares
}

func NewAuthHandler(
	usecase domain.AuthUsecase,
	middlewares middleware.Middlewares,
) *AuthHandler {
	return &AuthHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	auth.POST("/sign-up", h.SignUp)
	auth.POST("/sign-in", h.SignIn)
	auth.POST("/refresh-token", h.refreshTokenRateLimit(), h.Refresh)
	auth.POST("/confirm-email", h.ConfirmEmail)
	auth.POST("/resend-confirmation", h.resendRateLimit(), h.ResendConfirmation)

	protected := auth.Group("")
	protected.Use(h.middlewares.Authenticator())
	{
		protected.POST("/sign-out", h.SignOut)
		protected.GET("/me", h.Me)
	}
}

func (h *AuthHandler) refreshTokenRateLimit() gin.HandlerFunc {
	return h.middlewares.RateLimitWithLogger(middleware.RateLimitConfig{
		WindowSize:  time.Minute,
		MaxRequests: 10,
		KeyPrefix:   "rate_limit:refresh_token",
	})
}

func (h *AuthHandler) resendRateLimit() gin.HandlerFunc {
	return h.middlewares.RateLimitWithLogger(middleware.RateLimitConfig{
		WindowSize:  10 * time.Minute,
		MaxRequests: 3,
		KeyPrefix:   "rate_limit:resend_confirmation",
	})
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindErrorAs(c, domain.ErrAuthValidation, err)
		return
	}

	resp, err := h.usecase.SignUp(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, resp, "Sign-up successful, check your email to confirm the account")
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindErrorAs(c, domain.ErrInvalidCredentials, err)
		return
	}
	common.PopulateClientInfo(c, &req.IPAddress, &req.UserAgent)

	resp, err := h.usecase.SignIn(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp, "Sign-in successful")
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	sessionID := common.GetSessionID(c)
	if sessionID == "" {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}

	if err := h.usecase.SignOut(c.Request.Context(), sessionID); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	common.PopulateClientInfo(c, &req.IPAddress, &req.UserAgent)

	resp, err := h.usecase.Refresh(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp, "Token refreshed")
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req domain.ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if err := h.usecase.ConfirmEmail(c.Request.Context(), &req); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, true, "Email confirmed")
}

func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req domain.ResendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if err := h.usecase.ResendConfirmation(c.Request.Context(), &req); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, true, "If the account is awaiting confirmation, a new email has been sent")
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.usecase.Me(c.Request.Context(), common.GetIdentityID(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp, "")
}
