package middleware

import (
	"context"
	"strings"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type JwtProvider interface {
	Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error)
}

type SessionRepository interface {
	FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error)
}

type IdentityRepository interface {
	FindByID(ctx context.Context, identityID string, option *domain.FindOneOption) (*domain.Identity, error)
}

type ProfileRepository interface {
	FindByID(ctx context.Context, profileID string, option *domain.FindOneOption) (*domain.Profile, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// Authenticator resolves the bearer token to an identity and session. When a
// profile exists its role is stored too; a missing profile is not an error
// here so /auth/me and POST /profile stay reachable.
func (m *middlewares) Authenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := bearerToken(c)
		if token == "" {
			common.ResponseError(c, domain.ErrInvalidToken.WithReason("missing bearer token"))
			return
		}

		claims, err := m.jwtProvider.Verify(domain.TokenTypeAccess, token)
		if err != nil {
			common.ResponseError(c, err)
			return
		}

		session, err := m.sessionRepo.FindByID(ctx, claims.Sid, nil)
		if err != nil && !common.IsRecordNotFound(err) {
			common.ResponseError(c, err)
			return
		}
		if session == nil || session.UserID != claims.Sub || !session.IsActive() {
			common.ResponseError(c, domain.ErrSessionExpired)
			return
		}

		identity, err := m.identityRepo.FindByID(ctx, claims.Sub, nil)
		if err != nil {
			if common.IsRecordNotFound(err) {
				common.ResponseError(c, domain.ErrInvalidToken.WithReason("identity no longer exists"))
				return
			}
			common.ResponseError(c, err)
			return
		}
		if identity.IsBanned() {
			common.ResponseError(c, domain.ErrAccountBanned)
			return
		}

		c.Set(common.UserContextKey, identity.ID)
		c.Set(common.SessionIDContextKey, session.ID)
		ctx = log.ContextWith(ctx, log.CtxKeyUserID, identity.ID)

		profile, err := m.profileRepo.FindByID(ctx, identity.ID, nil)
		switch {
		case err == nil:
			c.Set(common.ProfileContextKey, profile)
			c.Set(common.RoleContextKey, string(profile.Role))
			ctx = log.ContextWith(ctx, log.CtxKeyRole, string(profile.Role))
		case common.IsRecordNotFound(err):
		default:
			common.ResponseError(c, domain.ErrProfileLoadFailed.WithWrap(err))
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// checkProfile aborts with an error response and returns false when the
// caller has no usable profile.
func checkProfile(c *gin.Context) bool {
	profile := common.GetProfile(c)
	if profile == nil {
		common.ResponseError(c, domain.ErrProfileIncomplete)
		return false
	}
	if !profile.Role.IsValid() {
		common.ResponseError(c, domain.ErrUnknownRole.WithDetail("role", profile.Role))
		return false
	}
	return true
}

// RequireProfile rejects callers whose profile has not been completed.
func (m *middlewares) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkProfile(c) {
			return
		}
		c.Next()
	}
}

// RequireAnyRoles implies RequireProfile.
func (m *middlewares) RequireAnyRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := strings.Join(lo.Map(roles, func(r domain.Role, _ int) string { return string(r) }), ", ")
	return func(c *gin.Context) {
		if !checkProfile(c) {
			return
		}

		role := common.GetRole(c)
		if !lo.Contains(roles, role) {
			common.ResponseError(c, domain.ErrForbidden.
				WithReasonf("role %s is not allowed, requires one of: %s", role, allowed))
			return
		}
		c.Next()
	}
}
