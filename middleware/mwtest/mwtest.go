// Package mwtest builds the real middlewares over in-memory sessions for
// handler tests.
package mwtest

import (
	"context"
	"strings"
	"time"

	"campaign-platform/domain"
	"campaign-platform/middleware"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"
)

// Token returns the bearer token accepted for identity.
func Token(identityID string) string {
	return identityID + ":s-" + identityID
}

// New returns middlewares that know one active session per key of roles.
// An empty role means the identity has not completed its profile.
func New(roles map[string]domain.Role) middleware.Middlewares {
	return middleware.NewMiddlewares(middleware.Dependencies{
		Cache:        cache.NewMemoryCache(&cache.Config{DefaultTTL: time.Minute}, nil),
		Logger:       log.NewNopLogger(),
		JwtProvider:  tokens{},
		SessionRepo:  sessions(roles),
		IdentityRepo: identities(roles),
		ProfileRepo:  profiles(roles),

		RateLimitPerMinute:     1000,
		AuthRateLimitPerMinute: 1000,
	})
}

type tokens struct{}

func (tokens) Verify(_ domain.TokenType, token string) (*domain.JwtClaims, error) {
	sub, sid, ok := strings.Cut(token, ":")
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &domain.JwtClaims{Sub: sub, Sid: sid}, nil
}

type sessions map[string]domain.Role

func (s sessions) FindByID(_ context.Context, id string, _ *domain.FindOneOption) (*domain.UserSession, error) {
	userID := strings.TrimPrefix(id, "s-")
	if _, ok := s[userID]; !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &domain.UserSession{SQLModel: domain.SQLModel{ID: id}, UserID: userID, Active: true}, nil
}

type identities map[string]domain.Role

func (i identities) FindByID(_ context.Context, id string, _ *domain.FindOneOption) (*domain.Identity, error) {
	if _, ok := i[id]; !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &domain.Identity{SQLModel: domain.SQLModel{ID: id}, Status: domain.IdentityActive}, nil
}

type profiles map[string]domain.Role

func (p profiles) FindByID(_ context.Context, id string, _ *domain.FindOneOption) (*domain.Profile, error) {
	role, ok := p[id]
	if !ok || role == "" {
		return nil, domain.ErrRecordNotFound
	}
	return &domain.Profile{SQLModel: domain.SQLModel{ID: id}, Role: role}, nil
}
