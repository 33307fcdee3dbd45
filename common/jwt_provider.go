package common

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"campaign-platform/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type JwtProviderConfig interface {
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	RefreshTokenSecret() string
	TokenIssuer() string
}

type JWTProvider struct {
	cfg JwtProviderConfig
	now func() time.Time
}

func NewJWTProvider(cfg JwtProviderConfig) *JWTProvider {
	return &JWTProvider{cfg: cfg, now: time.Now}
}

// Generate issues a signed access token, or an opaque random refresh token.
func (j *JWTProvider) Generate(tokenType domain.TokenType, identityID, sessionID string) (string, error) {
	switch tokenType {
	case domain.TokenTypeAccess:
		return j.generateAccessToken(identityID, sessionID)
	case domain.TokenTypeRefresh:
		return j.generateRefreshToken()
	default:
		return "", errors.New("invalid token type")
	}
}

func (j *JWTProvider) generateAccessToken(identityID, sessionID string) (string, error) {
	now := j.now()
	claims := domain.JwtClaims{
		Sub: identityID,
		Sid: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.TokenIssuer(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.AccessTokenExpiresIn())),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   identityID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.AccessTokenSecret()))
}

func (j *JWTProvider) generateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return hex.EncodeToString(bytes), nil
}

// Verify parses an access token. Refresh tokens are opaque and are checked
// against the session table instead.
func (j *JWTProvider) Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error) {
	if tokenType != domain.TokenTypeAccess {
		return nil, errors.New("only access tokens can be verified with JWT")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &domain.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.cfg.AccessTokenSecret()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.TokenIssuer()),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, domain.ErrInvalidToken.WithWrap(err)
	}
	claims, ok := token.Claims.(*domain.JwtClaims)
	if !ok || !token.Valid || claims.Sub == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
