package domain

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthErrorKind is the closed set of failure kinds reported by sign-in and
// sign-up. It is carried as the ID of the returned DetailedError.
type AuthErrorKind string

const (
	AuthErrInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthErrEmailUnconfirmed   AuthErrorKind = "email_unconfirmed"
	AuthErrDuplicateEmail     AuthErrorKind = "duplicate_email"
	AuthErrValidation         AuthErrorKind = "validation"
	AuthErrUnknown            AuthErrorKind = "unknown"
)

/****************************
*        Auth errors        *
****************************/
var (
	ErrInvalidCredentials = &DetailedError{
		IDField:         string(AuthErrInvalidCredentials),
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Invalid email or password",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrEmailUnconfirmed = &DetailedError{
		IDField:         string(AuthErrEmailUnconfirmed),
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Email address has not been confirmed",
		StatusCodeField: http.StatusForbidden,
	}
	ErrDuplicateEmail = &DetailedError{
		IDField:         string(AuthErrDuplicateEmail),
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "An account with this email already exists",
		StatusCodeField: http.StatusConflict,
	}
	ErrAuthValidation = &DetailedError{
		IDField:         string(AuthErrValidation),
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Sign-up data is invalid",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrAuthUnknown = &DetailedError{
		IDField:         string(AuthErrUnknown),
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Authentication failed",
		StatusCodeField: http.StatusInternalServerError,
	}

	ErrInvalidToken = &DetailedError{
		IDField:         "INVALID_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Invalid or expired token",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrSessionExpired = &DetailedError{
		IDField:         "SESSION_EXPIRED",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Session has expired",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrCannotCreateSession = &DetailedError{
		IDField:         "CANNOT_CREATE_SESSION",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to create session",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrConfirmationInvalid = &DetailedError{
		IDField:         "CONFIRMATION_INVALID",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Confirmation token is invalid",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrAccountBanned = &DetailedError{
		IDField:         "ACCOUNT_BANNED",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Account has been banned",
		StatusCodeField: http.StatusForbidden,
	}
)

// KindOf maps err to its AuthErrorKind. Anything outside the taxonomy is
// reported as unknown.
func KindOf(err error) AuthErrorKind {
	de, ok := AsDetailedError(err)
	if !ok {
		return AuthErrUnknown
	}
	switch k := AuthErrorKind(de.ID()); k {
	case AuthErrInvalidCredentials, AuthErrEmailUnconfirmed, AuthErrDuplicateEmail, AuthErrValidation:
		return k
	default:
		return AuthErrUnknown
	}
}

/***************************************
*       Auth entities and types       *
***************************************/
type IdentityStatus string

const (
	IdentityWaitingConfirm IdentityStatus = "waiting_verify"
	IdentityActive         IdentityStatus = "active"
	IdentityBanned         IdentityStatus = "banned"
)

// Identity is the credential record behind a session. Email never changes
// after creation.
type Identity struct {
	SQLModel
	Email             string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password          string         `json:"-" gorm:"type:varchar(60);not null"`
	Status            IdentityStatus `json:"status" gorm:"type:varchar(20);not null;default:'waiting_verify'"`
	ConfirmationToken string         `json:"-" gorm:"type:varchar(64);index"`
	ConfirmedAt       int64          `json:"confirmed_at,omitempty"`
}

func (i *Identity) IsConfirmed() bool { return i.Status == IdentityActive }
func (i *Identity) IsBanned() bool    { return i.Status == IdentityBanned }

type IdentityFilter struct {
	ID                *string         `json:"id,omitempty"`
	Email             *string         `json:"email,omitempty"`
	Status            *IdentityStatus `json:"status,omitempty"`
	ConfirmationToken *string         `json:"-"`
	IncludeDeleted    *bool           `json:"include_deleted,omitempty"`
}

type TokenType int

const (
	TokenTypeAccess TokenType = iota
	TokenTypeRefresh
)

type JwtClaims struct {
	Sub string `json:"sub"` // identity id
	Sid string `json:"sid"` // session id
	jwt.RegisteredClaims
}

type UserSession struct {
	SQLModel
	UserID         string `json:"user_id" gorm:"type:varchar(36);index;not null"`
	RefreshToken   string `json:"-" gorm:"type:varchar(128);index"`
	IPAddress      string `json:"ip_address" gorm:"type:varchar(64)"`
	UserAgent      string `json:"user_agent" gorm:"type:text"`
	Active         bool   `json:"active"`
	ExpiresAt      int64  `json:"expires_at"`
	LastActivityAt int64  `json:"last_activity_at"`
}

func (s *UserSession) IsActive() bool {
	return s.Active && (s.ExpiresAt == 0 || s.ExpiresAt > time.Now().UnixMilli())
}

type UserSessionFilter struct {
	ID           *string `json:"id,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
	RefreshToken *string `json:"-"`
	Active       *bool   `json:"active,omitempty"`
	ExpiresAfter *int64  `json:"expires_after,omitempty"`
}

/*************************************
*  Auth usecase interfaces and types *
**************************************/
type AuthUsecase interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResponse, error)
	SignIn(ctx context.Context, req *SignInRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, req *RefreshTokenRequest) (*AuthResponse, error)
	ConfirmEmail(ctx context.Context, req *ConfirmEmailRequest) error
	ResendConfirmation(ctx context.Context, req *ResendConfirmationRequest) error
	Me(ctx context.Context, identityID string) (*MeResponse, error)
}

type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	FullName    string `json:"full_name" binding:"required,min=1,max=100"`
	Role        Role   `json:"role" binding:"required,signup_role"`
	CompanyName string `json:"company_name" binding:"omitempty,max=200"`
}

type SignInRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type ResendConfirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SignUpResponse struct {
	Identity *Identity `json:"identity"`
	Profile  *Profile  `json:"profile"`
	// ConfirmationRequired is true until the emailed token is redeemed.
	ConfirmationRequired bool `json:"confirmation_required"`
}

type AuthResponse struct {
	Identity      *Identity     `json:"identity"`
	Profile       *Profile      `json:"profile,omitempty"`
	ProfileStatus ProfileStatus `json:"profile_status"`
	SessionID     string        `json:"session_id"`
	AccessToken   string        `json:"access_token"`
	RefreshToken  string        `json:"refresh_token"`
}

type MeResponse struct {
	Identity      *Identity     `json:"identity"`
	Profile       *Profile      `json:"profile,omitempty"`
	ProfileStatus ProfileStatus `json:"profile_status"`
}
