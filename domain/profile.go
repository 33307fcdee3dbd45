package domain

import (
	"context"
	"net/http"
)

/******************************
*        Profile errors       *
******************************/
var (
	ErrProfileIncomplete = &DetailedError{
		IDField:         "PROFILE_INCOMPLETE",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Profile has not been completed",
		StatusCodeField: http.StatusConflict,
	}
	ErrProfileExists = &DetailedError{
		IDField:         "PROFILE_EXISTS",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Profile already exists",
		StatusCodeField: http.StatusConflict,
	}
	ErrProfileLoadFailed = &DetailedError{
		IDField:         "PROFILE_LOAD_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to load profile",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrUnknownRole = &DetailedError{
		IDField:         "UNKNOWN_ROLE",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Profile role is not recognised",
		StatusCodeField: http.StatusForbidden,
	}
	ErrBrandNotFound = &DetailedError{
		IDField:         "BRAND_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Brand not found",
		StatusCodeField: http.StatusNotFound,
	}
)

/***************************************
*      Profile entities and types      *
***************************************/
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleBrandAdmin   Role = "brand_admin"
	RoleCreatorAdmin Role = "creator_admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleBrandAdmin, RoleCreatorAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick this role at sign-up.
func (r Role) SelfAssignable() bool {
	return r == RoleBrandAdmin || r == RoleCreatorAdmin
}

// ProfileStatus describes the profile half of a session.
type ProfileStatus string

const (
	ProfileReady      ProfileStatus = "ready"
	ProfileIncomplete ProfileStatus = "profile_incomplete"
)

// Profile shares its ID with the Identity it belongs to.
type Profile struct {
	SQLModel
	Role        Role    `json:"role" gorm:"type:varchar(20);not null;index"`
	FullName    string  `json:"full_name" gorm:"type:varchar(100);not null"`
	CompanyName *string `json:"company_name,omitempty" gorm:"type:varchar(200)"`
}

type ProfileFilter struct {
	ID   *string `json:"id,omitempty"`
	Role *Role   `json:"role,omitempty"`
}

type Brand struct {
	SQLModel
	UserID      string `json:"user_id" gorm:"type:varchar(36);not null;index"`
	BrandName   string `json:"brand_name" gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text"`
}

type BrandFilter struct {
	ID     *string `json:"id,omitempty"`
	UserID *string `json:"user_id,omitempty"`
}

/***************************************
*   Profile usecase interfaces/types   *
***************************************/
type ProfileUsecase interface {
	// Resolve returns the caller's profile or ErrProfileIncomplete.
	Resolve(ctx context.Context, identityID string) (*Profile, error)
	Complete(ctx context.Context, identityID string, req *CompleteProfileRequest) (*Profile, error)
}

type CompleteProfileRequest struct {
	FullName    string `json:"full_name" binding:"required,min=1,max=100"`
	Role        Role   `json:"role" binding:"required,signup_role"`
	CompanyName string `json:"company_name" binding:"omitempty,max=200"`
}
