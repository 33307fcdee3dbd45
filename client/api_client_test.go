package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *APIClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterValidatorWithGin()
	r := gin.New()
	v1 := r.Group("/api/v1")

	v1.POST("/auth/sign-in", func(c *gin.Context) {
		var req domain.SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ResponseBindErrorAs(c, domain.ErrInvalidCredentials, err)
			return
		}
		if req.Password != "secret" {
			common.ResponseError(c, domain.ErrInvalidCredentials)
			return
		}
		common.ResponseOK(c, authFor("u1"), "Sign-in successful")
	})
	v1.POST("/auth/sign-out", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer access-u1" {
			common.ResponseError(c, domain.ErrInvalidToken)
			return
		}
		common.ResponseNoContent(c)
	})
	v1.GET("/profile", func(c *gin.Context) {
		common.ResponseError(c, domain.ErrProfileIncomplete)
	})
	v1.POST("/profile", func(c *gin.Context) {
		var req domain.CompleteProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ResponseBindError(c, err)
			return
		}
		common.ResponseCreated(c, &domain.Profile{SQLModel: domain.SQLModel{ID: "u1"}, FullName: req.FullName, Role: req.Role}, "Profile completed")
	})
	v1.GET("/categories/:id/subcategories", func(c *gin.Context) {
		if c.Param("id") == "empty" {
			common.ResponseOK(c, []*domain.Category{}, "")
			return
		}
		parent := c.Param("id")
		common.ResponseOK(c, []*domain.Category{{SQLModel: domain.SQLModel{ID: "sub-1"}, ParentID: &parent, Name: "Skincare"}}, "")
	})
	v1.GET("/categories", func(c *gin.Context) {
		common.ResponseError(c, domain.ErrCategoryFetchFailed.WithReason("db unavailable"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, srv.Client())
}

func TestAPIClient_SignIn(t *testing.T) {
	api := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	resp, err := api.SignIn(ctx, "u1@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", resp.Identity.ID)
	require.Equal(t, "refresh-u1", resp.RefreshToken)

	_, err = api.SignIn(ctx, "u1@example.com", "nope")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))

	require.NoError(t, api.SignOut(ctx, "access-u1"))
	require.ErrorIs(t, api.SignOut(ctx, "other"), domain.ErrInvalidToken)
}

func TestAPIClient_ErrorsMapToDomain(t *testing.T) {
	api := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, err := api.Profile(ctx, "access-u1")
	require.ErrorIs(t, err, domain.ErrProfileIncomplete)

	_, err = api.ListCategories(ctx)
	require.ErrorIs(t, err, domain.ErrCategoryFetchFailed)
	de, ok := domain.AsDetailedError(err)
	require.True(t, ok)
	require.Equal(t, "db unavailable", de.Reason())
	require.Equal(t, http.StatusInternalServerError, de.StatusCode())
}

func TestAPIClient_CompleteProfile(t *testing.T) {
	api := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	profile, err := api.CompleteProfile(ctx, "access-u1", &domain.CompleteProfileRequest{FullName: "Kim", Role: domain.RoleCreatorAdmin})
	require.NoError(t, err)
	require.Equal(t, "Kim", profile.FullName)
	require.Equal(t, domain.RoleCreatorAdmin, profile.Role)

	_, err = api.CompleteProfile(ctx, "access-u1", &domain.CompleteProfileRequest{FullName: "Root", Role: domain.RoleSuperAdmin})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	de, ok := domain.AsDetailedError(err)
	require.True(t, ok)
	require.Contains(t, de.Details(), "fields")
}

func TestAPIClient_Subcategories(t *testing.T) {
	api := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	items, err := api.ListSubcategories(ctx, "beauty")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "beauty", *items[0].ParentID)

	items, err = api.ListSubcategories(ctx, "empty")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}
