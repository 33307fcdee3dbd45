package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware/mwtest"
	"campaign-platform/modules/campaign/delivery/api"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCampaigns struct {
	submit   func(ctx context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error)
	findByID func(ctx context.Context, id string) (*domain.Campaign, error)
}

func (f *fakeCampaigns) Submit(ctx context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
	return f.submit(ctx, req)
}

func (f *fakeCampaigns) FindByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return f.findByID(ctx, id)
}

type response = common.ResponseT[map[string]interface{}]

func newRouter(uc domain.CampaignUsecase) *gin.Engine {
	m := mwtest.New(map[string]domain.Role{
		"brand":   domain.RoleBrandAdmin,
		"creator": domain.RoleCreatorAdmin,
	})
	r := gin.New()
	api.NewCampaignHandler(uc, m).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path, identity string, header map[string]string) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(method, path, nil)
	if identity != "" {
		req.Header.Set("Authorization", "Bearer "+mwtest.Token(identity))
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response
	_ = jsoniter.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestSubmit_IdempotencyKeyHeader(t *testing.T) {
	var got []*domain.SubmitDraftRequest
	uc := &fakeCampaigns{submit: func(_ context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
		got = append(got, req)
		return &domain.SubmitResult{Campaign: &domain.Campaign{SQLModel: domain.SQLModel{ID: "c1"}}}, nil
	}}
	r := newRouter(uc)

	tests := []struct {
		name     string
		key      string
		wantCode int
		wantID   string
	}{
		{name: "missing", key: "", wantCode: http.StatusBadRequest, wantID: domain.ErrIdempotencyKeyRequired.ID()},
		{name: "blank", key: "   ", wantCode: http.StatusBadRequest, wantID: domain.ErrIdempotencyKeyRequired.ID()},
		{name: "too long", key: strings.Repeat("k", 129), wantCode: http.StatusBadRequest, wantID: "BAD_REQUEST"},
		{name: "longest accepted", key: strings.Repeat("k", 128), wantCode: http.StatusCreated, wantID: "SUCCESS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := do(r, http.MethodPost, "/api/v1/drafts/d1/submit", "brand", map[string]string{api.HeaderIdempotencyKey: tt.key})
			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantID, res.Code)
		})
	}

	require.Len(t, got, 1)
	require.Equal(t, &domain.SubmitDraftRequest{OwnerID: "brand", DraftID: "d1", IdempotencyKey: strings.Repeat("k", 128)}, got[0])
}

func TestSubmit_ReplayAnswersOK(t *testing.T) {
	uc := &fakeCampaigns{submit: func(_ context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
		return &domain.SubmitResult{Campaign: &domain.Campaign{SQLModel: domain.SQLModel{ID: "c1"}}, Replayed: true}, nil
	}}
	r := newRouter(uc)

	w, res := do(r, http.MethodPost, "/api/v1/drafts/d1/submit", "brand", map[string]string{api.HeaderIdempotencyKey: " key-1 "})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "SUCCESS", res.Code)
	require.Equal(t, true, res.Data["replayed"])
}

func TestSubmit_OnlyBrandAdmins(t *testing.T) {
	called := false
	uc := &fakeCampaigns{submit: func(context.Context, *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
		called = true
		return &domain.SubmitResult{}, nil
	}}
	r := newRouter(uc)

	w, res := do(r, http.MethodPost, "/api/v1/drafts/d1/submit", "creator", map[string]string{api.HeaderIdempotencyKey: "key-1"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "FORBIDDEN", res.Code)

	w, _ = do(r, http.MethodPost, "/api/v1/drafts/d1/submit", "", map[string]string{api.HeaderIdempotencyKey: "key-1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, called)
}

func TestSubmit_ValidationErrorIsPassedThrough(t *testing.T) {
	uc := &fakeCampaigns{submit: func(context.Context, *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
		return nil, domain.ErrDraftValidation.WithDetail("fields", map[string]string{"product.subcategoryId": "must belong to the selected category"})
	}}
	r := newRouter(uc)

	w, res := do(r, http.MethodPost, "/api/v1/drafts/d1/submit", "brand", map[string]string{api.HeaderIdempotencyKey: "key-1"})
	require.Equal(t, domain.ErrDraftValidation.StatusCode(), w.Code)
	require.Equal(t, domain.ErrDraftValidation.ID(), res.Code)
}

func TestGetCampaign(t *testing.T) {
	uc := &fakeCampaigns{findByID: func(_ context.Context, id string) (*domain.Campaign, error) {
		if id != "c1" {
			return nil, domain.ErrCampaignNotFound.WithDetail("campaign_id", id)
		}
		return &domain.Campaign{SQLModel: domain.SQLModel{ID: "c1"}, Status: domain.CampaignStatusActive}, nil
	}}
	r := newRouter(uc)

	w, res := do(r, http.MethodGet, "/api/v1/campaigns/c1", "creator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "c1", res.Data["id"])

	w, res = do(r, http.MethodGet, "/api/v1/campaigns/missing", "brand", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, domain.ErrCampaignNotFound.ID(), res.Code)
}
