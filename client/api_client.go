// Package client is a Go client for the campaign platform API. It carries the
// session lifecycle (SessionStore) and the latest-wins subcategory loader.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campaign-platform/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 10 * time.Second

type envelope struct {
	Status      int                 `json:"status"`
	Code        string              `json:"code"`
	Data        jsoniter.RawMessage `json:"data"`
	Description string              `json:"description"`
}

// APIClient speaks the /api/v1 JSON envelope. Error responses come back as
// *domain.DetailedError so errors.Is works against the domain sentinels.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: httpClient,
	}
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &domain.DetailedError{
				IDField:         "HTTP_ERROR",
				StatusCodeField: resp.StatusCode,
				StatusDescField: http.StatusText(resp.StatusCode),
				ErrorField:      resp.Status,
			}
		}
		return errors.Wrapf(err, "decode %s %s", method, path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp.StatusCode, &env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(env.Data, out), "decode %s %s data", method, path)
}

func apiError(status int, env *envelope) *domain.DetailedError {
	de := &domain.DetailedError{
		IDField:         env.Code,
		StatusCodeField: status,
		StatusDescField: http.StatusText(status),
		ErrorField:      env.Description,
	}
	var details map[string]interface{}
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &details) == nil {
		if reason, ok := details["reason"].(string); ok {
			de.ReasonField = reason
			delete(details, "reason")
		}
		if len(details) > 0 {
			de.DetailsField = details
		}
	}
	return de
}

func (c *APIClient) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	var out domain.SignUpResponse
	if err := c.do(ctx, http.MethodPost, "/auth/sign-up", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	req := &domain.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	req := &domain.RefreshTokenRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/sign-out", accessToken, nil, nil)
}

// Profile returns domain.ErrProfileIncomplete when the caller has not
// completed a profile yet.
func (c *APIClient) Profile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CompleteProfile(ctx context.Context, accessToken string, req *domain.CompleteProfileRequest) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodPost, "/profile", accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	out := []*domain.Category{}
	if err := c.do(ctx, http.MethodGet, "/categories", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ListSubcategories(ctx context.Context, parentID string) ([]*domain.Category, error) {
	out := []*domain.Category{}
	if err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(parentID)+"/subcategories", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
