package common

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"campaign-platform/domain"
	"campaign-platform/validator"

	"github.com/gin-gonic/gin"
)

type ResponseT[T any] struct {
	Status      int    `json:"status"`
	Code        string `json:"code"`
	Data        T      `json:"data"`
	Description string `json:"description"`
}

var logger Logger

// SetLogger sets the logger used for error responses.
func SetLogger(l Logger) {
	logger = l
}

func Response[T any](c *gin.Context, status int, code string, data T, desc string) {
	c.AbortWithStatusJSON(status, ResponseT[T]{
		Status:      status,
		Code:        code,
		Data:        data,
		Description: desc,
	})
}

func ResponseOK[T any](c *gin.Context, data T, desc string) {
	Response(c, http.StatusOK, "SUCCESS", data, desc)
}

func ResponseCreated[T any](c *gin.Context, data T, desc string) {
	Response(c, http.StatusCreated, "SUCCESS", data, desc)
}

func ResponseNoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// ResponseBindError reports a ShouldBind* failure with per-field messages.
func ResponseBindError(c *gin.Context, err error) {
	ResponseBindErrorAs(c, &domain.ErrBadRequest, err)
}

// ResponseBindErrorAs is ResponseBindError reported under a module error.
func ResponseBindErrorAs(c *gin.Context, base *domain.DetailedError, err error) {
	ResponseError(c, base.
		WithDetail("fields", validator.DefaultValidator().Translate(err)).
		WithWrap(err))
}

// ResponseError writes err as the JSON envelope. Anything that is not a
// DetailedError becomes a 500. Every error response is logged here, once.
func ResponseError(c *gin.Context, err error) {
	dErr, ok := IsDetailError(err)
	if !ok {
		dErr = domain.ErrInternalServerError.WithWrap(err)
	}
	if dErr.RequestID() == "" {
		dErr = dErr.WithRequestID(GetRequestID(c))
	}

	data := dErr.DetailsField
	if dErr.ReasonField != "" {
		data = make(map[string]interface{}, len(dErr.DetailsField)+1)
		for k, v := range dErr.DetailsField {
			data[k] = v
		}
		data["reason"] = dErr.ReasonField
	}

	if logger != nil {
		kv := []interface{}{
			"status", dErr.StatusCode(),
			"code", dErr.IDField,
			"description", dErr.ErrorField,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", dErr.RequestID(),
		}
		if cause := errors.Unwrap(dErr); cause != nil {
			kv = append(kv, "error", cause)
		}
		if dErr.StatusCode() >= http.StatusInternalServerError {
			logger.Error("API Error", kv...)
		} else {
			logger.Warn("API Error", kv...)
		}
	}

	Response(c, dErr.StatusCode(), dErr.IDField, data, dErr.ErrorField)
}

func ResponseTooManyRequests(c *gin.Context, desc string, retryAt time.Time) {
	retryAfterSeconds := int64(0)
	retryAtISO := ""

	if !retryAt.IsZero() {
		retryAfterSeconds = int64(time.Until(retryAt).Seconds())
		if retryAfterSeconds > 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds))
		}
		retryAtISO = retryAt.Format(time.RFC3339)
	}

	Response(c, http.StatusTooManyRequests, domain.ErrTooManyRequests.IDField, map[string]interface{}{
		"retry_at":            retryAtISO,
		"retry_after_seconds": retryAfterSeconds,
	}, desc)
}
