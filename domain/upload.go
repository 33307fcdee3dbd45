package domain

import (
	"context"
	"net/http"
)

/****************************
*        Upload errors      *
****************************/
var (
	ErrUploadFilesFailed = &DetailedError{
		IDField:         "UPLOAD_FILES_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to upload files",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrUploadInvalidContentType = &DetailedError{
		IDField:         "UPLOAD_INVALID_CONTENT_TYPE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Only image uploads are accepted",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrUploadFilesRequired = &DetailedError{
		IDField:         "UPLOAD_FILES_REQUIRED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "No files provided for upload",
		StatusCodeField: http.StatusBadRequest,
	}
)

// UploadedImage is what the upload endpoint returns per file, in request order.
type UploadedImage struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
}

type ImageUpload struct {
	Name    string
	Mime    string
	Content []byte
}

type UploadUsecase interface {
	UploadImages(ctx context.Context, ownerID string, files []*ImageUpload) ([]*UploadedImage, error)
}
