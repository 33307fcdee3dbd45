package api

import (
	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/middleware"
	"campaign-platform/pkg/upload"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const formFieldFiles = "files"

type UploadHandler struct {
	usecase     domain.UploadUsecase
	middlewares middleware.Middlewares
}

func NewUploadHandler(usecase domain.UploadUsecase, middlewares middleware.Middlewares) *UploadHandler {
	return &UploadHandler{usecase: usecase, middlewares: middlewares}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads",
		h.middlewares.Authenticator(),
		h.middlewares.RequireAnyRoles(domain.RoleBrandAdmin),
		h.UploadImages,
	)
}

// UploadImages accepts a multipart form with one or more "files" parts and
// answers with the stored URLs in the same order.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.ResponseBindErrorAs(c, domain.ErrUploadFilesRequired, err)
		return
	}
	headers := form.File[formFieldFiles]
	if len(headers) == 0 {
		common.ResponseError(c, domain.ErrUploadFilesRequired)
		return
	}

	files, err := upload.ParseFileHeaders(headers)
	if err != nil {
		common.ResponseError(c, domain.ErrBadRequest.WithWrap(err).WithReason("unreadable file part"))
		return
	}

	images, err := h.usecase.UploadImages(c.Request.Context(), common.GetIdentityID(c), lo.Map(files, func(f *upload.File, _ int) *domain.ImageUpload {
		return &domain.ImageUpload{Name: f.Name, Mime: f.Mime, Content: f.Content}
	}))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, images, "Files uploaded")
}
