package usecase

import (
	"context"
	"net/http"
	"path"
	"strings"

	"campaign-platform/domain"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/upload"

	"github.com/samber/lo"
)

type Uploader interface {
	Upload(ctx context.Context, files []*upload.File, subPath string) ([]*upload.UploadedFileInfo, error)
}

type Config interface {
	MaxFileSizeMB() int
}

type UploadUsecase struct {
	uploader Uploader
	cfg      Config
	logger   log.Logger
}

func NewUploadUsecase(uploader Uploader, cfg Config, logger log.Logger) *UploadUsecase {
	return &UploadUsecase{uploader: uploader, cfg: cfg, logger: logger}
}

var _ domain.UploadUsecase = (*UploadUsecase)(nil)

// sniffedImage trusts the bytes over the declared part header.
func sniffedImage(content []byte) (string, bool) {
	mime := http.DetectContentType(content)
	return mime, strings.HasPrefix(mime, "image/")
}

func (u *UploadUsecase) UploadImages(ctx context.Context, ownerID string, images []*domain.ImageUpload) ([]*domain.UploadedImage, error) {
	if len(images) == 0 {
		return nil, domain.ErrUploadFilesRequired
	}

	maxBytes := int64(u.cfg.MaxFileSizeMB()) << 20
	files := make([]*upload.File, 0, len(images))
	for _, img := range images {
		mime, ok := sniffedImage(img.Content)
		if !ok {
			return nil, domain.ErrUploadInvalidContentType.
				WithDetail("name", img.Name).
				WithDetail("content_type", mime)
		}
		if maxBytes > 0 && int64(len(img.Content)) > maxBytes {
			return nil, domain.ErrBadRequest.
				WithReasonf("file %s exceeds %d MB", img.Name, u.cfg.MaxFileSizeMB()).
				WithDetail("name", img.Name)
		}
		files = append(files, &upload.File{
			Name:    path.Base(img.Name),
			Mime:    mime,
			Content: img.Content,
		})
	}

	infos, err := u.uploader.Upload(ctx, files, path.Join("campaigns", ownerID))
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to upload images", log.UserID(ownerID), log.Int("count", len(files)), log.Error(err))
		return nil, domain.ErrUploadFilesFailed.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "Images uploaded", log.UserID(ownerID), log.Int("count", len(infos)))
	return lo.Map(infos, func(info *upload.UploadedFileInfo, _ int) *domain.UploadedImage {
		return &domain.UploadedImage{
			Name:         info.Name,
			URL:          info.URL,
			ThumbnailURL: info.ThumbnailURL,
			Width:        int(info.Width),
			Height:       int(info.Height),
			Size:         info.Size,
		}
	}), nil
}
