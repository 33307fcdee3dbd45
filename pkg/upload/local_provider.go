package upload

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"campaign-platform/common"

	"github.com/disintegration/imaging"
)

type LocalUploader struct {
	dir         string
	baseURL     string
	maxParallel int
}

func NewLocalUploader(cfg *Config) (*LocalUploader, error) {
	if cfg.LocalDir == "" {
		return nil, errors.New("local upload dir is required")
	}
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalUploader{dir: cfg.LocalDir, baseURL: baseURL, maxParallel: cfg.MaxParallel}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, files []*File, subPath string) ([]*UploadedFileInfo, error) {
	return uploadAll(ctx, files, u.maxParallel, u.Remove, func(ctx context.Context, file *File) (*UploadedFileInfo, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, hash := newFileInfo(file, Local)
		name := objectName(file.Name, hash)
		info.StoragePath = filepath.Join(u.dir, subPath, name)
		if err := os.MkdirAll(filepath.Dir(info.StoragePath), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(info.StoragePath, file.Content, 0o644); err != nil {
			return nil, err
		}
		var err error
		if info.URL, err = common.PublicURL(u.baseURL, subPath, name); err != nil {
			return nil, err
		}

		if !file.IsImage() {
			return info, nil
		}
		width, height, thumb, err := DecodeImgAndGenThumbnail(file.Content, ThumbnailMaxWidthPx, ThumbnailMaxHeightPx)
		if err != nil {
			// Undecodable images are stored without a thumbnail.
			return info, nil
		}
		tName := thumbnailName(file.Name, hash)
		info.Width, info.Height = width, height
		info.ThumbnailStoragePath = filepath.Join(u.dir, subPath, tName)
		if err := imaging.Save(thumb, info.ThumbnailStoragePath); err != nil {
			return nil, err
		}
		if info.ThumbnailURL, err = common.PublicURL(u.baseURL, subPath, tName); err != nil {
			return nil, err
		}
		return info, nil
	})
}

func (u *LocalUploader) Remove(_ context.Context, fileInfos []*UploadedFileInfo) error {
	var errs []error
	for _, info := range fileInfos {
		for _, p := range []string{info.StoragePath, info.ThumbnailStoragePath} {
			if p == "" {
				continue
			}
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
