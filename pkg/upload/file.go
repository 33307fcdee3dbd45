package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/nfnt/resize"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const HashLength = 32

type File struct {
	Name    string `json:"name"`
	Mime    string `json:"mime"`
	Content []byte `json:"-"`
}

func (file *File) IsImage() bool {
	return strings.HasPrefix(file.Mime, "image/")
}

type UploadedFileInfo struct {
	Name                 string   `json:"name"`
	Mime                 string   `json:"mime"`
	Ext                  string   `json:"ext"`
	URL                  string   `json:"url"`
	ThumbnailURL         string   `json:"thumbnail_url,omitempty"`
	Width                int64    `json:"width,omitempty"`
	Height               int64    `json:"height,omitempty"`
	Size                 int64    `json:"size"`
	StoragePath          string   `json:"-"`
	ThumbnailStoragePath string   `json:"-"`
	Provider             Provider `json:"provider"`
}

func newFileInfo(file *File, provider Provider) (*UploadedFileInfo, string) {
	return &UploadedFileInfo{
		Name:     file.Name,
		Mime:     file.Mime,
		Ext:      path.Ext(file.Name),
		Size:     int64(len(file.Content)),
		Provider: provider,
	}, lo.RandomString(HashLength, lo.AlphanumericCharset)
}

func objectName(filename, hash string) string {
	return hash + "_" + strings.ReplaceAll(filename, " ", "-")
}

func thumbnailName(filename, hash string) string {
	return "thumb_" + objectName(filename, hash)
}

func ParseFileHeaders(fileHeaders []*multipart.FileHeader) ([]*File, error) {
	files := make([]*File, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, &File{
			Name:    fileHeader.Filename,
			Mime:    fileHeader.Header.Get("Content-Type"),
			Content: content,
		})
	}
	return files, nil
}

// DecodeImgAndGenThumbnail returns the source dimensions and a thumbnail that
// fits inside maxWidth x maxHeight, keeping the aspect ratio.
func DecodeImgAndGenThumbnail(content []byte, maxWidth, maxHeight uint) (width, height int64, thumbnail image.Image, err error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return 0, 0, nil, err
	}
	thumbnail = resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
	return int64(img.Bounds().Dx()), int64(img.Bounds().Dy()), thumbnail, nil
}

// uploadAll runs fn for every file with at most limit in flight. Results keep
// the input order. The first error cancels the remaining work.
// uploadAll stores files with at most limit writes in flight. When any file
// fails, the ones already stored are removed before the error is returned.
func uploadAll(
	ctx context.Context,
	files []*File,
	limit int,
	remove func(ctx context.Context, infos []*UploadedFileInfo) error,
	fn func(ctx context.Context, file *File) (*UploadedFileInfo, error),
) ([]*UploadedFileInfo, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	out := make([]*UploadedFileInfo, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			info, err := fn(gctx, file)
			if err != nil {
				return err
			}
			mu.Lock()
			out[i] = info
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stored := lo.Compact(out)
		if len(stored) > 0 {
			if rmErr := remove(context.WithoutCancel(ctx), stored); rmErr != nil {
				return nil, errors.Join(err, rmErr)
			}
		}
		return nil, err
	}
	return out, nil
}
