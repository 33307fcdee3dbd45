package upload

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyEndpoints "github.com/aws/smithy-go/endpoints"
	"github.com/disintegration/imaging"
)

type S3Uploader struct {
	client      *s3.Client
	uploader    *manager.Uploader
	bucketName  string
	pathPrefix  string
	maxParallel int
}

type endpointResolver struct{}

func (*endpointResolver) ResolveEndpoint(ctx context.Context, params s3.EndpointParameters) (smithyEndpoints.Endpoint, error) {
	return s3.NewDefaultEndpointResolverV2().ResolveEndpoint(ctx, params)
}

func NewS3Uploader(cfg *Config) (*S3Uploader, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	awsCfg, err := config.LoadDefaultConfig(context.Background(), config.WithCredentialsProvider(creds))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.S3EndpointURL)
			o.UsePathStyle = true
		}
		o.Region = cfg.S3Region
		o.EndpointResolverV2 = &endpointResolver{}
	})

	return &S3Uploader{
		client:      client,
		uploader:    manager.NewUploader(client),
		bucketName:  cfg.S3BucketName,
		pathPrefix:  cfg.S3PathPrefix,
		maxParallel: cfg.MaxParallel,
	}, nil
}

func (u *S3Uploader) put(ctx context.Context, content []byte, key, contentType string) (string, error) {
	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(content),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", err
	}
	return out.Location, nil
}

func (u *S3Uploader) Upload(ctx context.Context, files []*File, subPath string) ([]*UploadedFileInfo, error) {
	return uploadAll(ctx, files, u.maxParallel, u.Remove, func(ctx context.Context, file *File) (*UploadedFileInfo, error) {
		info, hash := newFileInfo(file, S3)
		info.StoragePath = path.Join(u.pathPrefix, subPath, objectName(file.Name, hash))

		location, err := u.put(ctx, file.Content, info.StoragePath, file.Mime)
		if err != nil {
			return nil, err
		}
		info.URL = location

		if !file.IsImage() {
			return info, nil
		}
		width, height, thumb, err := DecodeImgAndGenThumbnail(file.Content, ThumbnailMaxWidthPx, ThumbnailMaxHeightPx)
		if err != nil {
			return info, nil
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
			return nil, err
		}
		info.Width, info.Height = width, height
		info.ThumbnailStoragePath = path.Join(u.pathPrefix, subPath, thumbnailName(file.Name, hash)+".png")
		thumbLocation, err := u.put(ctx, buf.Bytes(), info.ThumbnailStoragePath, "image/png")
		if err != nil {
			return nil, err
		}
		info.ThumbnailURL = thumbLocation
		return info, nil
	})
}

func (u *S3Uploader) Remove(ctx context.Context, fileInfos []*UploadedFileInfo) error {
	if len(fileInfos) == 0 {
		return nil
	}
	var objects []types.ObjectIdentifier
	for _, info := range fileInfos {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(info.StoragePath)})
		if info.ThumbnailStoragePath != "" {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(info.ThumbnailStoragePath)})
		}
	}
	_, err := u.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(u.bucketName),
		Delete: &types.Delete{Objects: objects},
	})
	return err
}
