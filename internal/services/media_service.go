package services

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaService stores product images and resolves their URLs.
type MediaService interface {
	UploadProductImage(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error
	ImageURL(objectName string) string
	DeleteProductImage(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioMediaService struct {
	client *minio.Client
	bucket string
}

func NewMinioMediaService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (MediaService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioMediaService{client: client, bucket: bucket}, nil
}

func (m *minioMediaService) UploadProductImage(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// ImageURL returns a presigned GET URL for the object, or an empty string
// when presigning fails so product payloads degrade to image-less.
func (m *minioMediaService) ImageURL(objectName string) string {
	if objectName == "" {
		return ""
	}
	url, err := m.client.PresignedGetObject(context.Background(), m.bucket, objectName, time.Hour, nil)
	if err != nil {
		log.Printf("WARN: presigning image %s failed: %v", objectName, err)
		return ""
	}
	return url.String()
}

func (m *minioMediaService) DeleteProductImage(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioMediaService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
