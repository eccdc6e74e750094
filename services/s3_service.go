package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore is the object-store collaborator for post and profile images.
type ImageStore interface {
	UploadImage(ctx context.Context, dataURI string) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

// S3Service stores images in S3. Clients send images as base64 data URIs;
// uploads return the public object URL persisted on the record.
type S3Service struct {
	Client *s3.Client
	Bucket string
	Region string
}

// UploadImage decodes a base64 data URI and writes it under a fresh key.
func (s *S3Service) UploadImage(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := "images/" + uuid.New().String() + extensionFor(contentType)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}

// DeleteImage removes a previously uploaded object by its public URL.
func (s *S3Service) DeleteImage(ctx context.Context, url string) error {
	idx := strings.Index(url, ".amazonaws.com/")
	if idx < 0 {
		return fmt.Errorf("not an S3 object URL: %s", url)
	}
	key := url[idx+len(".amazonaws.com/"):]

	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %q: %w", key, err)
	}
	return nil
}

func decodeDataURI(dataURI string) (string, []byte, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("image is not a data URI")
	}
	header, payload, found := strings.Cut(dataURI[len("data:"):], ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("image data URI is not base64 encoded")
	}
	contentType := strings.TrimSuffix(header, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
