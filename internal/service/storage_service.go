package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StorageService hands out presigned URLs so clients upload PDFs and payment
// receipts straight to object storage without the files passing through here.
type StorageService interface {
	// InitiateContentUpload returns a presigned PUT URL for a new PDF and
	// the public URL the stored object will have.
	InitiateContentUpload(ctx context.Context) (uploadURL, publicURL string, err error)
	// InitiateReceiptUpload returns a presigned PUT URL for a payment
	// receipt image, keyed under the uploader so receipts stay traceable.
	InitiateReceiptUpload(ctx context.Context, userID, filename string) (uploadURL, publicURL string, err error)
	// PresignDownload signs a short-lived GET URL for a stored object.
	PresignDownload(ctx context.Context, key string) (string, error)
	// PresignDownloadForURL maps a public object URL back to its key and
	// signs it. URLs outside this bucket are returned untouched.
	PresignDownloadForURL(ctx context.Context, publicURL string) (string, error)
}

type storageService struct {
	presignClient *s3.PresignClient
	bucketName    string
	publicBase    string
	logger        zerolog.Logger
}

// NewStorageService creates a new StorageService with a scoped logger.
// publicBase is the endpoint objects are served from, e.g. the S3 URL.
func NewStorageService(s3Client *s3.Client, bucketName, publicBase string, logger zerolog.Logger) StorageService {
	return &storageService{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		publicBase:    strings.TrimRight(publicBase, "/"),
		logger:        logger.With().Str("service", "StorageService").Logger(),
	}
}

// InitiateContentUpload signs an upload slot for a new content PDF.
func (s *storageService) InitiateContentUpload(ctx context.Context) (string, string, error) {
	key := fmt.Sprintf("content/%s.pdf", uuid.NewString())
	uploadURL, err := s.presignPut(ctx, key, "application/pdf")
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to generate presigned PUT URL")
		return "", "", fmt.Errorf("presign content upload: %w", err)
	}
	return uploadURL, s.objectURL(key), nil
}

// InitiateReceiptUpload signs an upload slot for a payment receipt.
func (s *storageService) InitiateReceiptUpload(ctx context.Context, userID, filename string) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg":
	default:
		return "", "", fmt.Errorf("unsupported receipt file type: %q", ext)
	}
	key := fmt.Sprintf("receipts/%s/%s%s", userID, uuid.NewString(), ext)
	uploadURL, err := s.presignPut(ctx, key, "")
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to generate presigned PUT URL")
		return "", "", fmt.Errorf("presign receipt upload: %w", err)
	}
	return uploadURL, s.objectURL(key), nil
}

// PresignDownload signs a short-lived GET URL for the given key.
func (s *storageService) PresignDownload(ctx context.Context, key string) (string, error) {
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to generate presigned GET URL")
		return "", fmt.Errorf("presign download: %w", err)
	}
	return resp.URL, nil
}

// PresignDownloadForURL signs a GET URL for an object previously returned by
// an upload initiation. External URLs pass through unchanged.
func (s *storageService) PresignDownloadForURL(ctx context.Context, publicURL string) (string, error) {
	prefix := s.publicBase + "/" + s.bucketName + "/"
	key, ok := strings.CutPrefix(publicURL, prefix)
	if !ok {
		return publicURL, nil
	}
	return s.PresignDownload(ctx, key)
}

func (s *storageService) presignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	request, err := s.presignClient.PresignPutObject(ctx, input, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return request.URL, nil
}

func (s *storageService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucketName, key)
}
