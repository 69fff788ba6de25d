package properties

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

// S3API is the subset of the S3 client used by MediaStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaStore uploads listing photos and 360 panoramas to S3 and records the
// public URL on the listing. If bucket is empty, all operations are no-ops.
type MediaStore struct {
	bucket        string
	publicBaseURL string
	s3Client      S3API
	repo          Repository
	logger        *logging.Logger
}

// NewMediaStore creates a MediaStore.
func NewMediaStore(s3Client S3API, bucket, publicBaseURL string, repo Repository, logger *logging.Logger) *MediaStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &MediaStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		s3Client:      s3Client,
		repo:          repo,
		logger:        logger,
	}
}

// Enabled returns true if media storage is configured (bucket is set).
func (m *MediaStore) Enabled() bool {
	return m != nil && m.bucket != "" && m.s3Client != nil
}

// Upload stores one media object under the listing and returns its public
// URL. filename only contributes its extension to the stored key.
func (m *MediaStore) Upload(ctx context.Context, propertyID, filename, contentType string, body io.Reader) (string, error) {
	if !m.Enabled() {
		return "", ErrMediaDisabled
	}

	if _, err := m.repo.GetByID(ctx, propertyID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("properties/%s/%s%s", propertyID, uuid.New().String(), path.Ext(filename))
	if _, err := m.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("properties: s3 put %s: %w", key, err)
	}

	url := m.publicBaseURL + "/" + key
	if err := m.repo.AddMediaURL(ctx, propertyID, url); err != nil {
		return "", fmt.Errorf("properties: record media url: %w", err)
	}

	m.logger.Info("media uploaded",
		"property_id", propertyID,
		"s3_key", key,
		"content_type", contentType,
	)
	return url, nil
}
