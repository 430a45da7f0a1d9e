// internal/services/storage_service.go
package services

import (
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/config"
)

// Object key layout inside the portal bucket. GDS uploads carry a
// timestamp so repeated uploads by the same user never collide; XOR
// reports are keyed by application and overwritten on reruns.
const pdkObjectKey = "pdk/pdk_package.zip"

func GDSObjectKey(userID, shuttleID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("gds/%s/%s-%d.gds", userID, shuttleID, at.UnixMilli())
}

func XORReportKey(userID, applicationID uuid.UUID) string {
	return fmt.Sprintf("xor/%s/%s-xor.txt", userID, applicationID)
}

func PDKObjectKey() string {
	return pdkObjectKey
}

// ObjectStorage is the slice of the storage collaborator the portal
// needs. StorageService implements it against S3; tests substitute an
// in-memory fake.
type ObjectStorage interface {
	Upload(key string, body io.ReadSeeker, contentType string) error
	SignedDownloadURL(key string, expiry time.Duration) (string, error)
	SignedUploadURL(key string, expiry time.Duration) (string, error)
}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

func (s *StorageService) Upload(key string, body io.ReadSeeker, contentType string) error {
	if s.s3Client == nil {
		return fmt.Errorf("S3 client not configured")
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *StorageService) SignedDownloadURL(key string, expiry time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, nil
}

// SignedUploadURL issues a short-lived write-capable URL so the browser
// can stream bytes directly and report progress, without the payload
// transiting this server.
func (s *StorageService) SignedUploadURL(key string, expiry time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return url, nil
}

func (s *StorageService) DeleteObject(key string) error {
	if s.s3Client == nil {
		return fmt.Errorf("S3 client not configured")
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	return nil
}
