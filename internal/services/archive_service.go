package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type ArchiveConfig struct {
	Bucket    string
	Endpoint  string // empty for AWS, https://<account>.r2.cloudflarestorage.com for R2
	Region    string
	AccessKey string
	SecretKey string
}

// ArchiveService keeps the original resume uploads in an S3 compatible bucket.
type ArchiveService struct {
	client *s3.Client
	bucket string
}

func NewArchiveService(ctx context.Context, cfg ArchiveConfig) (*ArchiveService, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchiveServiceWithClient(client, cfg.Bucket), nil
}

func NewArchiveServiceWithClient(client *s3.Client, bucket string) *ArchiveService {
	return &ArchiveService{client: client, bucket: bucket}
}

func (s *ArchiveService) Archive(ctx context.Context, jobID uint, filename string, data []byte) (string, error) {
	key := ObjectKey(jobID, filename)

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey is resumes/<jobID>/<uuid><ext>; the client file name is never
// used as a path component.
func ObjectKey(jobID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("resumes/%d/%s%s", jobID, uuid.NewString(), ext)
}
