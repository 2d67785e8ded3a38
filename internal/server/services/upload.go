package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	sc "github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxUploadSize bounds an uploaded file.
const MaxUploadSize = 10 << 20

const downloadURLValidity = 24 * time.Hour

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// UploadResult describes a stored file.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
}

// UploadService stores files in S3-compatible object storage.
type UploadService struct {
	config *sc.Config
	now    func() time.Time
}

func NewUploadService(config *sc.Config) *UploadService {
	return &UploadService{config: config, now: time.Now}
}

// UploadKey returns the object key for a file with extension ext uploaded at t.
func UploadKey(t time.Time, ext string) string {
	return fmt.Sprintf("uploads/%d/%d/%d/%v%s", t.Year(), t.Month(), t.Day(), uuid.New(), ext)
}

func (s *UploadService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores body under a fresh key and returns a download URL valid
// for 24 hours.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*UploadResult, error) {
	if filename == "" || size <= 0 || body == nil {
		return nil, common.Detail(common.ErrorValidation, "No file provided")
	}
	if size > MaxUploadSize {
		return nil, common.Detail(common.ErrorValidation, "File too large")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := UploadKey(s.now(), ext)
	bucket := s.config.S3Bucket

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, uploadError(err)
	}

	in := &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := putObject(client, ctx, in); err != nil {
		return nil, uploadError(err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(downloadURLValidity))
	if err != nil {
		return nil, uploadError(err)
	}

	return &UploadResult{URL: req.URL, PublicID: key, Format: strings.TrimPrefix(ext, ".")}, nil
}

func uploadError(err error) error {
	return fmt.Errorf("%w: %v", common.Detail(common.ErrorInternal, "Error in Uploading File"), err)
}
