package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/tasklane/internal/common"
	sc "github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadService(t *testing.T) *UploadService {
	t.Helper()
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "tasklane",
	}
	svc := NewUploadService(cfg)
	svc.now = func() time.Time { return time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC) }
	return svc
}

// stubS3 replaces every S3 seam and restores them when the test ends.
func stubS3(t *testing.T, putErr, presignErr error) *s3.PutObjectInput {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origPut := putObject
	origNewPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		putObject = origPut
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("BaseEndpoint not applied")
		}
		if !opts.UsePathStyle {
			t.Fatalf("path-style addressing expected for MinIO")
		}
		return &s3.Client{}
	}

	captured := &s3.PutObjectInput{}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		*captured = *in
		if putErr != nil {
			return nil, putErr
		}
		_, _ = io.Copy(io.Discard, in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		if po.Expires != 24*time.Hour {
			t.Fatalf("download url should live 24h, got %v", po.Expires)
		}
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/tasklane/" + *in.Key + "?sig"}, nil
	}

	return captured
}

func TestUpload_Success(t *testing.T) {
	svc := newUploadService(t)
	put := stubS3(t, nil, nil)

	res, err := svc.Upload(context.Background(), "Report.PDF", "application/pdf", 5, strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/2025/3/7/[0-9a-f-]{36}\.pdf$`), res.PublicID)
	assert.Equal(t, "pdf", res.Format)
	assert.Contains(t, res.URL, res.PublicID)

	require.NotNil(t, put.Bucket)
	assert.Equal(t, "tasklane", *put.Bucket)
	assert.Equal(t, res.PublicID, *put.Key)
	assert.Equal(t, "application/pdf", *put.ContentType)
	assert.Equal(t, int64(5), *put.ContentLength)
}

func TestUpload_NoFile(t *testing.T) {
	svc := newUploadService(t)

	for _, tc := range []struct {
		name     string
		filename string
		size     int64
		body     io.Reader
	}{
		{"empty name", "", 3, strings.NewReader("abc")},
		{"zero size", "a.txt", 0, strings.NewReader("")},
		{"nil body", "a.txt", 3, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tc.filename, "", tc.size, tc.body)
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, "No file provided", common.PublicMessage(err, ""))
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	svc := newUploadService(t)
	_, err := svc.Upload(context.Background(), "big.bin", "", MaxUploadSize+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUpload_StorageErrors(t *testing.T) {
	for _, tc := range []struct {
		name       string
		putErr     error
		presignErr error
	}{
		{"put fails", errors.New("bucket missing"), nil},
		{"presign fails", nil, errors.New("bad creds")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := newUploadService(t)
			stubS3(t, tc.putErr, tc.presignErr)

			_, err := svc.Upload(context.Background(), "a.png", "image/png", 1, strings.NewReader("x"))
			require.ErrorIs(t, err, common.ErrorInternal)
			assert.Equal(t, "Error in Uploading File", common.PublicMessage(err, ""))
		})
	}
}

func TestUpload_ConfigLoadError(t *testing.T) {
	svc := newUploadService(t)
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := svc.Upload(context.Background(), "a.png", "", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestUploadKey_NoExtension(t *testing.T) {
	key := UploadKey(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "")
	assert.Regexp(t, regexp.MustCompile(`^uploads/2024/12/31/[0-9a-f-]{36}$`), key)
}
