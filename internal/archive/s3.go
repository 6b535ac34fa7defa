package archive

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cobot-go/internal/config"
)

// S3Archiver stores history files in an S3 bucket under an optional key
// prefix.
type S3Archiver struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

var _ Archiver = (*S3Archiver)(nil)

// NewS3Archiver creates an S3-backed archiver. Credentials come from the
// default AWS chain unless static keys are configured.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 archive requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Archiver{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// Put uploads the file to s3://<bucket>/<prefix>/<name>. The upload
// manager streams the body, so size is not needed here.
func (a *S3Archiver) Put(ctx context.Context, name string, r io.Reader, _ int64) error {
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(path.Join(a.prefix, name)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3: %w", name, err)
	}
	return nil
}

// ValidateSetup verifies the bucket exists and is reachable with the
// configured credentials.
func (a *S3Archiver) ValidateSetup(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", a.bucket, err)
	}
	return nil
}
