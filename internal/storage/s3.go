package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"quire/internal/config"
	"quire/internal/quire"
)

// Static credentials are read from these variables when both are set;
// otherwise the default AWS credential chain applies.
const (
	envAccessKeyID     = "QUIRE_S3_ACCESS_KEY_ID"
	envSecretAccessKey = "QUIRE_S3_SECRET_ACCESS_KEY"
)

// s3Client is the subset of *s3.Client used by S3Store.
type s3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps objects in an S3 (or S3-compatible) bucket under an
// optional key prefix.
type S3Store struct {
	name     string
	bucket   string
	prefix   string
	region   string
	endpoint string
	baseURL  string
	client   s3Client
	uploader *manager.Uploader
}

// NewS3Store builds a store from cfg, loading AWS configuration from the
// environment.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if id, secret := os.Getenv(envAccessKeyID), os.Getenv(envSecretAccessKey); id != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(id, secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	s := newS3Store(cfg, client)
	if s.region == "" {
		s.region = awsCfg.Region
	}
	return s, nil
}

func newS3Store(cfg config.StorageConfig, client s3Client) *S3Store {
	return &S3Store{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		region:   cfg.S3Region,
		endpoint: cfg.S3Endpoint,
		baseURL:  cfg.PublicBaseURL,
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	counter := &countingReader{r: r}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   counter,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	if counter.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string, w io.Writer) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("%s: %w", key, quire.ErrObjectNotFound)
		}
		return fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	return nil
}

// URL prefers the configured public base URL, then the custom endpoint in
// path style, then the regional virtual-hosted AWS address.
func (s *S3Store) URL(key string) string {
	full := s.objectKey(key)
	switch {
	case s.baseURL != "":
		return joinURL(s.baseURL, full)
	case s.endpoint != "":
		return joinURL(joinURL(s.endpoint, s.bucket), full)
	case s.region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, full)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, full)
	}
}

func (s *S3Store) ValidateSetup(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ quire.ObjectStore = (*S3Store)(nil)
