package manifest

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vango-dev/fantoccini/internal/errors"
)

// S3API is the part of *s3.Client the store uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the manifest as a single object in S3.
type S3Store struct {
	client S3API
	bucket string
	key    string
}

// NewS3Store creates a store for bucket/key.
//
// Example usage:
//
//	client := manifest.NewS3Client(manifest.S3Config{Region: "us-east-1"})
//	store := manifest.NewS3Store(client, "my-bucket", "fantoccini/routes.json")
func NewS3Store(client S3API, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key}
}

// Load fetches and decodes the manifest object.
func (s *S3Store) Load(ctx context.Context) (*Manifest, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return nil, errors.New("E131").WithDetail("s3://%s/%s", s.bucket, s.key)
		}
		return nil, errors.New("E130").WithDetail("s3 get %s/%s", s.bucket, s.key).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E130").WithDetail("s3 read %s/%s", s.bucket, s.key).Wrap(err)
	}
	return Decode(data)
}

// Save uploads the encoded manifest.
func (s *S3Store) Save(ctx context.Context, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"manifest-version": strconv.Itoa(m.Version),
			"generated":        m.Generated.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New("E130").WithDetail("s3 put %s/%s", s.bucket, s.key).Wrap(err)
	}
	return nil
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region string

	// Endpoint overrides the service endpoint, for S3-compatible stores.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// NewS3Client creates an S3 client whose credentials come from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("E130").WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}
