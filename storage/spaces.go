package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/models"
)

// ObjectPutter is the part of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SpacesClient archives outcomes as JSON objects in an S3-compatible bucket
// such as DigitalOcean Spaces or MinIO.
type SpacesClient struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewSpacesClient(ctx context.Context, cfg config.ArchiveConfig) (*SpacesClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewSpacesClientWithAPI(client, cfg.Bucket, cfg.Prefix), nil
}

func NewSpacesClientWithAPI(client ObjectPutter, bucket, prefix string) *SpacesClient {
	return &SpacesClient{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *SpacesClient) Name() string { return "spaces" }

// Record writes outcome under <prefix>/<yyyy>/<mm>/<dd>/<outcome id>.json.
func (s *SpacesClient) Record(ctx context.Context, outcome *models.Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return errors.Wrap(err, "failed to marshal outcome")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(outcome)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save outcome %s to bucket %s", outcome.ID, s.bucket)
	}

	return nil
}

func (s *SpacesClient) Key(outcome *models.Outcome) string {
	return path.Join(s.prefix, outcome.CreatedAt.UTC().Format("2006/01/02"), outcome.ID+".json")
}
