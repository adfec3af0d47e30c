package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/dafibh/fortuna/networth-backend/internal/config"
	"github.com/dafibh/fortuna/networth-backend/internal/domain"
)

// ObjectGetter is the part of the S3 client the dataset repository uses
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3DatasetRepository reads the dataset document from an S3 object
type S3DatasetRepository struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3DatasetRepository creates a new S3 dataset repository
func NewS3DatasetRepository(ctx context.Context, s3cfg cfg.S3Config) (*S3DatasetRepository, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	// Add credentials if provided
	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Optional endpoint override for MinIO/LocalStack
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return NewS3DatasetRepositoryWithClient(client, s3cfg.Bucket, s3cfg.ObjectKey), nil
}

// NewS3DatasetRepositoryWithClient builds the repository around an existing client
func NewS3DatasetRepositoryWithClient(client ObjectGetter, bucket, key string) *S3DatasetRepository {
	return &S3DatasetRepository{client: client, bucket: bucket, key: key}
}

// Load fetches and decodes the dataset object
func (r *S3DatasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("dataset object %s/%s: %w", r.bucket, r.key, domain.ErrDatasetUnavailable)
		}
		return nil, fmt.Errorf("failed to get dataset object: %w", err)
	}
	defer out.Body.Close()

	return DecodeDataset(out.Body)
}
