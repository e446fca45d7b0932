package blob

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"riderDeliveryPortal/internal/apperr"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures NewS3Store.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, e.g. LocalStack
	PublicBaseURL string // optional; otherwise the upload location is returned
}

// S3Store keeps assets in an S3 bucket.
type S3Store struct {
	bucket        string
	publicBaseURL string
	up            uploader
	del           objectDeleter
}

// NewS3Store loads the default AWS credential chain and builds a store for cfg.Bucket.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*awscfg.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awscfg.WithRegion(cfg.Region))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(cfg, manager.NewUploader(client), client), nil
}

func newS3Store(cfg S3Config, up uploader, del objectDeleter) *S3Store {
	return &S3Store{bucket: cfg.Bucket, publicBaseURL: cfg.PublicBaseURL, up: up, del: del}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	result, err := s.up.Upload(ctx, in)
	if err != nil {
		return "", apperr.New(apperr.TransientIO, "blob.s3.put", "upload failed", err)
	}
	if s.publicBaseURL != "" {
		return joinURL(s.publicBaseURL, key), nil
	}
	return result.Location, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.del.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.New(apperr.TransientIO, "blob.s3.delete", "delete failed", err)
	}
	return nil
}
