package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/corpus-merge/internal/importer"
)

// S3API is the subset of the S3 client used to read a corpus
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the settings for reading a corpus from S3
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible stores
}

var _ importer.Source = (*S3Source)(nil)

// S3Source reads *.json case-law documents under a bucket prefix. Keys are
// object keys with the prefix removed.
type S3Source struct {
	client S3API
	bucket string
	prefix string
	Filter Filter
}

// NewS3Source creates an S3 source. Explicit credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func NewS3Source(ctx context.Context, cfg S3Config, filter Filter) (*S3Source, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SourceWithClient(client, cfg.Bucket, cfg.Prefix, filter), nil
}

// NewS3SourceWithClient creates an S3 source over an existing client
func NewS3SourceWithClient(client S3API, bucket, prefix string, filter Filter) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix, Filter: filter}
}

// Walk lists the prefix page by page and visits every matching document in
// key order. Listing failures stop the walk; per-object failures do not.
func (s *S3Source) Walk(ctx context.Context, fn importer.VisitFunc) error {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			objKey := aws.ToString(obj.Key)
			if !strings.HasSuffix(strings.ToLower(objKey), ".json") {
				continue
			}
			if err := s.visit(ctx, objKey, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *S3Source) visit(ctx context.Context, objKey string, fn importer.VisitFunc) error {
	key := strings.TrimPrefix(strings.TrimPrefix(objKey, s.prefix), "/")

	data, err := s.download(ctx, objKey)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fn(key, nil, &DocumentError{Key: key, Message: "failed to download", Cause: err})
	}
	doc, err := ParseCaseLaw(key, data)
	if err != nil {
		return fn(key, nil, err)
	}
	if !s.Filter.Match(doc) {
		return nil
	}
	return fn(key, doc, nil)
}

func (s *S3Source) download(ctx context.Context, objKey string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
