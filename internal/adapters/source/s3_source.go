package source

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// S3API is the part of the S3 client the source needs
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads documents stored as objects in S3. Each location is
// "bucket" or "bucket/prefix".
type S3Source struct {
	client    S3API
	locations []string
	fileType  string
	logger    *zap.Logger
}

// NewS3Source creates a new S3 source
func NewS3Source(client S3API, locations []string, fileType string, logger *zap.Logger) *S3Source {
	return &S3Source{
		client:    client,
		locations: locations,
		fileType:  fileType,
		logger:    logger,
	}
}

// Documents yields every matching object, one page of listings at a time.
// Each object body is closed before its document is yielded.
func (s *S3Source) Documents(ctx context.Context) iter.Seq2[*core.RawDocument, error] {
	return func(yield func(*core.RawDocument, error) bool) {
		for _, location := range s.locations {
			bucket, prefix, _ := strings.Cut(location, "/")
			paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
				Bucket: aws.String(bucket),
				Prefix: aws.String(prefix),
			})

			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					s.logger.Error("Failed to list objects",
						zap.String("bucket", bucket),
						zap.String("prefix", prefix),
						zap.Error(err))
					yield(nil, fmt.Errorf("failed to list s3://%s/%s: %w", bucket, prefix, err))
					return
				}

				for _, obj := range page.Contents {
					key := aws.ToString(obj.Key)
					if !matchesFileType(key, s.fileType) {
						continue
					}
					doc, err := s.read(ctx, bucket, key)
					if err != nil {
						yield(nil, err)
						return
					}
					if !yield(doc, nil) {
						return
					}
				}
			}
		}
	}
}

func (s *S3Source) read(ctx context.Context, bucket, key string) (*core.RawDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	s.logger.Debug("Fetched corpus object", zap.String("bucket", bucket), zap.String("key", key))
	return readDocument(documentID(key), out.Body)
}
