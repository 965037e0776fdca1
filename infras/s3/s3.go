package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	otelAttrSize      = "size"
)

type S3 interface {
	Enabled() bool
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

// Enabled reports whether a bucket is configured. Uploads are skipped without one.
func (svc *s3Impl) Enabled() bool {
	return svc.cfg.External.S3.BucketName != constant.Empty
}

// publicURL joins the public domain and the object key, tolerating a trailing slash on the domain.
func publicURL(domain, objectKey string) string {
	return strings.TrimRight(domain, "/") + "/" + objectKey
}

func (svc *s3Impl) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == constant.Empty {
		bucketName = svc.cfg.External.S3.BucketName
	}

	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucketName,
		otelAttrSize:      len(fileData),
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(fileData),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileData))),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", bucketName).Str("key", objectKey).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	log.Debug().Str("bucket", bucketName).Str("key", objectKey).Int("bytes", len(fileData)).Msg("object uploaded")

	return publicURL(svc.cfg.External.S3.PublicDomain, objectKey), nil
}

// newClient targets an S3-compatible endpoint with static credentials and path-style addressing.
func newClient(cfg *config.Config) *s3.Client {
	storage := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(storage.AccessKeyID, storage.SecretAccessKey, constant.Empty)),
		awsConfig.WithRegion(storage.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS configuration")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storage.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(storage.APIEndpoint)
		}

		o.UsePathStyle = true
	})
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	if cfg.External.S3.BucketName == constant.Empty {
		log.Warn().Msg("S3 bucket is not configured, checkout folios will not be archived")
	}

	return &s3Impl{
		client: newClient(cfg),
		cfg:    cfg,
		otel:   otel,
	}
}
