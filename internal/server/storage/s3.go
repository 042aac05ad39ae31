package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
)

// S3API — методы *s3.Client, которые нужны S3Sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client создаёт S3-клиент. Для R2/MinIO задаётся endpoint,
// ключи доступа берутся из конфига, а если их нет — из стандартной цепочки AWS.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return client, nil
}

// S3Sink сохраняет файлы в бакет. Ссылка на файл — публичный URL объекта.
type S3Sink struct {
	client    S3API
	bucket    string
	prefix    string
	publicURL string
}

// NewS3Sink создаёт S3Sink.
func NewS3Sink(client S3API, cfg config.S3Config) *S3Sink {
	return &S3Sink{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.KeyPrefix,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// Store загружает объект под ключом "<prefix><uuid>_<имя>".
func (s *S3Sink) Store(ctx context.Context, originalName, contentType string, body io.Reader) (string, error) {
	key := s.prefix + NewKey(originalName)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", storageErr("put object", err)
	}
	return s.publicURL + "/" + key, nil
}

// Remove удаляет объект. Ссылки не из этого бакета игнорируются.
func (s *S3Sink) Remove(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.publicURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storageErr("delete object", err)
	}
	return nil
}
