package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// MaxURLExpiry is the longest lifetime a SigV4 presigned URL may have.
const MaxURLExpiry = 7 * 24 * time.Hour

const ImageFolder = "images"

var (
	ErrObjectExists   = errors.New("the resource already exists")
	ErrObjectNotFound = errors.New("the resource was not found")
	ErrMissingBucket  = errors.New("AWS_S3_BUCKET is not configured")
)

type (
	AwsS3 interface {
		// UploadFile stores body under key only if nothing is stored there yet.
		// It returns ErrObjectExists when the key is taken.
		UploadFile(ctx context.Context, key string, body []byte, contentType string) error
		GetFile(ctx context.Context, key string) ([]byte, string, error)
		DeleteFile(ctx context.Context, key string) error
		GetSignedLink(ctx context.Context, key string) (string, error)
	}

	Config struct {
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
		URLExpiry time.Duration
	}

	awsS3 struct {
		client    *s3.Client
		presigner *s3.PresignClient
		bucket    string
		expiry    time.Duration
	}
)

func NewAwsS3(ctx context.Context, cfg Config) (AwsS3, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.URLExpiry <= 0 || cfg.URLExpiry > MaxURLExpiry {
		cfg.URLExpiry = MaxURLExpiry
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
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
			// S3 compatible stores (MinIO, Supabase storage) want path style
			// addressing and reject the newer default checksum headers.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return &awsS3{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		expiry:    cfg.URLExpiry,
	}, nil
}

// ObjectKey builds the key of name inside folder.
func ObjectKey(folder, name string) string {
	return path.Join(folder, name)
}

func (s *awsS3) UploadFile(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isAlreadyExists(err) {
			return ErrObjectExists
		}
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *awsS3) GetFile(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) || hasStatus(err, http.StatusNotFound) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", key, err)
	}
	return body, aws.ToString(out.ContentType), nil
}

func (s *awsS3) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *awsS3) GetSignedLink(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict", "ResourceAlreadyExists":
			return true
		}
	}
	return hasStatus(err, http.StatusPreconditionFailed) || hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, status int) bool {
	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == status
}
