package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"reelflow/internal/conf"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	maxRetries     = 3
	retryDelay     = time.Second
	uploadTimeout  = 30 * time.Second
	presignExpires = time.Hour * 24 * 3
)

var ErrS3Disabled = errors.New(503, "S3_NOT_CONFIGURED", "s3 bucket not configured")

// S3Bucket 通过预签名 PUT 上传，返回预签名 GET 地址
type S3Bucket struct {
	presign *s3.PresignClient
	http    *http.Client
	bucket  string
	log     *log.Helper
}

// NewS3Bucket 未配置 bucket 时返回 nil，日志导出不可用
func NewS3Bucket(c *conf.Data, logger log.Logger) (*S3Bucket, func(), error) {
	l := log.NewHelper(log.With(logger, "module", "s3"))

	if c == nil || c.S3 == nil || c.S3.Bucket == "" {
		l.Warn("s3 not configured, journal export disabled")
		return nil, func() {}, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.S3.Region),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     c.S3.AccessKeyId,
				SecretAccessKey: c.S3.SecretAccessKey,
			}, nil
		})),
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		l.Errorf("failed loading AWS config: %v", err)
		return nil, nil, err
	}

	var clientOpts []func(*s3.Options)
	if c.S3.Endpoint != "" {
		endpoint := c.S3.Endpoint
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		l.Infof("Using custom S3 endpoint: %s", endpoint)
	}

	b := &S3Bucket{
		presign: s3.NewPresignClient(s3.NewFromConfig(cfg, clientOpts...)),
		http:    &http.Client{Timeout: uploadTimeout},
		bucket:  c.S3.Bucket,
		log:     l,
	}
	cleanup := func() {
		l.Info("S3 uploader closed")
		b.http.CloseIdleConnections()
	}
	return b, cleanup, nil
}

// UploadJournal 实现 DataRepo：上传牌局日志，返回预签名下载地址
func (r *dataRepo) UploadJournal(ctx context.Context, key string, body []byte) (string, error) {
	if r.data.s3Bucket == nil {
		return "", ErrS3Disabled
	}
	if r.data.s3Prefix != "" {
		key = r.data.s3Prefix + "/" + key
	}
	return r.data.s3Bucket.Upload(ctx, key, "application/json", body)
}

// Upload 失败按线性退避重试
func (b *S3Bucket) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay * time.Duration(i)):
			}
			b.log.Infof("Retry upload %d/%d: %s", i, maxRetries-1, key)
		}
		url, err := b.put(ctx, key, contentType, data)
		if err == nil {
			b.log.Infof("S3 upload success: bucket=%s, key=%s", b.bucket, key)
			return url, nil
		}
		lastErr = err
		b.log.Warnf("Upload attempt %d/%d failed: %v", i+1, maxRetries, err)
	}
	return "", fmt.Errorf("upload failed after %d attempts: %w", maxRetries, lastErr)
}

func (b *S3Bucket) put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	put, err := b.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", fmt.Errorf("presign PUT: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, put.URL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := b.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(msg))
	}

	get, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", fmt.Errorf("presign GET: %w", err)
	}
	return get.URL, nil
}
