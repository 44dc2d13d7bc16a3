package output

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client S3Writer uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Writer uploads files to a bucket under Prefix.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "us-east-1", Credentials: creds})
//	w := &output.S3Writer{Client: client, Bucket: "agents", Prefix: "my-repo/"}
//	err := w.Write(ctx, files)
type S3Writer struct {
	Client S3API
	Bucket string
	Prefix string
	DryRun bool
	Logger *slog.Logger
}

// Key returns the object key for f.
func (w *S3Writer) Key(f File) string {
	key := strings.TrimPrefix(path.Clean("/"+f.Path), "/")
	if w.Prefix == "" {
		return key
	}
	return strings.TrimSuffix(w.Prefix, "/") + "/" + key
}

// Write implements Writer.
func (w *S3Writer) Write(ctx context.Context, files []File) error {
	logger := w.logger()
	for _, f := range files {
		key := w.Key(f)
		if w.DryRun {
			logger.Info("would upload file", "bucket", w.Bucket, "key", key, "bytes", len(f.Content))
			continue
		}
		_, err := w.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(w.Bucket),
			Key:         aws.String(key),
			Body:        strings.NewReader(f.Content),
			ContentType: aws.String(contentType(f.Path)),
		})
		if err != nil {
			return &WriteError{Op: "write", Path: "s3://" + w.Bucket + "/" + key, Err: err}
		}
		logger.Info("uploaded file", "bucket", w.Bucket, "key", key, "bytes", len(f.Content))
	}
	return nil
}

// Clean implements Cleaner. S3 deletes of missing keys succeed.
func (w *S3Writer) Clean(ctx context.Context, files []File) error {
	logger := w.logger()
	for _, f := range files {
		key := w.Key(f)
		if w.DryRun {
			logger.Info("would delete object", "bucket", w.Bucket, "key", key)
			continue
		}
		_, err := w.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(w.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return &WriteError{Op: "remove", Path: "s3://" + w.Bucket + "/" + key, Err: err}
		}
		logger.Info("deleted object", "bucket", w.Bucket, "key", key)
	}
	return nil
}

func (w *S3Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func contentType(p string) string {
	switch path.Ext(p) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
