package include

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3GetObjectAPI is the part of *s3.Client S3Source uses.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads include files from an S3 bucket. The include path, with
// Prefix prepended, is used as the object key.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	src := &include.S3Source{Client: client, Bucket: "prompts", Prefix: "shared/"}
//	resolver := include.NewResolver(include.Config{Source: src})
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Prefix string
}

// ReadFile implements Source. Missing keys are reported as fs.ErrNotExist.
func (s *S3Source) ReadFile(ctx context.Context, name string) ([]byte, error) {
	key := s.Key(name)
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.Bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Key returns the object key for an include path.
func (s *S3Source) Key(name string) string {
	clean := strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "/")
	if s.Prefix == "" {
		return clean
	}
	return strings.TrimSuffix(s.Prefix, "/") + "/" + clean
}
