package output

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects     map[string]string
	contentType map[string]string
	deleted     []string
	err         error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, contentType: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + "/" + *in.Key
	f.objects[key] = string(body)
	f.contentType[key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *in.Key)
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3WriterWrite(t *testing.T) {
	client := newFakeS3()
	w := &S3Writer{Client: client, Bucket: "b", Prefix: "repo/", Logger: testLogger(&bytes.Buffer{})}

	err := w.Write(context.Background(), []File{
		{Path: "CLAUDE.md", Content: "main\n"},
		{Path: "./subagents/t.json", Content: "{}\n"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"b/repo/CLAUDE.md":        "main\n",
		"b/repo/subagents/t.json": "{}\n",
	}, client.objects)
	assert.Equal(t, "text/markdown; charset=utf-8", client.contentType["b/repo/CLAUDE.md"])
	assert.Equal(t, "application/json", client.contentType["b/repo/subagents/t.json"])
}

func TestS3WriterDryRun(t *testing.T) {
	client := newFakeS3()
	var logs bytes.Buffer
	w := &S3Writer{Client: client, Bucket: "b", DryRun: true, Logger: testLogger(&logs)}

	require.NoError(t, w.Write(context.Background(), []File{{Path: "a.md", Content: "a"}}))
	require.NoError(t, w.Clean(context.Background(), []File{{Path: "a.md"}}))

	assert.Empty(t, client.objects)
	assert.Empty(t, client.deleted)
	assert.Contains(t, logs.String(), "would upload file")
	assert.Contains(t, logs.String(), "would delete object")
}

func TestS3WriterClean(t *testing.T) {
	client := newFakeS3()
	w := &S3Writer{Client: client, Bucket: "b", Logger: testLogger(&bytes.Buffer{})}
	require.NoError(t, w.Write(context.Background(), []File{{Path: "a.md", Content: "a"}}))

	require.NoError(t, w.Clean(context.Background(), []File{{Path: "a.md"}}))

	assert.Equal(t, []string{"a.md"}, client.deleted)
	assert.Empty(t, client.objects)
}

func TestS3WriterError(t *testing.T) {
	boom := errors.New("access denied")
	w := &S3Writer{Client: &fakeS3{err: boom}, Bucket: "b", Logger: testLogger(&bytes.Buffer{})}

	err := w.Write(context.Background(), []File{{Path: "a.md"}})

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "s3://b/a.md", we.Path)
	assert.ErrorIs(t, err, boom)
}
