package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderDeliveryPortal/internal/apperr"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":           "photo.jpg",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.png`: "a_b.png",
		"":                    "upload",
		"...":                 "upload",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestPODKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "pod/o-1/1700000000123-door.jpg", PODKey("o-1", "door.jpg", at))
}

func TestLocalStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:8081/blobs/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "pod/o1/1-a.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/blobs/pod/o1/1-a.jpg", url)

	b, err := os.ReadFile(filepath.Join(dir, "pod", "o1", "1-a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(b))

	require.NoError(t, s.Delete(ctx, "pod/o1/1-a.jpg"))
	require.NoError(t, s.Delete(ctx, "pod/o1/1-a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "pod", "o1", "1-a.jpg"))
	assert.True(t, os.IsNotExist(err))

	_, err = s.Put(ctx, "../escape", "", strings.NewReader("x"))
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
}

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.ToString(in.Key)}, nil
}

type fakeDeleter struct{ keys []string }

func (f *fakeDeleter) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	up := &fakeUploader{}
	del := &fakeDeleter{}
	s := newS3Store(S3Config{Bucket: "pods"}, up, del)
	ctx := context.Background()

	url, err := s.Put(ctx, "pod/o1/1-a.jpg", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/pod/o1/1-a.jpg", url)
	assert.Equal(t, "pods", aws.ToString(up.input.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(up.input.ContentType))
	assert.Equal(t, "img", up.body)

	cdn := newS3Store(S3Config{Bucket: "pods", PublicBaseURL: "https://cdn.example.com/"}, up, del)
	url, err = cdn.Put(ctx, "pod/o1/2-b.jpg", "", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pod/o1/2-b.jpg", url)
	assert.Nil(t, up.input.ContentType)

	require.NoError(t, s.Delete(ctx, "pod/o1/1-a.jpg"))
	assert.Equal(t, []string{"pod/o1/1-a.jpg"}, del.keys)

	failing := newS3Store(S3Config{Bucket: "pods"}, &fakeUploader{err: errors.New("timeout")}, del)
	_, err = failing.Put(ctx, "k", "", strings.NewReader("x"))
	assert.True(t, apperr.Is(err, apperr.TransientIO))
}
