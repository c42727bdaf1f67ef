package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestNewKey(t *testing.T) {
	now := time.Date(2030, time.June, 5, 12, 0, 0, 0, time.UTC)

	key := NewKey("Cover.PNG", now)
	assert.Regexp(t, regexp.MustCompile(`^files/2030/06/05/[0-9a-f-]{36}\.png$`), key)

	assert.NotEqual(t, key, NewKey("Cover.PNG", now))
	assert.Regexp(t, regexp.MustCompile(`^files/2030/06/05/[0-9a-f-]{36}$`), NewKey("cover", now))
}

func TestLocalStorage_Put(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(root, "http://localhost:8080/files/", testLogger())
	require.NoError(t, err)

	err = store.Put(t.Context(), "files/2030/06/05/cover.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "files", "2030", "06", "05", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	assert.Equal(t, root, store.Root())
	assert.Equal(t, "http://localhost:8080/files/files/2030/06/05/cover.png", store.URL("files/2030/06/05/cover.png"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files", testLogger())
	require.NoError(t, err)

	for _, key := range []string{"../secret", "/etc/passwd", "files/../../secret"} {
		t.Run(key, func(t *testing.T) {
			err := store.Put(t.Context(), key, strings.NewReader("x"), 1, "image/png")
			assert.ErrorContains(t, err, "invalid object key")
		})
	}
}

func TestS3Storage_Put(t *testing.T) {
	client := &fakeS3{}
	store := newS3Storage(client, "covers", "https://cdn.example.com/", testLogger())

	err := store.Put(t.Context(), "files/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "covers", aws.ToString(client.input.Bucket))
	assert.Equal(t, "files/a.png", aws.ToString(client.input.Key))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, "png", string(client.body))
	assert.Equal(t, "https://cdn.example.com/files/a.png", store.URL("files/a.png"))
}

func TestS3Storage_PutFailure(t *testing.T) {
	store := newS3Storage(&fakeS3{err: errors.New("access denied")}, "covers", "", testLogger())

	err := store.Put(t.Context(), "files/a.png", strings.NewReader("png"), 3, "image/png")
	assert.ErrorContains(t, err, "access denied")
}

func TestDefaultPublicURL(t *testing.T) {
	assert.Equal(t, "https://covers.s3.eu-west-1.amazonaws.com",
		defaultPublicURL(&config.Config{S3Bucket: "covers", S3Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/covers",
		defaultPublicURL(&config.Config{S3Bucket: "covers", S3BaseEndpoint: "http://minio:9000/"}))
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		StorageDriver:   "local",
		StorageLocalDir: t.TempDir(),
		AppURL:          "http://localhost:8080",
	}

	store, err := New(t.Context(), cfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	cfg.StorageDriver = "ftp"
	_, err = New(t.Context(), cfg, testLogger())
	assert.Error(t, err)
}
