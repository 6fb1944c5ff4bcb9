package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBucket struct {
	puts    map[string][]byte
	removed []string
}

func (b *recordingBucket) Put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if b.puts == nil {
		b.puts = make(map[string][]byte)
	}
	b.puts[key] = data
	return nil
}

func (b *recordingBucket) Remove(ctx context.Context, key string) error {
	b.removed = append(b.removed, key)
	return nil
}

func (b *recordingBucket) PublicURL(key string) string {
	return "https://cdn.example.com/uploads/" + key
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
		expected    error
	}{
		{"png", 1024, "image/png", nil},
		{"uppercase type", 1024, "IMAGE/JPEG", nil},
		{"exactly 5MB", MaxUploadSize, "image/webp", nil},
		{"pdf", 1024, "application/pdf", ErrNotImage},
		{"empty type", 1024, "", ErrNotImage},
		{"too large", MaxUploadSize + 1, "image/png", ErrTooLarge},
		{"wrong type checked first", MaxUploadSize + 1, "text/plain", ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Validate(tt.size, tt.contentType))
		})
	}

	assert.Equal(t, "only image files are allowed", ErrNotImage.Error())
	assert.Equal(t, "file too large, maximum allowed: 5MB", ErrTooLarge.Error())
}

func TestUploadStoresImage(t *testing.T) {
	bucket := &recordingBucket{}
	uploader := NewUploader(bucket)
	uploader.now = func() time.Time { return time.UnixMilli(1700000000000) }

	data := pngBytes(t)
	url, err := uploader.Upload(context.Background(), bytes.NewReader(data), "Photo.PNG", int64(len(data)), "image/png", "banners")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^https://cdn\.example\.com/uploads/banners/1700000000000-[0-9a-f-]{36}\.png$`), url)
	require.Len(t, bucket.puts, 1)
	for key, stored := range bucket.puts {
		assert.True(t, strings.HasPrefix(key, "banners/"))
		assert.Equal(t, data, stored)
	}
}

func TestUploadRejectsBeforeStoring(t *testing.T) {
	bucket := &recordingBucket{}
	uploader := NewUploader(bucket)

	_, err := uploader.Upload(context.Background(), strings.NewReader("%PDF-1.4"), "doc.pdf", 8, "application/pdf", "news")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = uploader.Upload(context.Background(), strings.NewReader("x"), "big.png", MaxUploadSize+1, "image/png", "news")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = uploader.Upload(context.Background(), strings.NewReader("<html>not an image</html>"), "fake.png", 25, "image/png", "news")
	assert.ErrorIs(t, err, ErrNotImage)

	assert.Empty(t, bucket.puts)
}

func TestUploadExtensionFollowsContent(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;<html><script>alert(1)</script></html>")

	tests := []struct {
		name     string
		data     []byte
		filename string
		suffix   string
	}{
		{"html name on gif content", gif, "evil.html", ".gif"},
		{"svg name on gif content", gif, "logo.svg", ".gif"},
		{"jpg name on png content", pngBytes(t), "photo.jpg", ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := &recordingBucket{}
			uploader := NewUploader(bucket)

			url, err := uploader.Upload(context.Background(), bytes.NewReader(tt.data), tt.filename,
				int64(len(tt.data)), "image/gif", "news")
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(url, tt.suffix), url)
			for key := range bucket.puts {
				assert.True(t, strings.HasSuffix(key, tt.suffix), key)
			}
		})
	}
}

func TestUploadFallsBackToDetectedExtension(t *testing.T) {
	bucket := &recordingBucket{}
	uploader := NewUploader(bucket)

	data := pngBytes(t)
	url, err := uploader.Upload(context.Background(), bytes.NewReader(data), "noext", int64(len(data)), "image/png", "")
	require.NoError(t, err)
	assert.Contains(t, url, "/images/")
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestDeleteUsesLastTwoSegments(t *testing.T) {
	bucket := &recordingBucket{}
	uploader := NewUploader(bucket)

	require.NoError(t, uploader.Delete(context.Background(), "https://cdn.example.com/storage/v1/news/123-abc.jpg"))
	assert.Equal(t, []string{"news/123-abc.jpg"}, bucket.removed)

	assert.Error(t, uploader.Delete(context.Background(), "https://cdn.example.com/lonely.jpg"))
}

func TestLocalBucket(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	bucket, err := NewLocalBucket(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bucket.Put(ctx, "news/a.png", strings.NewReader("data")))

	content, err := os.ReadFile(filepath.Join(root, "news", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.Equal(t, "http://localhost:8080/uploads/news/a.png", bucket.PublicURL("news/a.png"))

	require.NoError(t, bucket.Put(ctx, "../../escape.png", strings.NewReader("x")))
	_, err = os.Stat(filepath.Join(root, "escape.png"))
	assert.NoError(t, err, "keys must stay inside the root")

	require.NoError(t, bucket.Remove(ctx, "news/a.png"))
	_, err = os.Stat(filepath.Join(root, "news", "a.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, bucket.Remove(ctx, "news/a.png"), "removing a missing file is not an error")
}
