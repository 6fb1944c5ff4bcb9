package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrNotImage = errors.New("only image files are allowed")
	ErrTooLarge = errors.New("file too large, maximum allowed: 5MB")
)

// Validate rejects uploads before any storage call is made.
func Validate(size int64, contentType string) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ErrNotImage
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

// Bucket stores objects under slash-separated keys and hands out public URLs.
type Bucket interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type Uploader struct {
	bucket Bucket
	now    func() time.Time
}

func NewUploader(bucket Bucket) *Uploader {
	return &Uploader{bucket: bucket, now: time.Now}
}

// Upload validates the declared metadata, sniffs the content and stores the
// file under folder. It returns the public URL of the stored object.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, filename string, size int64, contentType, folder string) (string, error) {
	if err := Validate(size, contentType); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", ErrNotImage
	}

	// The stored extension decides the served Content-Type, so it follows
	// the sniffed type and never the client's file name.
	ext := strings.TrimPrefix(detected.Extension(), ".")
	if declared := strings.ToLower(filepath.Ext(filename)); declared != "" && declared != detected.Extension() {
		slog.Debug("Upload extension replaced", "filename", filename, "detected", detected.String())
	}

	key := objectKey(folder, u.now(), ext)
	if err := u.bucket.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}

	slog.Info("Asset uploaded", "key", key, "size", len(data), "type", detected.String())

	return u.bucket.PublicURL(key), nil
}

// Delete removes the object behind publicURL. The key is the last two path
// segments of the URL: folder and file name.
func (u *Uploader) Delete(ctx context.Context, publicURL string) error {
	key, err := KeyFromURL(publicURL)
	if err != nil {
		return err
	}

	if err := u.bucket.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}

	slog.Info("Asset deleted", "key", key)
	return nil
}

func KeyFromURL(publicURL string) (string, error) {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid asset URL: %w", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return "", fmt.Errorf("invalid asset URL: %s", publicURL)
	}

	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}

func objectKey(folder string, now time.Time, ext string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		folder = "images"
	}

	name := fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
	if ext != "" {
		name += "." + ext
	}
	return folder + "/" + name
}

// LocalBucket keeps objects on disk under root and serves them below baseURL.
type LocalBucket struct {
	root    string
	baseURL string
}

var _ Bucket = (*LocalBucket)(nil)

func NewLocalBucket(root, baseURL string) (*LocalBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalBucket{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *LocalBucket) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty object key")
	}
	return filepath.Join(b.root, filepath.FromSlash(clean)), nil
}

func (b *LocalBucket) Put(ctx context.Context, key string, r io.Reader) error {
	target, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return f.Close()
}

func (b *LocalBucket) Remove(ctx context.Context, key string) error {
	target, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (b *LocalBucket) PublicURL(key string) string {
	return b.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Root returns the directory served at the bucket's base URL.
func (b *LocalBucket) Root() string {
	return b.root
}
