// Package upload validates and stores user-submitted images.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes is the size ceiling used when none is configured.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var (
	// ErrUnsupportedType is returned for anything other than a jpeg/png image.
	ErrUnsupportedType = errors.New("only .jpeg, .jpg and .png images are allowed")
	// ErrTooLarge is returned when the file exceeds the configured ceiling.
	ErrTooLarge = errors.New("image exceeds the maximum upload size")
)

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

var allowedMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// Store persists an object and returns the URL it can be retrieved from.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// Uploader checks images against the allow-list and size ceiling before handing them to a Store.
type Uploader struct {
	store    Store
	maxBytes int64
	newName  func(ext string) string
}

// NewUploader creates an Uploader. maxBytes <= 0 falls back to DefaultMaxBytes.
func NewUploader(store Store, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{
		store:    store,
		maxBytes: maxBytes,
		newName: func(ext string) string {
			return "user-" + uuid.NewString() + ext
		},
	}
}

// MaxBytes returns the configured ceiling.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// SaveImage validates fh and stores it under a fresh user-<uuid><ext> name.
func (u *Uploader) SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	ext, err := u.validateHeader(fh)
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	// Content sniffing catches files whose extension and declared type lie.
	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	contentType := baseMIME(detected.String())
	if _, ok := allowedMIME[contentType]; !ok {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedType, contentType)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	url, err := u.store.Put(ctx, u.newName(ext), io.LimitReader(f, u.maxBytes), fh.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return url, nil
}

// validateHeader checks extension, declared MIME type and size and returns the normalized extension.
func (u *Uploader) validateHeader(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrUnsupportedType
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)
	}
	declared := baseMIME(fh.Header.Get("Content-Type"))
	if _, ok := allowedMIME[declared]; !ok {
		return "", fmt.Errorf("%w: declared type %q", ErrUnsupportedType, declared)
	}
	if fh.Size > u.maxBytes {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, fh.Size, u.maxBytes)
	}
	return ext, nil
}

func baseMIME(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
