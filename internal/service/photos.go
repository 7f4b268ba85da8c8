package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/storage"
)

const (
	// MaxPhotoBytes caps a single unit photo.
	MaxPhotoBytes = 4 << 20

	photoKeyPrefix = "units/"
	photoURLPrefix = "/v1/photos/"

	// sniffLen is how much of an upload is read to detect its type.
	sniffLen = 3072
)

// IsStoredPhotoKey reports whether key names an object this service
// uploaded. External photo URLs are never deleted from the bucket.
func IsStoredPhotoKey(key string) bool {
	return strings.HasPrefix(key, photoKeyPrefix) && !strings.Contains(key, "..")
}

type PhotoService struct {
	store storage.Storage
}

func NewPhotoService(store storage.Storage) *PhotoService {
	return &PhotoService{store: store}
}

// Upload stores an image and returns the Photo to attach to a unit. The
// type is detected from the content, not taken from the client, and only
// raster formats browsers render inline are accepted.
func (s *PhotoService) Upload(ctx context.Context, r io.Reader, size int64, hint string) (*models.Photo, error) {
	if size <= 0 {
		return nil, invalid("photo", "is empty")
	}
	if size > MaxPhotoBytes {
		return nil, invalid("photo", "must be 4MB or smaller")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	head = head[:n]

	contentType, ext, ok := photoType(mimetype.Detect(head))
	if !ok {
		return nil, invalid("photo", "must be a JPEG, PNG, WebP or GIF image")
	}

	key := photoKeyPrefix + uuid.NewString() + ext

	if _, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), r), storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	return &models.Photo{
		ID:   key,
		URL:  photoURLPrefix + key,
		Hint: strings.TrimSpace(hint),
	}, nil
}

// Open streams a stored photo. Callers must close the reader.
func (s *PhotoService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if !IsStoredPhotoKey(key) {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	rc, info, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

var photoTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/gif", ".gif"},
}

func photoType(mt *mimetype.MIME) (contentType, ext string, ok bool) {
	for _, t := range photoTypes {
		if mt.Is(t.mime) {
			return t.mime, t.ext, true
		}
	}
	return "", "", false
}
