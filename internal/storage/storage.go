// Package storage holds unit photos in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions describe an upload. Size is the exact byte count, or -1
// when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage streams objects in and out; nothing touches local disk.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
}

// Unavailable is a Storage whose every call fails with cause. It stands in
// when the bucket cannot be reached at startup.
func Unavailable(cause error) Storage {
	return unavailable{err: fmt.Errorf("object storage unavailable: %w", cause)}
}

type unavailable struct{ err error }

func (u unavailable) Put(context.Context, string, io.Reader, PutObjectOptions) (ObjectInfo, error) {
	return ObjectInfo{}, u.err
}

func (u unavailable) Get(context.Context, string) (io.ReadCloser, ObjectInfo, error) {
	return nil, ObjectInfo{}, u.err
}

func (u unavailable) Delete(context.Context, string) error { return u.err }

func (u unavailable) Health(context.Context) error { return u.err }
