package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lalith-99/almoftah/internal/storage"
	storeMocks "github.com/lalith-99/almoftah/internal/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	pngHeader  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	jpegHeader = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
	gifHeader  = "GIF89a\x01\x00\x01\x00"
	webpHeader = "RIFF\x24\x00\x00\x00WEBPVP8 "
)

func TestPhotoService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		body       string
		size       int64
		setupMocks func(store *storeMocks.MockStorage)
		wantType   string
		wantExt    string
		wantField  string
		wantErrMsg string
	}{
		{name: "jpeg", body: jpegHeader + "pixels", wantType: "image/jpeg", wantExt: ".jpg"},
		{name: "png", body: pngHeader + "pixels", wantType: "image/png", wantExt: ".png"},
		{name: "gif", body: gifHeader + "pixels", wantType: "image/gif", wantExt: ".gif"},
		{name: "webp", body: webpHeader + "pixels", wantType: "image/webp", wantExt: ".webp"},
		{
			name:      "svg with script",
			body:      `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`,
			wantField: "photo",
		},
		{
			name:      "html",
			body:      "<!DOCTYPE html><html><body><script>alert(1)</script></body></html>",
			wantField: "photo",
		},
		{name: "pdf", body: "%PDF-1.7\n%\xe2\xe3\xcf\xd3\n", wantField: "photo"},
		{name: "plain text", body: "hello", wantField: "photo"},
		{name: "too large", body: pngHeader, size: MaxPhotoBytes + 1, wantField: "photo"},
		{name: "empty", body: "", wantField: "photo"},
		{
			name: "storage failure",
			body: pngHeader,
			setupMocks: func(store *storeMocks.MockStorage) {
				store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("bucket gone"))
			},
			wantErrMsg: "upload photo: bucket gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.size
			if size == 0 {
				size = int64(len(tt.body))
			}

			var stored []byte
			store := new(storeMocks.MockStorage)
			if tt.setupMocks != nil {
				tt.setupMocks(store)
			} else if tt.wantType != "" {
				store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "units/") && strings.HasSuffix(key, tt.wantExt)
				}), mock.Anything, storage.PutObjectOptions{Size: size, ContentType: tt.wantType}).
					Run(func(args mock.Arguments) {
						stored, _ = io.ReadAll(args.Get(2).(io.Reader))
					}).
					Return(storage.ObjectInfo{}, nil)
			}
			svc := NewPhotoService(store)

			p, err := svc.Upload(ctx, strings.NewReader(tt.body), size, " front door ")
			switch {
			case tt.wantField != "":
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.True(t, IsStoredPhotoKey(p.ID))
				assert.Equal(t, "/v1/photos/"+p.ID, p.URL)
				assert.Equal(t, "front door", p.Hint)
				assert.Equal(t, tt.body, string(stored), "sniffed bytes are stored too")
			}
			store.AssertExpectations(t)
		})
	}
}

func TestPhotoService_Upload_StreamsPastSniffWindow(t *testing.T) {
	ctx := context.Background()
	body := pngHeader + strings.Repeat("x", 2*sniffLen)

	var stored []byte
	store := new(storeMocks.MockStorage)
	store.On("Put", ctx, mock.Anything, mock.Anything, storage.PutObjectOptions{Size: int64(len(body)), ContentType: "image/png"}).
		Run(func(args mock.Arguments) {
			stored, _ = io.ReadAll(args.Get(2).(io.Reader))
		}).
		Return(storage.ObjectInfo{}, nil)

	_, err := NewPhotoService(store).Upload(ctx, strings.NewReader(body), int64(len(body)), "")
	require.NoError(t, err)
	assert.Equal(t, body, string(stored))
}

func TestPhotoService_Open(t *testing.T) {
	ctx := context.Background()
	store := new(storeMocks.MockStorage)
	svc := NewPhotoService(store)

	store.On("Get", ctx, "units/a.jpg").Return(io.NopCloser(strings.NewReader("img")), storage.ObjectInfo{ContentType: "image/jpeg"}, nil)
	store.On("Get", ctx, "units/gone.jpg").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

	rc, info, err := svc.Open(ctx, "units/a.jpg")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/jpeg", info.ContentType)

	_, _, err = svc.Open(ctx, "units/gone.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Open(ctx, "units/../secrets")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Open(ctx, "documents/x.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}
