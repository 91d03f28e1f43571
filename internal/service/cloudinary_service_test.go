package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "threadflow/configs"
)

// Minimal valid JPEG header, enough for content sniffing.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00}

func TestSignUploadParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		secret string
		want   string
	}{
		{
			name:   "single param",
			params: map[string]string{"timestamp": "1700000000"},
			secret: "secret",
			want:   "84af3c6077e429a8e7ff26d2ca13d5feb6bc7cb0",
		},
		{
			name:   "sorted params",
			params: map[string]string{"timestamp": "1315060510", "public_id": "sample"},
			secret: "abcd",
			want:   "c3470533147774275dd37996cc4d0e68fd03cd4f",
		},
		{
			name:   "empty values dropped",
			params: map[string]string{"timestamp": "1700000000", "folder": ""},
			secret: "secret",
			want:   "84af3c6077e429a8e7ff26d2ca13d5feb6bc7cb0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignUploadParams(tt.params, tt.secret))
		})
	}
}

func TestImageURLForContent_NoAsset(t *testing.T) {
	cfg := config.Config{AssetsDir: t.TempDir(), MaxImageSizeMB: 8}
	s := NewCloudinaryService(cfg)

	result, err := s.ImageURLForContent(context.Background(), "C404")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestImageURLForContent_RejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C1_image.jpg"), []byte("not an image"), 0o644))

	cfg := config.Config{AssetsDir: dir, MaxImageSizeMB: 8}
	s := NewCloudinaryService(cfg)

	result, err := s.ImageURLForContent(context.Background(), "C1")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestImageURLForContent_Uploads(t *testing.T) {
	var gotFields map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotFields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotFields[key] = values[0]
		}
		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.test/img.jpg",
			"public_id":  "img",
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C1_image.jpg"), jpegHeader, 0o644))

	cfg := config.Config{
		AssetsDir:      dir,
		MaxImageSizeMB: 8,
		Cloudinary: config.Cloudinary{
			CloudName: "demo",
			APIKey:    "key",
			APISecret: "secret",
			BaseURL:   server.URL,
		},
	}
	s := NewCloudinaryService(cfg)

	result, err := s.ImageURLForContent(context.Background(), "C1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "https://res.cloudinary.test/img.jpg", result.ImageURL)

	assert.Equal(t, "key", gotFields["api_key"])
	assert.NotEmpty(t, gotFields["timestamp"])
	assert.Equal(t, SignUploadParams(map[string]string{"timestamp": gotFields["timestamp"]}, "secret"), gotFields["signature"])
	assert.Contains(t, gotFields["file"], "data:image/jpeg;base64,")
}

func TestImageURLForContent_UploadErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid signature"}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C1_image.jpg"), jpegHeader, 0o644))

	cfg := config.Config{
		AssetsDir:      dir,
		MaxImageSizeMB: 8,
		Cloudinary:     config.Cloudinary{CloudName: "demo", BaseURL: server.URL},
	}
	s := NewCloudinaryService(cfg)

	result, err := s.ImageURLForContent(context.Background(), "C1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "HTTP 400")
}
