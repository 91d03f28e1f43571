package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/filetype"

	config "threadflow/configs"
)

var imageExtensions = []string{"jpg", "jpeg", "png", "gif"}

var supportedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

type UploadResult struct {
	Success  bool
	ImageURL string
	PublicID string
	Error    string
}

type imageAsset struct {
	data     []byte
	mimeType string
	name     string
}

// CloudinaryService uploads content images to the CDN. An image is
// located on disk by content id (<contentID>_image.<ext> under the
// assets directory), sniffed and size-checked, then sent through the
// signed upload endpoint.
type CloudinaryService interface {
	ImageURLForContent(ctx context.Context, contentID string) (*UploadResult, error)
}

type cloudinaryService struct {
	cfg    config.Config
	client *http.Client
}

func NewCloudinaryService(cfg config.Config) CloudinaryService {
	return &cloudinaryService{
		cfg:    cfg,
		client: http.DefaultClient,
	}
}

func (s *cloudinaryService) ImageURLForContent(ctx context.Context, contentID string) (*UploadResult, error) {
	if contentID == "" {
		return nil, fmt.Errorf("content id is required")
	}

	asset, err := s.findAsset(contentID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, nil
	}

	return s.upload(ctx, asset)
}

func (s *cloudinaryService) findAsset(contentID string) (*imageAsset, error) {
	for _, ext := range imageExtensions {
		name := fmt.Sprintf("%s_image.%s", contentID, ext)
		path := filepath.Join(s.cfg.AssetsDir, name)

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > int64(s.cfg.MaxImageSizeMB)*1024*1024 {
			slog.Info("image asset exceeds size limit", "file", name)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		kind, err := filetype.Match(data)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if _, ok := supportedImageTypes[kind.MIME.Value]; !ok {
			continue
		}

		return &imageAsset{data: data, mimeType: kind.MIME.Value, name: name}, nil
	}
	return nil, nil
}

func (s *cloudinaryService) upload(ctx context.Context, asset *imageAsset) (*UploadResult, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", asset.mimeType, base64.StdEncoding.EncodeToString(asset.data))
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	signature := SignUploadParams(map[string]string{"timestamp": timestamp}, s.cfg.Cloudinary.APISecret)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"file":      dataURI,
		"api_key":   s.cfg.Cloudinary.APIKey,
		"timestamp": timestamp,
		"signature": signature,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("error building upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error building upload form: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/image/upload", s.cfg.Cloudinary.BaseURL, s.cfg.Cloudinary.CloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &UploadResult{
			Success: false,
			Error:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)),
		}, nil
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	return &UploadResult{Success: true, ImageURL: result.SecureURL, PublicID: result.PublicID}, nil
}

// SignUploadParams computes the Cloudinary request signature: hex SHA-1
// of the sorted non-empty params joined as k=v&... with the API secret
// appended.
func SignUploadParams(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + apiSecret))
	return hex.EncodeToString(sum[:])
}
