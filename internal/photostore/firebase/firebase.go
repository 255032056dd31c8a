// Package firebase uploads attendance photos to Firebase Storage through
// its REST surface and resolves the tokenized download URL.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://firebasestorage.googleapis.com"

type FirebaseStore struct {
	bucket  string
	baseURL string
	client  *http.Client
}

type Option func(*FirebaseStore)

// WithBaseURL overrides the API endpoint, used by tests and emulators.
func WithBaseURL(baseURL string) Option {
	return func(s *FirebaseStore) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *FirebaseStore) { s.client = client }
}

func NewFirebaseStore(bucket string, opts ...Option) *FirebaseStore {
	s := &FirebaseStore{
		bucket:  bucket,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload posts the photo bytes and builds the public download URL from the
// token the API returns. An upload without a resolved URL is a failure.
func (s *FirebaseStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/v0/b/%s/o?uploadType=media&name=%s",
		s.baseURL, url.PathEscape(s.bucket), url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload failed: storage returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var meta struct {
		Name           string `json:"name"`
		DownloadTokens string `json:"downloadTokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	token := meta.DownloadTokens
	if i := strings.IndexByte(token, ','); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return "", fmt.Errorf("storage returned no download token for %s", name)
	}

	downloadURL := fmt.Sprintf("%s/v0/b/%s/o/%s?alt=media&token=%s",
		s.baseURL, url.PathEscape(s.bucket), url.PathEscape(meta.Name), url.QueryEscape(token))
	return downloadURL, nil
}
