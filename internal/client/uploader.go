// Package client talks to the qrforge server from the interactive client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"qrforge/internal/engine/session"
	"qrforge/internal/engine/upload"
)

// Uploader posts selected media to the server's upload endpoint. No timeout
// is set: a hung request leaves the session generating, which matches the
// interactive contract (no cancellation once initiated).
type Uploader struct {
	baseURL string
	client  *http.Client
}

func NewUploader(serverURL string) *Uploader {
	return &Uploader{
		baseURL: strings.TrimRight(serverURL, "/"),
		client:  &http.Client{},
	}
}

func (u *Uploader) Upload(ctx context.Context, file session.File) (*upload.Result, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer rc.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/v1/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errRes struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errRes) == nil && errRes.Error != "" {
			return nil, fmt.Errorf("upload failed: %s", errRes.Error)
		}
		return nil, fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	var result upload.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}
