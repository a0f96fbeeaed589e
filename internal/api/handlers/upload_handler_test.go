package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qrforge/internal/engine/payload"
	"qrforge/internal/engine/upload"
	"qrforge/internal/platform/storage"
)

func newUploadHandler(t *testing.T) (*UploadHandler, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:8080/media")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	return NewUploadHandler(upload.NewService(store)), store
}

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write(content)
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestUploadSuccess(t *testing.T) {
	handler, _ := newUploadHandler(t)

	body, contentType := multipartBody(t, "file", "cat.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var res upload.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Filename == "" || !strings.HasSuffix(res.Filename, ".png") {
		t.Errorf("Filename = %q, want generated name with original extension", res.Filename)
	}
	if !strings.HasPrefix(res.URL, "http://localhost:8080/media/") {
		t.Errorf("URL = %q, want public media URL", res.URL)
	}
}

func TestUploadMissingFile(t *testing.T) {
	handler, _ := newUploadHandler(t)

	body, contentType := multipartBody(t, "not_file", "cat.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var res map[string]string
	json.NewDecoder(rec.Body).Decode(&res)
	if res["error"] != "No file provided" {
		t.Errorf(`error = %q, want "No file provided"`, res["error"])
	}
}

func TestUploadFileTooLarge(t *testing.T) {
	handler, _ := newUploadHandler(t)

	big := bytes.Repeat([]byte("a"), payload.MaxFileBytes+1)
	body, contentType := multipartBody(t, "file", "big.mp4", big)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var res map[string]string
	json.NewDecoder(rec.Body).Decode(&res)
	if res["error"] != "File size must be less than 2MB" {
		t.Errorf("error = %q", res["error"])
	}
}

func TestUploadExactly2MBAccepted(t *testing.T) {
	handler, _ := newUploadHandler(t)

	exact := bytes.Repeat([]byte("a"), payload.MaxFileBytes)
	body, contentType := multipartBody(t, "file", "exact.bin", exact)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a file of exactly 2MB", rec.Code)
	}
}
