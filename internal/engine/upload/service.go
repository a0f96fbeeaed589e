// Package upload implements the media upload service: validate, name,
// persist, and mint a public URL for an uploaded file.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"qrforge/internal/engine/payload"
	"qrforge/internal/platform/storage"
)

const (
	tokenChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength = 7
)

var (
	ErrInvalidRequest = errors.New("no file provided")
	ErrFileTooLarge   = fmt.Errorf("file size must be less than %d bytes", payload.MaxFileBytes)
)

// StorageWriteError wraps a failed durable write, including the
// astronomically unlikely generated-name collision.
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return "storage write failed: " + e.Err.Error()
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// Input describes one uploaded file.
type Input struct {
	Bytes        []byte
	DeclaredSize int64
	MimeType     string
	OriginalName string
}

// Result is consumed once by the caller to build a QR payload.
type Result struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Service persists uploads to an object store. Each call owns its own
// generated filename; there is no cross-call shared mutable state.
type Service struct {
	store storage.ObjectStore
}

func NewService(store storage.ObjectStore) *Service {
	return &Service{store: store}
}

// Upload validates the file, stores it under a unique name, and returns its
// public URL. Repeated calls with identical bytes create distinct objects.
func (s *Service) Upload(ctx context.Context, in Input) (*Result, error) {
	if len(in.Bytes) == 0 {
		return nil, ErrInvalidRequest
	}
	if in.DeclaredSize > payload.MaxFileBytes {
		return nil, ErrFileTooLarge
	}

	name := uniqueFilename(in.OriginalName)

	if err := s.store.Put(ctx, name, bytes.NewReader(in.Bytes)); err != nil {
		return nil, &StorageWriteError{Err: err}
	}

	return &Result{
		URL:      s.store.PublicURL(name),
		Filename: name,
	}, nil
}

// uniqueFilename combines the current time and a random token with the
// original extension, making concurrent and repeated uploads collision-free.
func uniqueFilename(original string) string {
	token := make([]byte, tokenLength)
	for i := range token {
		token[i] = tokenChars[rand.Intn(len(tokenChars))]
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), token, filepath.Ext(original))
}
