package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore is a single-bucket object store on the local filesystem. Objects
// are served by the HTTP layer under baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// O_EXCL enforces the no-overwrite guarantee
	f, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrObjectExists
		}
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(s.path(name))
		return err
	}
	return f.Close()
}

func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

func (s *DiskStore) PublicURL(name string) string {
	return s.baseURL + "/" + name
}

func (s *DiskStore) path(name string) string {
	// Names are generated server-side, but strip any path components anyway.
	return filepath.Join(s.root, filepath.Base(name))
}
