// Package storage provides the object store backing uploaded media.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned by Put when the target name is already taken.
// Upserts are disabled: uploads never overwrite one another.
var ErrObjectExists = errors.New("storage: object already exists")

// ObjectStore persists opaque blobs under caller-chosen names and resolves
// them to publicly reachable URLs.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader) error
	Open(name string) (io.ReadCloser, error)
	PublicURL(name string) string
}
