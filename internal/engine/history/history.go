// Package history keeps the capped, newest-first record of generated QR
// codes, persisted through an injected key-value store.
package history

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"qrforge/internal/engine/payload"
	"qrforge/internal/platform/kv"
)

// StorageKey is the single well-known key holding the serialized history,
// distinct from any other application state.
const StorageKey = "qr-history"

// MaxEntries bounds the history; appending beyond it evicts the oldest
// entry by insertion order.
const MaxEntries = 20

var ErrNotFound = errors.New("history entry not found")

// Entry is one generated code. Immutable once created.
type Entry struct {
	ID        string              `json:"id"`
	Value     string              `json:"value"`
	Type      payload.ContentType `json:"type"`
	Timestamp int64               `json:"timestamp"`
	FgColor   string              `json:"fgColor"`
	BgColor   string              `json:"bgColor"`
	Size      int                 `json:"size"`
}

// Store owns the entry list. Other components only read and restore. Safe
// for concurrent use: the session's upload goroutine appends while the view
// reads the list.
type Store struct {
	store kv.Store

	mu      sync.RWMutex
	entries []Entry
}

// NewStore loads any persisted history. Malformed or missing persisted data
// yields an empty history rather than an error.
func NewStore(store kv.Store) *Store {
	s := &Store{store: store}

	data, err := store.Get(StorageKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load history, starting empty")
		return s
	}
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Warn().Err(err).Msg("malformed persisted history, starting empty")
		s.entries = nil
	}
	return s
}

// NewEntry builds an entry for the given payload and style, stamped now.
func NewEntry(value string, typ payload.ContentType, fgColor, bgColor string, size int) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Value:     value,
		Type:      typ,
		Timestamp: time.Now().UnixMilli(),
		FgColor:   fgColor,
		BgColor:   bgColor,
		Size:      size,
	}
}

// Append prepends the entry and truncates to the most recent MaxEntries.
// The in-memory append is kept even when persisting fails; the returned
// error is then a non-fatal warning for the caller to surface.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	return s.persist()
}

// List returns the entries newest-first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Restore looks up an entry by id without mutating ordering or creating a
// duplicate.
func (s *Store) Restore(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Clear empties the list and removes the persisted record entirely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.store.Remove(StorageKey)
}

// persist is called with s.mu held.
func (s *Store) persist() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	if err := s.store.Set(StorageKey, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist history")
		return err
	}
	return nil
}
