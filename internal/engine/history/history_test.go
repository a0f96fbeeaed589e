package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"qrforge/internal/engine/payload"
	"qrforge/internal/platform/kv"
)

func entryWithValue(value string) Entry {
	e := NewEntry(value, payload.TypeText, "#000000", "#ffffff", 300)
	return e
}

func TestAppendAndList(t *testing.T) {
	store := NewStore(kv.NewMemory())

	if err := store.Append(entryWithValue("first")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(entryWithValue("second")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[0].Value != "second" || list[1].Value != "first" {
		t.Errorf("List() order = [%s, %s], want newest first", list[0].Value, list[1].Value)
	}
}

func TestAppendEvictsOldestAtCap(t *testing.T) {
	store := NewStore(kv.NewMemory())

	for i := 0; i < MaxEntries+1; i++ {
		// Timestamps deliberately identical-ish; eviction is by insertion
		// order, not timestamp value
		if err := store.Append(entryWithValue(fmt.Sprintf("entry-%d", i))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	list := store.List()
	if len(list) != MaxEntries {
		t.Fatalf("List() len = %d, want %d", len(list), MaxEntries)
	}
	if list[len(list)-1].Value != "entry-1" {
		t.Errorf("oldest surviving entry = %q, want entry-1 (entry-0 evicted)", list[len(list)-1].Value)
	}
	if list[0].Value != fmt.Sprintf("entry-%d", MaxEntries) {
		t.Errorf("newest entry = %q", list[0].Value)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	backend := kv.NewMemory()

	store := NewStore(backend)
	if err := store.Append(entryWithValue("persisted")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Simulated restart
	reloaded := NewStore(backend)
	list := reloaded.List()
	if len(list) != 1 || list[0].Value != "persisted" {
		t.Errorf("reloaded history = %+v, want the persisted entry", list)
	}
}

func TestClearRemovesPersistedRecord(t *testing.T) {
	backend := kv.NewMemory()

	store := NewStore(backend)
	if err := store.Append(entryWithValue("doomed")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if len(store.List()) != 0 {
		t.Error("List() not empty after Clear()")
	}

	// The key must be gone, not an empty-list write
	data, err := backend.Get(StorageKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if data != nil {
		t.Errorf("persisted record = %q, want removed", data)
	}

	// Restart after clear yields empty history
	if list := NewStore(backend).List(); len(list) != 0 {
		t.Errorf("history after restart = %+v, want empty", list)
	}
}

func TestMalformedPersistedDataTreatedAsEmpty(t *testing.T) {
	backend := kv.NewMemory()
	if err := backend.Set(StorageKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	store := NewStore(backend)
	if len(store.List()) != 0 {
		t.Error("List() not empty for malformed persisted data")
	}
}

func TestRestore(t *testing.T) {
	store := NewStore(kv.NewMemory())

	e := NewEntry("tel:5551234567", payload.TypePhone, "#ff0000", "#ffffff", 400)
	if err := store.Append(e); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	store.Append(entryWithValue("newer"))

	got, err := store.Restore(e.ID)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got.Value != "tel:5551234567" || got.FgColor != "#ff0000" || got.Size != 400 {
		t.Errorf("Restore() = %+v, want stored value and style", got)
	}

	// Restore must not reorder or duplicate
	list := store.List()
	if len(list) != 2 {
		t.Errorf("List() len = %d after restore, want 2", len(list))
	}
	if list[0].Value != "newer" {
		t.Error("Restore() reordered the history")
	}
}

func TestRestoreUnknownID(t *testing.T) {
	store := NewStore(kv.NewMemory())
	store.Append(entryWithValue("only"))

	if _, err := store.Restore("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore() error = %v, want ErrNotFound", err)
	}
	if len(store.List()) != 1 {
		t.Error("failed Restore() mutated the history")
	}
}

// failingKV accepts reads but rejects writes.
type failingKV struct {
	kv.Store
}

func (f failingKV) Set(key string, value []byte) error {
	return errors.New("disk full")
}

func TestAppendKeepsEntryWhenPersistFails(t *testing.T) {
	store := NewStore(failingKV{Store: kv.NewMemory()})

	err := store.Append(entryWithValue("kept"))
	if err == nil {
		t.Fatal("Append() error = nil, want persistence warning")
	}

	// In-memory list and the surfaced warning must not diverge the session:
	// the append sticks
	list := store.List()
	if len(list) != 1 || list[0].Value != "kept" {
		t.Errorf("List() = %+v, want the appended entry despite persist failure", list)
	}
}

func TestConcurrentAppendAndRead(t *testing.T) {
	store := NewStore(kv.NewMemory())

	seed := entryWithValue("seed")
	if err := store.Append(seed); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			store.Append(entryWithValue(fmt.Sprintf("entry-%d", i)))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, e := range store.List() {
				if e.ID == "" || e.Value == "" {
					t.Error("List() returned a torn entry")
					return
				}
			}
			if _, err := store.Restore(seed.ID); err != nil && !errors.Is(err, ErrNotFound) {
				t.Errorf("Restore() error = %v", err)
				return
			}
		}
	}()

	wg.Wait()

	if got := len(store.List()); got != MaxEntries {
		t.Errorf("List() len = %d after concurrent appends, want %d", got, MaxEntries)
	}
}

func TestPersistedShape(t *testing.T) {
	backend := kv.NewMemory()
	store := NewStore(backend)
	store.Append(entryWithValue("shape"))

	data, err := backend.Get(StorageKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted data is not a JSON object array: %v", err)
	}
	for _, field := range []string{"id", "value", "type", "timestamp", "fgColor", "bgColor", "size"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("persisted entry missing field %q", field)
		}
	}
}
