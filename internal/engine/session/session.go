// Package session is the orchestration layer: it wires user input through
// the payload formatter and render adapter, owns the single active QR state,
// and reconciles history restores and asynchronous upload resolutions.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"qrforge/internal/engine/history"
	"qrforge/internal/engine/payload"
	"qrforge/internal/engine/render"
	"qrforge/internal/engine/upload"
)

type State int

const (
	StateIdle State = iota
	StateGenerating
	StateDisplaying
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateDisplaying:
		return "displaying"
	default:
		return "idle"
	}
}

// ErrExportInFlight prevents duplicate concurrent invocation of the same
// export action. Different actions may overlap.
var ErrExportInFlight = errors.New("export already in progress")

// PersistenceWarning reports a failed history write behind an otherwise
// successful generation. It is the only error kind that does not roll back
// an already-applied state change.
type PersistenceWarning struct {
	Err error
}

func (w *PersistenceWarning) Error() string {
	return "history not persisted: " + w.Err.Error()
}

func (w *PersistenceWarning) Unwrap() error {
	return w.Err
}

// Active is the single current QR code being displayed.
type Active struct {
	Value   string
	Type    payload.ContentType
	FgColor string
	BgColor string
	Size    int
	Logo    []byte
}

// File describes a media file selected for upload. Open is called at most
// once, by the uploader.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// MediaUploader sends a file to the upload service and returns its public
// URL. The network round trip is the session's only suspending operation.
type MediaUploader interface {
	Upload(ctx context.Context, file File) (*upload.Result, error)
}

type ExportAction string

const (
	ExportDownload ExportAction = "download"
	ExportCopy     ExportAction = "copy"
	ExportShare    ExportAction = "share"
)

// UploadOutcome is delivered to the completion callback of GenerateMedia.
// Stale outcomes carry no error: the resolution was discarded because a
// newer generation superseded it.
type UploadOutcome struct {
	Err     error
	Warning error
	Stale   bool
}

// Session serializes all state transitions behind one mutex, mirroring a
// single-threaded event loop. Style edits are permitted while an upload is
// in flight; a stale upload resolution is discarded ("last generation
// wins"), detected via a monotonically increasing generation token.
type Session struct {
	mu        sync.Mutex
	state     State
	active    Active
	genToken  uint64
	exporting map[ExportAction]bool

	history  *history.Store
	uploader MediaUploader

	downloadsDir string
	shareCommand string
}

func New(hist *history.Store, uploader MediaUploader) *Session {
	return &Session{
		state: StateIdle,
		active: Active{
			FgColor: "#000000",
			BgColor: "#ffffff",
			Size:    300,
		},
		exporting: make(map[ExportAction]bool),
		history:   hist,
		uploader:  uploader,
	}
}

// SetExportTargets configures where downloads land and which command backs
// the share action.
func (s *Session) SetExportTargets(downloadsDir, shareCommand string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadsDir = downloadsDir
	s.shareCommand = shareCommand
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Active() Active {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) History() []history.Entry {
	return s.history.List()
}

// Generate formats and adopts non-media content. On a validation failure
// nothing changes: no history entry, no active-state mutation. A
// PersistenceWarning return means the generation itself succeeded.
func (s *Session) Generate(typ payload.ContentType, raw string) error {
	formatted, err := payload.Format(typ, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adopt(formatted, typ)
}

// GenerateMedia validates the selected file, enters Generating, and uploads
// asynchronously. The outcome callback runs once, off the caller's
// goroutine. Validation failures are returned synchronously with no state
// change and no network call.
func (s *Session) GenerateMedia(ctx context.Context, typ payload.ContentType, file File, done func(UploadOutcome)) error {
	if !typ.Media() {
		return fmt.Errorf("type %q is not a media type", typ)
	}
	if err := payload.CheckFile(file.Name, file.Size); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateGenerating
	s.genToken++
	token := s.genToken
	s.mu.Unlock()

	go func() {
		res, err := s.uploader.Upload(ctx, file)
		done(s.resolve(token, typ, res, err))
	}()
	return nil
}

// resolve applies an upload completion. It applies only if the session is
// still in the Generating state that originated it and no newer generation
// has started since.
func (s *Session) resolve(token uint64, typ payload.ContentType, res *upload.Result, err error) UploadOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGenerating || token != s.genToken {
		return UploadOutcome{Stale: true}
	}

	if err != nil {
		s.restoreDisplayState()
		return UploadOutcome{Err: err}
	}

	formatted, ferr := payload.FormatMedia(typ, res.URL)
	if ferr != nil {
		s.restoreDisplayState()
		return UploadOutcome{Err: ferr}
	}

	if aerr := s.adopt(formatted, typ); aerr != nil {
		var warning *PersistenceWarning
		if errors.As(aerr, &warning) {
			return UploadOutcome{Warning: aerr}
		}
		return UploadOutcome{Err: aerr}
	}
	return UploadOutcome{}
}

// adopt installs a freshly generated payload as the active state and appends
// it to history with the current style. Callers hold s.mu.
func (s *Session) adopt(formatted string, typ payload.ContentType) error {
	s.active.Value = formatted
	s.active.Type = typ
	s.state = StateDisplaying
	s.genToken++

	entry := history.NewEntry(formatted, typ, s.active.FgColor, s.active.BgColor, s.active.Size)
	if err := s.history.Append(entry); err != nil {
		return &PersistenceWarning{Err: err}
	}
	return nil
}

// restoreDisplayState returns the session to the state implied by the prior
// active value after a failed generation. Callers hold s.mu.
func (s *Session) restoreDisplayState() {
	if s.active.Value != "" {
		s.state = StateDisplaying
	} else {
		s.state = StateIdle
	}
}

// SetStyle edits the active style in place. Never a state transition, never
// a history entry; permitted while an upload is pending.
func (s *Session) SetStyle(fgColor, bgColor string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fgColor != "" {
		s.active.FgColor = fgColor
	}
	if bgColor != "" {
		s.active.BgColor = bgColor
	}
	if size > 0 {
		s.active.Size = size
	}
}

// SetLogo attaches (or with nil detaches) the center-logo image.
func (s *Session) SetLogo(logo []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.Logo = logo
}

// Restore adopts a prior history entry's value, type, and style as the
// active state. It transitions directly into Displaying, bypassing
// Generating and bypassing history append; any pending upload resolution is
// thereby invalidated.
func (s *Session) Restore(id string) error {
	entry, err := s.history.Restore(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.Value = entry.Value
	s.active.Type = entry.Type
	s.active.FgColor = entry.FgColor
	s.active.BgColor = entry.BgColor
	s.active.Size = entry.Size
	s.state = StateDisplaying
	s.genToken++
	return nil
}

// ClearHistory empties the history and its persisted record. The active
// state is unaffected.
func (s *Session) ClearHistory() error {
	return s.history.Clear()
}

// RenderPNG renders the active code. Length and emptiness are re-verified
// here because restores bypass the formatter.
func (s *Session) RenderPNG() ([]byte, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	return render.RenderPNG(active.Value, render.Style{
		FgColor: active.FgColor,
		BgColor: active.BgColor,
		Size:    active.Size,
		Logo:    active.Logo,
	})
}

// Export runs one export action against the current render. The same action
// cannot run twice concurrently; different actions may. Export outcomes
// never affect render state.
func (s *Session) Export(action ExportAction) error {
	s.mu.Lock()
	if s.exporting[action] {
		s.mu.Unlock()
		return ErrExportInFlight
	}
	s.exporting[action] = true
	downloadsDir := s.downloadsDir
	shareCommand := s.shareCommand
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.exporting, action)
		s.mu.Unlock()
	}()

	data, err := s.RenderPNG()
	if err != nil {
		return err
	}

	switch action {
	case ExportDownload:
		_, err = render.Download(data, downloadsDir)
		return err
	case ExportCopy:
		return render.CopyToClipboard(data)
	case ExportShare:
		return render.Share(data, shareCommand)
	default:
		return fmt.Errorf("unknown export action %q", action)
	}
}
