// Package tui is the interactive client: type or pick content, customize the
// code, export it, and browse the generation history.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qrforge/internal/engine/payload"
	"qrforge/internal/engine/session"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

var contentTypes = []payload.ContentType{
	payload.TypeText,
	payload.TypeURL,
	payload.TypePhone,
	payload.TypeEmail,
	payload.TypeImage,
	payload.TypeVideo,
}

var fgPresets = []string{"#000000", "#1d4ed8", "#b91c1c", "#15803d", "#7c3aed"}
var bgPresets = []string{"#ffffff", "#f8fafc", "#fef9c3", "#ecfdf5", "#fdf2f8"}

type uploadDoneMsg struct {
	outcome session.UploadOutcome
}

type exportDoneMsg struct {
	action session.ExportAction
	err    error
	detail string
}

type clearToastMsg struct{}

type toast struct {
	text string
	kind string // "ok", "warn", "error"
}

// Model is the bubbletea model wrapping the orchestration session.
type Model struct {
	sess   *session.Session
	styles Styles

	input     textinput.Model
	typeIdx   int
	fgIdx     int
	bgIdx     int
	focus     focusArea
	histIdx   int
	uploading bool
	toast     toast
	width     int
	height    int
}

func NewModel(sess *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your message here..."
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		sess:   sess,
		styles: DefaultStyles(),
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) contentType() payload.ContentType {
	return contentTypes[m.typeIdx]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case uploadDoneMsg:
		m.uploading = false
		o := msg.outcome
		switch {
		case o.Stale:
			// Superseded by a newer generation; nothing to report
			return m, nil
		case o.Err != nil:
			return m.showToast(fmt.Sprintf("Failed to upload %s: %v", m.contentType(), o.Err), "error")
		case o.Warning != nil:
			return m.showToast(o.Warning.Error(), "warn")
		default:
			return m.showToast(fmt.Sprintf("QR Code generated! Scan to view your %s", m.contentType()), "ok")
		}

	case exportDoneMsg:
		if msg.err != nil {
			return m.showToast(exportFailureText(msg.action, msg.err), "error")
		}
		return m.showToast(msg.detail, "ok")

	case clearToastMsg:
		m.toast = toast{}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.typeIdx = (m.typeIdx + 1) % len(contentTypes)
		m.updatePlaceholder()
		return m, nil
	case "ctrl+f":
		m.fgIdx = (m.fgIdx + 1) % len(fgPresets)
		m.sess.SetStyle(fgPresets[m.fgIdx], "", 0)
		return m, nil
	case "ctrl+b":
		m.bgIdx = (m.bgIdx + 1) % len(bgPresets)
		m.sess.SetStyle("", bgPresets[m.bgIdx], 0)
		return m, nil
	case "ctrl+up":
		m.sess.SetStyle("", "", clampSize(m.sess.Active().Size+50))
		return m, nil
	case "ctrl+down":
		m.sess.SetStyle("", "", clampSize(m.sess.Active().Size-50))
		return m, nil
	case "ctrl+l":
		return m.attachLogo()
	case "ctrl+x":
		m.sess.SetLogo(nil)
		return m.showToast("Logo removed", "ok")
	case "ctrl+d":
		return m.export(session.ExportDownload)
	case "ctrl+y":
		return m.export(session.ExportCopy)
	case "ctrl+s":
		return m.export(session.ExportShare)
	case "ctrl+h":
		if m.focus == focusHistory {
			m.focus = focusInput
			m.input.Focus()
		} else {
			m.focus = focusHistory
			m.input.Blur()
			m.histIdx = 0
		}
		return m, nil
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg)
	}

	if msg.String() == "enter" {
		return m.generate()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sess.History()

	switch msg.String() {
	case "up", "k":
		if m.histIdx > 0 {
			m.histIdx--
		}
	case "down", "j":
		if m.histIdx < len(entries)-1 {
			m.histIdx++
		}
	case "enter":
		if m.histIdx < len(entries) {
			if err := m.sess.Restore(entries[m.histIdx].ID); err != nil {
				return m.showToast("Failed to restore: "+err.Error(), "error")
			}
			m.focus = focusInput
			m.input.Focus()
			return m.showToast("Restored from history", "ok")
		}
	case "x":
		if err := m.sess.ClearHistory(); err != nil {
			return m.showToast("Failed to clear history: "+err.Error(), "error")
		}
		m.histIdx = 0
		return m.showToast("History cleared", "ok")
	case "esc", "q":
		m.focus = focusInput
		m.input.Focus()
	}
	return m, nil
}

func (m Model) generate() (tea.Model, tea.Cmd) {
	typ := m.contentType()

	if typ.Media() {
		return m.generateMedia(typ)
	}

	raw := m.input.Value()
	if raw == "" {
		return m.showToast("Please enter some content", "error")
	}

	if err := m.sess.Generate(typ, raw); err != nil {
		var warning *session.PersistenceWarning
		if errors.As(err, &warning) {
			return m.showToast(warning.Error(), "warn")
		}
		var tooLarge *payload.PayloadTooLargeError
		if errors.As(err, &tooLarge) {
			return m.showToast(fmt.Sprintf(
				"Content too long! QR codes can hold max ~%d characters. Your content is %d characters.",
				payload.MaxLength, tooLarge.Length), "error")
		}
		return m.showToast(err.Error(), "error")
	}
	return m.showToast("QR Code generated!", "ok")
}

func (m Model) generateMedia(typ payload.ContentType) (tea.Model, tea.Cmd) {
	path := m.input.Value()
	if path == "" {
		return m.showToast("Please select a file", "error")
	}

	info, err := os.Stat(path)
	if err != nil {
		return m.showToast("Cannot read file: "+err.Error(), "error")
	}

	file := session.File{
		Name: info.Name(),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}

	outcomes := make(chan session.UploadOutcome, 1)
	err = m.sess.GenerateMedia(context.Background(), typ, file, func(o session.UploadOutcome) {
		outcomes <- o
	})
	if err != nil {
		switch {
		case errors.Is(err, payload.ErrNoFileSelected):
			return m.showToast("Please select a file", "error")
		case errors.Is(err, payload.ErrFileTooLarge):
			return m.showToast("File size must be less than 2MB", "error")
		default:
			return m.showToast(err.Error(), "error")
		}
	}

	m.uploading = true
	next, toastCmd := m.showToast("Uploading...", "ok")
	m = next.(Model)
	return m, tea.Batch(toastCmd, func() tea.Msg {
		return uploadDoneMsg{outcome: <-outcomes}
	})
}

func (m Model) attachLogo() (tea.Model, tea.Cmd) {
	path := m.input.Value()
	if path == "" {
		return m.showToast("Type a logo image path first", "error")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m.showToast("Cannot read logo: "+err.Error(), "error")
	}
	m.sess.SetLogo(data)
	return m.showToast("Logo attached", "ok")
}

// export runs off the update loop; the session's per-action guard prevents a
// duplicate invocation while one is in flight.
func (m Model) export(action session.ExportAction) (tea.Model, tea.Cmd) {
	sess := m.sess
	return m, func() tea.Msg {
		err := sess.Export(action)
		return exportDoneMsg{action: action, err: err, detail: exportSuccessText(action)}
	}
}

func exportSuccessText(action session.ExportAction) string {
	switch action {
	case session.ExportDownload:
		return "QR Code downloaded!"
	case session.ExportCopy:
		return "QR Code copied to clipboard!"
	default:
		return "QR Code shared!"
	}
}

func exportFailureText(action session.ExportAction, err error) string {
	if errors.Is(err, session.ErrExportInFlight) {
		return "Export already in progress"
	}
	switch action {
	case session.ExportCopy:
		return "Failed to copy QR Code: " + err.Error()
	case session.ExportShare:
		return "Failed to share QR Code: " + err.Error()
	default:
		return "Failed to download QR Code: " + err.Error()
	}
}

func (m Model) showToast(text, kind string) (tea.Model, tea.Cmd) {
	m.toast = toast{text: text, kind: kind}
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (m *Model) updatePlaceholder() {
	switch m.contentType() {
	case payload.TypeURL:
		m.input.Placeholder = "https://example.com"
	case payload.TypePhone:
		m.input.Placeholder = "+1234567890"
	case payload.TypeEmail:
		m.input.Placeholder = "email@example.com"
	case payload.TypeImage, payload.TypeVideo:
		m.input.Placeholder = "path/to/file (max 2MB)"
	default:
		m.input.Placeholder = "Enter your message here..."
	}
}

func clampSize(size int) int {
	if size < 100 {
		return 100
	}
	if size > 1000 {
		return 1000
	}
	return size
}
