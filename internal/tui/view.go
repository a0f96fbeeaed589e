package tui

import (
	"fmt"
	"strings"

	"qrforge/internal/engine/render"
	"qrforge/internal/engine/session"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("qrforge") + "  " +
		m.styles.Faint.Render("generate custom QR codes with history tracking"))
	b.WriteString("\n\n")

	b.WriteString(m.renderInputPane())
	b.WriteString("\n")
	b.WriteString(m.renderPreviewPane())
	b.WriteString("\n")
	b.WriteString(m.renderHistoryPane())
	b.WriteString("\n")

	if m.toast.text != "" {
		style := m.styles.Success
		switch m.toast.kind {
		case "error":
			style = m.styles.Error
		case "warn":
			style = m.styles.Warning
		}
		b.WriteString(style.Render(m.toast.text))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatusBar.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderInputPane() string {
	active := m.sess.Active()

	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Type: "))
	for i, t := range contentTypes {
		name := string(t)
		if i == m.typeIdx {
			name = m.styles.Selected.Render(" " + name + " ")
		} else {
			name = m.styles.Faint.Render(name)
		}
		b.WriteString(name)
		if i < len(contentTypes)-1 {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Style: "))
	b.WriteString(fmt.Sprintf("fg %s  bg %s  size %dpx", active.FgColor, active.BgColor, active.Size))
	if active.Logo != nil {
		b.WriteString("  logo ✓")
	}

	return m.styles.Pane.Render(b.String())
}

func (m Model) renderPreviewPane() string {
	if m.uploading {
		return m.styles.Pane.Render(m.styles.Faint.Render("Uploading..."))
	}

	active := m.sess.Active()
	if active.Value == "" {
		return m.styles.Pane.Render(m.styles.Faint.Render("No QR Code yet — generate one to see it here"))
	}

	preview, err := render.Terminal(active.Value)
	if err != nil {
		// Too-large restored payloads display the condition, never crash
		return m.styles.Pane.Render(m.styles.Error.Render("Data too large: " + err.Error()))
	}

	label := fmt.Sprintf("%s  %s", active.Type, truncate(active.Value, 60))
	return m.styles.Pane.Render(m.styles.Label.Render(label) + "\n" + preview)
}

func (m Model) renderHistoryPane() string {
	entries := m.sess.History()

	title := m.styles.Label.Render(fmt.Sprintf("History (%d/20)", len(entries)))
	if len(entries) == 0 {
		return m.styles.Pane.Render(title + "\n" + m.styles.Faint.Render("empty"))
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, e := range entries {
		line := fmt.Sprintf("%-5s  %s", e.Type, truncate(e.Value, 50))
		if m.focus == focusHistory && i == m.histIdx {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Value.Render(line)
		}
		b.WriteString(line)
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Pane.Render(b.String())
}

func (m Model) helpLine() string {
	if m.focus == focusHistory {
		return "↑/↓ select · enter restore · x clear · esc back · ctrl+c quit"
	}
	parts := []string{
		"enter generate",
		"tab type",
		"ctrl+f/b colors",
		"ctrl+↑/↓ size",
		"ctrl+l logo",
		"ctrl+d save",
		"ctrl+y copy",
		"ctrl+s share",
		"ctrl+h history",
		"ctrl+c quit",
	}
	if m.sess.State() == session.StateGenerating {
		parts = append([]string{"uploading…"}, parts...)
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
