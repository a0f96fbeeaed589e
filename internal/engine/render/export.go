package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
)

// Export action errors. Each action is best-effort and reports its own
// outcome; a failed export never affects the rendered state.
var (
	ErrExportUnsupported = errors.New("export action not supported on this system")
	ErrExportFailed      = errors.New("export failed")
)

// clipboardWrite is swapped out in tests; CI runners rarely have a display.
var clipboardWrite = clipboard.WriteAll

// Download writes the PNG into dir as qr-code-<timestamp>.png and returns
// the written path.
func Download(pngData []byte, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("qr-code-%d.png", time.Now().UnixMilli())
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, pngData, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return path, nil
}

// CopyToClipboard places the PNG on the clipboard as a data URI.
func CopyToClipboard(pngData []byte) error {
	if clipboard.Unsupported {
		return ErrExportUnsupported
	}
	if err := clipboardWrite(DataURI(pngData)); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// Share hands the PNG to an external share command, the closest equivalent
// of a native share sheet. With no command configured the action is
// unsupported rather than failed.
func Share(pngData []byte, shareCommand string) error {
	if shareCommand == "" {
		return ErrExportUnsupported
	}

	tmp, err := os.CreateTemp("", "qr-code-*.png")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if _, err := tmp.Write(pngData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	tmp.Close()

	if err := exec.Command(shareCommand, tmp.Name()).Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// DataURI encodes PNG bytes as a data: URI usable in img tags and
// text clipboards.
func DataURI(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
