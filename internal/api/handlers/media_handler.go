package handlers

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"

	apiContext "qrforge/internal/api/context"
	"qrforge/internal/pkg/errors"
	"qrforge/internal/platform/storage"
)

// MediaHandler serves stored objects so the URLs minted by the upload
// service are publicly resolvable.
type MediaHandler struct {
	store storage.ObjectStore
}

func NewMediaHandler(store storage.ObjectStore) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	name := params.ByName("filename")

	rc, err := h.store.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Media not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to open media", nil)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "max-age=3600")
	io.Copy(w, rc)
}
