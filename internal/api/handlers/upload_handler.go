package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"qrforge/internal/engine/payload"
	"qrforge/internal/engine/upload"
)

// UploadHandler accepts a multipart file and returns the public URL minted
// for it. The wire format matches the client contract exactly:
// 200 {url, filename}, 400/500 {error}.
type UploadHandler struct {
	svc *upload.Service
}

func NewUploadHandler(svc *upload.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Cap the parse buffer just above the acceptance limit; the service
	// re-checks the declared size regardless of any client-side validation.
	if err := r.ParseMultipartForm(payload.MaxFileBytes + 1024); err != nil {
		log.Error().Err(err).Msg("failed to parse multipart form")
		writeUploadError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("no file in upload request")
		writeUploadError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > payload.MaxFileBytes {
		log.Error().Int64("size", header.Size).Msg("file too large")
		writeUploadError(w, http.StatusBadRequest, "File size must be less than 2MB")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("failed to read upload")
		writeUploadError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	result, err := h.svc.Upload(r.Context(), upload.Input{
		Bytes:        data,
		DeclaredSize: header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		OriginalName: header.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrInvalidRequest):
			writeUploadError(w, http.StatusBadRequest, "No file provided")
		case errors.Is(err, upload.ErrFileTooLarge):
			writeUploadError(w, http.StatusBadRequest, "File size must be less than 2MB")
		default:
			log.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
			writeUploadError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	log.Info().Str("filename", result.Filename).Int64("size", header.Size).Msg("upload successful")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func writeUploadError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
