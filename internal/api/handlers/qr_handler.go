package handlers

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"qrforge/internal/engine/payload"
	"qrforge/internal/engine/render"
	"qrforge/internal/pkg/errors"
)

// QRHandler renders QR codes server-side for clients that want a finished
// PNG rather than running the encoder themselves.
type QRHandler struct{}

func NewQRHandler() *QRHandler {
	return &QRHandler{}
}

func (h *QRHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value   string `json:"value"`
		Type    string `json:"type"`
		FgColor string `json:"fg_color"`
		BgColor string `json:"bg_color"`
		Size    int    `json:"size"`
		Logo    string `json:"logo,omitempty"` // base64-encoded image bytes
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	typ := payload.ContentType(req.Type)
	if req.Type == "" {
		typ = payload.TypeText
	}

	var formatted string
	var err error
	if typ.Media() {
		// Media payloads arrive already uploaded; the value is the URL
		formatted, err = payload.FormatMedia(typ, req.Value)
	} else {
		formatted, err = payload.Format(typ, req.Value)
	}
	if err != nil {
		var tooLarge *payload.PayloadTooLargeError
		if stderrors.As(err, &tooLarge) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodePayloadTooLarge,
				"Content exceeds QR code capacity", map[string]int{"length": tooLarge.Length, "max": payload.MaxLength})
			return
		}
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	var logo []byte
	if req.Logo != "" {
		logo, err = base64.StdEncoding.DecodeString(req.Logo)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid logo encoding", nil)
			return
		}
	}

	png, err := render.RenderPNG(formatted, render.Style{
		FgColor: req.FgColor,
		BgColor: req.BgColor,
		Size:    req.Size,
		Logo:    logo,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, render.ErrNoContent):
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeNoContent, "No content to render", nil)
		case stderrors.Is(err, render.ErrInvalidColor):
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid hex color", nil)
		default:
			log.Error().Err(err).Msg("failed to render QR code")
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to render QR code", nil)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
