package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "qrforge/internal/api/context"
	"qrforge/internal/api/handlers"
	"qrforge/internal/api/middleware"
)

type Dependencies struct {
	UploadHandler  *handlers.UploadHandler
	QRHandler      *handlers.QRHandler
	MediaHandler   *handlers.MediaHandler
	HealthHandler  *handlers.HealthHandler
	CORSMiddleware *middleware.CORSMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	cors := deps.CORSMiddleware

	router.POST("/api/v1/upload", wrap(cors.Handle(deps.UploadHandler.Handle)))
	router.POST("/api/v1/qr", wrap(cors.Handle(deps.QRHandler.Generate)))
	router.GET("/api/v1/health", wrap(cors.Handle(deps.HealthHandler.Check)))

	// Public media retrieval for uploaded objects
	router.GET("/media/:filename", wrap(cors.Handle(deps.MediaHandler.Serve)))

	// CORS preflight
	router.GlobalOPTIONS = http.HandlerFunc(cors.Preflight)

	return router
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
