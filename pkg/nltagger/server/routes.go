package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/api"
)

//go:embed static
var staticFiles embed.FS

// SetupRoutes configures the page and the API routes.
func SetupRoutes(r *mux.Router, tagger api.API, logger common.Logger) {
	runHandler := NewRunHandler(tagger, logger)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)
	apiRouter.HandleFunc("/runs/ws", runHandler.StreamRun).Methods(http.MethodGet)

	static, _ := fs.Sub(staticFiles, "static")
	r.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
}

// NewRouter a router with all routes set up.
func NewRouter(tagger api.API, logger common.Logger) *mux.Router {
	r := mux.NewRouter()
	SetupRoutes(r, tagger, logger)
	return r
}
