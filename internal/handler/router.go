package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates the router for the long-running server.
func NewRouter(upload http.Handler) http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Handle("/upload", upload).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/health", Health).Methods(http.MethodGet)

	// Any web origin may call the API; no credentials are involved.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
		},
		// Preflights continue to the route so /api/upload answers with its own headers.
		OptionsPassthrough: true,
	})

	return c.Handler(router)
}
