package router

import "net/http"

type EntryRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	entryController EntryRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if entryController != nil {
		entryController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
