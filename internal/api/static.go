// Package api serves the development document root over HTTP.
package api

import (
	"net/http"

	"devserve/internal/logging"
)

// NewStaticHandler serves files under root with permissive CORS, no-cache
// headers and per-request logging. OPTIONS requests are answered directly and
// methods other than GET and HEAD get 501.
func NewStaticHandler(root string, logger *logging.Logger) http.Handler {
	return newStaticHandler(http.FileServer(http.Dir(root)), logger)
}

func newStaticHandler(files http.Handler, logger *logging.Logger) http.Handler {
	return loggingMiddleware(logger, devHeadersMiddleware(preflightMiddleware(readOnlyMiddleware(files))))
}
