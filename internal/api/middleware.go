package api

import (
	"net/http"
	"strconv"

	"devserve/internal/logging"
)

const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type"

	cacheControlNoStore = "no-cache, no-store, must-revalidate"
)

// setDevHeaders applies the CORS and cache-busting headers carried by every
// response.
func setDevHeaders(headers http.Header) {
	headers.Set("Access-Control-Allow-Origin", allowOrigin)
	headers.Set("Access-Control-Allow-Methods", allowMethods)
	headers.Set("Access-Control-Allow-Headers", allowHeaders)
	headers.Set("Cache-Control", cacheControlNoStore)
	headers.Set("Pragma", "no-cache")
	headers.Set("Expires", "0")
}

// devHeadersMiddleware re-applies the headers when the status line is written
// so handlers that clear caching headers on error paths cannot drop them.
func devHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := responseRecorderFrom(w)
		setDevHeaders(recorder.Header())
		recorder.beforeHeader = setDevHeaders
		next.ServeHTTP(recorder, r)
	})
}

// preflightMiddleware answers OPTIONS for any path without touching the
// wrapped handler.
func preflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			setDevHeaders(w.Header())
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// readOnlyMiddleware answers 501 for methods the file server does not
// implement. Only GET and HEAD reach next.
func readOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			next.ServeHTTP(w, r)
		default:
			http.Error(w, "Unsupported method ("+r.Method+")", http.StatusNotImplemented)
		}
	})
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	requestLogger := logger.With(map[string]string{
		"devserve.category": "http",
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := responseRecorderFrom(w)
		next.ServeHTTP(recorder, r)
		if requestLogger == nil {
			return
		}
		requestLogger.Info(r.Method+" "+r.URL.RequestURI(), map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"proto":  r.Proto,
			"status": strconv.Itoa(recorder.Status()),
			"bytes":  strconv.FormatInt(recorder.bytes, 10),
			"remote": r.RemoteAddr,
		})
	})
}
