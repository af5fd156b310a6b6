package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const maxLoggedErrorBody = 512

func NewRouter(api *API) http.Handler {
	router := mux.NewRouter()
	router.Use(api.loggingMiddleware)

	router.HandleFunc("/health", api.HandleHealth).Methods(http.MethodGet)

	router.HandleFunc("/sessions", api.HandleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", api.HandleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", api.HandleCloseSession).Methods(http.MethodDelete)
	router.HandleFunc("/sessions/{id}/next", api.HandleNext).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/select", api.HandleSelect).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/submit", api.HandleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/wake", api.HandleSessionWake).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/finish", api.HandleFinish).Methods(http.MethodPost)

	router.HandleFunc("/api/wake", api.HandleWake).Methods(http.MethodPost)
	router.HandleFunc("/result", api.HandleResult).Methods(http.MethodGet)

	if api.items != nil {
		router.HandleFunc("/items", api.HandleListItems).Methods(http.MethodGet)
		router.HandleFunc("/items", api.HandleCreateItem).Methods(http.MethodPost)
		router.HandleFunc("/items/{id}", api.HandleGetItem).Methods(http.MethodGet)
		router.HandleFunc("/items/{id}", api.HandleUpdateItem).Methods(http.MethodPut)
		router.HandleFunc("/items/{id}", api.HandleDeleteItem).Methods(http.MethodDelete)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return router
}

func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedErrorBody,
		}

		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= http.StatusBadRequest {
			body := recorder.logBody.String()
			if recorder.truncated {
				body += "..."
			}
			a.logger.Printf("%s %s -> %d (%d bytes, %s): %s", r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, time.Since(start), body)
			return
		}
		a.logger.Printf("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, time.Since(start))
	})
}

// statusRecorder captures the status code, the response size and the first
// maxLogBytes of the body for logging.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	maxLogBytes  int
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		if len(p) > remaining {
			r.logBody.Write(p[:remaining])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}

	written, err := r.ResponseWriter.Write(p)
	r.bytesWritten += written
	return written, err
}
