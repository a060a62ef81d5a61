package api

import "net/http"

// responseRecorder tracks the status and size of a response and runs
// beforeHeader once, right before the status line is committed.
type responseRecorder struct {
	http.ResponseWriter
	status       int
	bytes        int64
	wroteHeader  bool
	beforeHeader func(http.Header)
}

func responseRecorderFrom(w http.ResponseWriter) *responseRecorder {
	if recorder, ok := w.(*responseRecorder); ok {
		return recorder
	}
	return &responseRecorder{ResponseWriter: w}
}

func (recorder *responseRecorder) WriteHeader(status int) {
	if recorder.wroteHeader {
		return
	}
	recorder.wroteHeader = true
	recorder.status = status
	if recorder.beforeHeader != nil {
		recorder.beforeHeader(recorder.Header())
	}
	recorder.ResponseWriter.WriteHeader(status)
}

func (recorder *responseRecorder) Write(payload []byte) (int, error) {
	if !recorder.wroteHeader {
		recorder.WriteHeader(http.StatusOK)
	}
	n, err := recorder.ResponseWriter.Write(payload)
	recorder.bytes += int64(n)
	return n, err
}

func (recorder *responseRecorder) Status() int {
	if recorder.status == 0 {
		return http.StatusOK
	}
	return recorder.status
}

func (recorder *responseRecorder) Flush() {
	if !recorder.wroteHeader {
		recorder.WriteHeader(http.StatusOK)
	}
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (recorder *responseRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}
