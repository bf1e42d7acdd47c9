package router

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
)

// ResponseWriter wraps http.ResponseWriter to track whether a response has
// been written and with which status code. The application boundary uses it
// to decide whether an error can still be rendered, and logging middleware
// reads the final status from it.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// NewResponseWriter wraps w. The zero state reports not written and status 0.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w}
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written reports whether any part of the response has been sent.
func (w *ResponseWriter) Written() bool { return w.written }

// Status returns the status code sent to the client, or 0 if headers have
// not been written yet.
func (w *ResponseWriter) Status() int { return w.status }

// Flush implements http.Flusher when the underlying writer supports it.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// Hijack implements http.Hijacker when the underlying writer supports it.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}

// Unwrap supports http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
