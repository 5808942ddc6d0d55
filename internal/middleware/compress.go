package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
)

// Compress encodes response bodies with brotli for clients that accept it.
// Websocket upgrades are passed through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsBrotli(r) || r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}

		cw := &brotliResponseWriter{ResponseWriter: w}
		defer func() {
			if err := cw.Close(); err != nil {
				log.Warn("Failed to flush compressed response", zap.Error(err))
			}
		}()
		next.ServeHTTP(cw, r)
	})
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc = strings.TrimSpace(enc)
		if name, _, _ := strings.Cut(enc, ";"); strings.TrimSpace(name) == "br" {
			return !strings.HasSuffix(strings.ReplaceAll(enc, " ", ""), "q=0")
		}
	}
	return false
}

// brotliResponseWriter decides on the first WriteHeader whether the body is
// compressed. Responses that never carry a body are left alone.
type brotliResponseWriter struct {
	http.ResponseWriter
	writer      *brotli.Writer
	wroteHeader bool
}

func (w *brotliResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if code != http.StatusNoContent && code != http.StatusNotModified && code >= http.StatusOK {
		h := w.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "br")
		h.Add("Vary", "Accept-Encoding")
		w.writer = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.writer == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.writer.Write(b)
}

func (w *brotliResponseWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}
