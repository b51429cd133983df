package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// compressibleTypes lists content types worth compressing. File
// content and thumbnails are already-compressed media and are served
// with their own types, so they never match.
var compressibleTypes = map[string]bool{
	"application/json": true,
	"text/plain":       true,
	"text/html":        true,
}

// gzipWriterPool reduces allocations by reusing gzip writers
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	compressing bool
	wroteHeader bool
}

func (rw *gzipResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true

	contentType := rw.Header().Get("Content-Type")
	if semi := strings.Index(contentType, ";"); semi != -1 {
		contentType = contentType[:semi]
	}
	if compressibleTypes[strings.TrimSpace(contentType)] {
		rw.compressing = true
		rw.Header().Set("Content-Encoding", "gzip")
		rw.Header().Del("Content-Length")
		rw.gz = gzipWriterPool.Get().(*gzip.Writer)
		rw.gz.Reset(rw.ResponseWriter)
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *gzipResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.compressing {
		return rw.gz.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *gzipResponseWriter) close() {
	if rw.gz != nil {
		rw.gz.Close()
		gzipWriterPool.Put(rw.gz)
		rw.gz = nil
	}
}

// Compression returns a middleware that gzips JSON and text responses
// for clients that accept it. Range requests pass through untouched so
// media seeking keeps byte offsets intact.
func Compression() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || r.Header.Get("Range") != "" {
				next.ServeHTTP(w, r)
				return
			}

			wrapped := &gzipResponseWriter{ResponseWriter: w}
			defer wrapped.close()
			next.ServeHTTP(wrapped, r)
		})
	}
}
