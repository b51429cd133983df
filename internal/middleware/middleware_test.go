package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "GET /api/posts/", "GET /api/posts/"},
		{"newline injection", "evil\nforged line", "evil forged line"},
		{"carriage return", "a\rb", "a b"},
		{"null byte stripped", "a\x00b", "ab"},
		{"ansi escape stripped", "a\x1b[31mb", "a[31mb"},
		{"tab kept", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/info", "/api/info"},
		{"/api/post/391", "/api/post/{id}"},
		{"/api/post/391/around/", "/api/post/{id}/around/"},
		{"/api/pool/7", "/api/pool/{id}"},
		{"/api/_awtfdb_thumbnails/123456", "/api/_awtfdb_thumbnails/{id}"},
		{"/api/posts/", "/api/posts/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{
			name:  "remote addr",
			setup: func(r *http.Request) { r.RemoteAddr = "10.0.0.1:4242" },
			want:  "10.0.0.1",
		},
		{
			name:  "x-forwarded-for first hop",
			setup: func(r *http.Request) { r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8") },
			want:  "1.2.3.4",
		},
		{
			name:  "x-real-ip",
			setup: func(r *http.Request) { r.Header.Set("X-Real-IP", "9.9.9.9") },
			want:  "9.9.9.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompressionGzipsJSON(t *testing.T) {
	payload := strings.Repeat(`{"key":"value"}`, 100)
	handler := Compression()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("body is not gzip: %v", err)
	}
	defer gz.Close()
	decompressed, err := io.ReadAll(gz)
	if err != nil {
		t.Fatal(err)
	}
	if string(decompressed) != payload {
		t.Error("decompressed body differs from payload")
	}
}

func TestCompressionSkipsMedia(t *testing.T) {
	handler := Compression()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake png bytes"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/_awtfdb_content/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want none for media", got)
	}
	if rec.Body.String() != "fake png bytes" {
		t.Error("media body was altered")
	}
}

func TestCompressionSkipsRangeRequests(t *testing.T) {
	handler := Compression()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Range", "bytes=0-100")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want none for range request", got)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	var called bool
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/info", nil))

	if !called {
		t.Fatal("wrapped handler never ran")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestShouldSkip(t *testing.T) {
	config := LoggingConfig{SkipPaths: []string{"/metrics"}, LogHealthChecks: false}

	if !shouldSkip("/metrics", config) {
		t.Error("/metrics should be skipped")
	}
	if !shouldSkip("/health", config) {
		t.Error("/health should be skipped when health logging is off")
	}
	if shouldSkip("/api/posts/", config) {
		t.Error("/api/posts/ should be logged")
	}
}
