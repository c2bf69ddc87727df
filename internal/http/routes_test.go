package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(body string) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestRouter_Routes(t *testing.T) {
	router := NewRouter(
		okHandler("welcome"),
		okHandler(`{"status":"success"}`),
		okHandler("ready"),
		nil,
	)

	cases := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{stdhttp.MethodGet, "/", 200, "welcome"},
		{stdhttp.MethodPost, "/webhook", 200, `{"status":"success"}`},
		{stdhttp.MethodGet, "/healthz", 200, "ok"},
		{stdhttp.MethodGet, "/readyz", 200, "ready"},
		{stdhttp.MethodGet, "/webhook", 405, ""},
		{stdhttp.MethodGet, "/nope", 404, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.path, w.Code, tc.wantStatus)
		}
		if tc.wantBody != "" && w.Body.String() != tc.wantBody {
			t.Fatalf("%s %s: body = %q, want %q", tc.method, tc.path, w.Body.String(), tc.wantBody)
		}
	}
}

func TestRouter_SetsRequestID(t *testing.T) {
	router := NewRouter(okHandler("welcome"), okHandler("{}"), okHandler("ready"), nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header not set")
	}
}

func TestRouter_PropagatesClientRequestID(t *testing.T) {
	router := NewRouter(okHandler("welcome"), okHandler("{}"), okHandler("ready"), nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "rid-123" {
		t.Fatalf("X-Request-ID = %q, want rid-123", got)
	}
}
