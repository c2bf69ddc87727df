package codes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSheetStore_FetchEligible_StringFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"Code":"OLD1","isUsed":"TRUE","isSent":"TRUE"},
			{"Code":"NEW1","isUsed":"FALSE","isSent":"FALSE"},
			{"Code":"NEW2","isUsed":"false","isSent":"false"}
		]`))
	}))
	defer srv.Close()

	s := NewSheetStore(srv.URL, 5*time.Second)
	code, err := s.FetchEligible(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code.Value != "NEW1" {
		t.Fatalf("code = %q, want NEW1", code.Value)
	}
	if code.ID != "" {
		t.Fatalf("sheet rows have no store id, got %q", code.ID)
	}
}

func TestSheetStore_FlagParsingIsCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"Code":"A","isUsed":"true","isSent":" TRUE "}]`))
	}))
	defer srv.Close()

	s := NewSheetStore(srv.URL, 5*time.Second)
	_, err := s.FetchEligible(context.Background())
	if !errors.Is(err, ErrNoEligibleCode) {
		t.Fatalf("err = %v, want ErrNoEligibleCode (flags should parse as true)", err)
	}
}

func TestSheetStore_MarkSent(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %s, want PATCH", r.Method)
		}
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSheetStore(srv.URL, 5*time.Second)
	if err := s.MarkSent(context.Background(), AccessCode{Value: "NEW1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/Code/NEW1" {
		t.Fatalf("path = %q, want /Code/NEW1", gotPath)
	}
	if gotBody["Code"] != "NEW1" || gotBody["isSent"] != "TRUE" {
		t.Fatalf("body = %v", gotBody)
	}
}
