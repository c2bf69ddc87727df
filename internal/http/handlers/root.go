package handlers

import "net/http"

// NewRootHandler responde el saludo estático de GET /.
func NewRootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to Access Code Delivery!"))
	}
}
