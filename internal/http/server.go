package http

import (
	"net/http"
	"time"
)

// NewServer arma el http.Server con timeouts acotados. Todo lo que hace el
// webhook es encadenar llamadas salientes, así que el WriteTimeout tiene que
// cubrir fetch + send + mark.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
