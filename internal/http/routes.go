package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter arma el router del servicio. Los handlers llegan ya cableados
// desde main para no acoplar este paquete a sus dependencias.
func NewRouter(
	root stdhttp.Handler,
	webhook stdhttp.Handler, // POST /webhook
	readyz stdhttp.Handler,
	metrics stdhttp.Handler, // puede ser nil si las métricas no registraron
) stdhttp.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithRecover)
	r.Use(WithLogging)
	r.Use(WithMetrics)

	// Health
	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(stdhttp.MethodGet, "/readyz", readyz)

	if metrics != nil {
		r.Method(stdhttp.MethodGet, "/metrics", metrics)
	}

	r.Method(stdhttp.MethodGet, "/", root)
	r.Method(stdhttp.MethodPost, "/webhook", webhook)

	return r
}
