package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/paycode/internal/codes"
	httpx "github.com/dropDatabas3/paycode/internal/http"
	"github.com/dropDatabas3/paycode/internal/observability/logger"
)

// NewReadyzHandler chequea que el codes store responda. El proveedor de email
// no se chequea: no expone un ping barato y un send de prueba no es gratis.
func NewReadyzHandler(store codes.Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := store.List(ctx); err != nil {
			logger.From(r.Context()).Error("codes store unavailable", logger.Err(err))
			httpx.WriteError(w, http.StatusServiceUnavailable, "codes_store_unavailable", "codes store unavailable")
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
