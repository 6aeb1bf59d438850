package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Lixing-Zhang/productos-api/internal/handlers"
)

// Recovery turns a panic in a downstream handler into a 500 failure
// envelope and logs the stack trace. If the handler already started its
// response, the panic is only logged.
func Recovery(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
					"response_started", ww.wroteHeader,
				)
				if !ww.wroteHeader {
					handlers.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", logger)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
