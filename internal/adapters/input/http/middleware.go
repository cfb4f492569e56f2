package http

import (
	"net/http"
	"time"

	"cad-ui-bridge/internal/logx"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func middlewareChain() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		chiMiddleware.RequestID,
		chiMiddleware.Recoverer,
		requestLogger,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the wrapper keeps http.Hijacker so websocket upgrades pass through
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		lvl := zerolog.DebugLevel
		if status >= http.StatusInternalServerError {
			lvl = zerolog.WarnLevel
		}
		logx.Log.WithLevel(lvl).
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("http")
	})
}
