package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/internal/metrics"
	"github.com/mmynk/splitvault/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its latency in m (which may be nil).
// It logs the procedure name, caller, duration, and any error codes/messages.
// Place it after the auth interceptor so the caller is known.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			caller := GetCaller(ctx) // empty if pre-auth

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			code := "ok"
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"reason", connectErr.Meta().Get(api.ReasonHeader),
						"error", connectErr.Message(),
						"caller", caller,
						"duration_ms", duration,
					)
				} else {
					code = connect.CodeUnknown.String()
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"caller", caller,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"caller", caller,
					"duration_ms", duration,
				)
			}
			m.ObserveRPC(procedure, code, elapsed.Seconds())

			return resp, err
		}
	}
}
