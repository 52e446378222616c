package qrs_client

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/qrs-tools/go-qrs-client/core"
)

// withRequestLogging wraps the request hooks of config with debug logging.
// Hooks already present on the config keep running after the log line (before
// the request) or before it (after the response).
func withRequestLogging(config *QRSConfig, logger *zap.Logger) {
	before := config.BeforeRequestFn
	after := config.AfterRequestFn

	config.BeforeRequestFn = func(ctx context.Context, method string, r *http.Request) error {
		logger.Debug("sending request",
			zap.String("method", method),
			zap.String("verb", r.Method),
			zap.String("url", r.URL.String()),
		)
		if before != nil {
			return before(ctx, method, r)
		}
		return nil
	}

	config.AfterRequestFn = func(ctx context.Context, method string, response Renderable) (Renderable, error) {
		var err error
		if after != nil {
			if response, err = after(ctx, method, response); err != nil {
				logger.Warn("response hook failed", zap.String("method", method), zap.Error(err))
				return nil, err
			}
		}
		logger.Debug("received response",
			zap.String("method", method),
			zap.String("kind", responseKind(response)),
		)
		return response, nil
	}
}

func responseKind(response Renderable) string {
	switch typed := response.(type) {
	case core.Record:
		return "record"
	case core.RecordSet:
		return "recordset"
	case core.Raw:
		if len(typed) == 0 {
			return "empty"
		}
		return "raw"
	default:
		return "unknown"
	}
}
