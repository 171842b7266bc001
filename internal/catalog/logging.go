package catalog

import (
	"net/http"
	"time"

	"github.com/dtroode/pokedex-client/internal/logger"
)

// loggingTransport logs every outgoing catalog request and its outcome.
type loggingTransport struct {
	next   http.RoundTripper
	logger *logger.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *logger.Logger) *loggingTransport {
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)

	t.logger.Debug("catalog request started",
		"method", req.Method,
		"path", req.URL.RequestURI(),
		"request_id", requestID)

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Error("catalog request failed",
			"method", req.Method,
			"path", req.URL.RequestURI(),
			"request_id", requestID,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error())
		return nil, err
	}

	t.logger.Info("catalog request completed",
		"method", req.Method,
		"path", req.URL.RequestURI(),
		"request_id", requestID,
		"duration_ms", duration.Milliseconds(),
		"status", resp.StatusCode)

	return resp, nil
}
