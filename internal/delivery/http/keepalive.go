package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// keepaliveInterval is how often the self-ping fires. Free hosting tiers
// idle out processes that receive no traffic for a while.
const keepaliveInterval = 5 * time.Minute

// KeepAlive periodically GETs the given URL until ctx is canceled. Failures
// are logged and the loop continues.
func KeepAlive(ctx context.Context, url string, logger *slog.Logger) {
	if url == "" {
		return
	}
	client := &http.Client{Timeout: 15 * time.Second}
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				logger.Error("keepalive request build failed", "url", url, "err", err)
				continue
			}
			resp, err := client.Do(req)
			if err != nil {
				logger.Warn("keepalive ping failed", "url", url, "err", err)
				continue
			}
			resp.Body.Close()
		}
	}
}
