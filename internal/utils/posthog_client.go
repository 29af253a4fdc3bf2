// posthog_client.go wraps posthog.Client so callers need not check whether analytics is configured.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

const posthogEndpoint = "https://eu.i.posthog.com"

// PosthogClientWrapper is safe to use when no API key was configured; every
// call is then a no-op.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, usage analytics disabled.")
		return &PosthogClientWrapper{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: posthogEndpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", posthogEndpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to flush analytics", slog.String("error", err.Error()))
	}
}
