// posthog_client.go wraps posthog.Client so callers need not care whether analytics is configured.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper is a nil-safe analytics sink.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient returns a disabled wrapper when apiKey is empty.
func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled")
		return &PosthogClientWrapper{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client, analytics disabled", slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

// Enqueue records event for distinctID; a no-op when analytics is disabled.
func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	w.logger.Debug("Enqueueing analytics event", slog.String("distinct_id", distinctID), slog.String("event", event))
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	if err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	}); err != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("error", err.Error()))
	}
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	w.posthogClient.Close()
}
