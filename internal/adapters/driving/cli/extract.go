package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driving"
	"github.com/custodia-labs/tap-twitter/internal/logger"
)

// progressInterval is how often extraction progress is reported.
var progressInterval = 2 * time.Second

// extractWithProgress runs the selected sources while logging progress
// updates. Progress goes to the logger because stdout carries the messages.
func extractWithProgress(ctx context.Context, extractor driving.Extractor, sources []driven.RecordSource) error {
	streams := make([]string, 0, len(sources))
	for _, source := range sources {
		streams = append(streams, source.Definition().Name)
	}
	logger.Info("Extracting streams: %v", streams)

	errCh := make(chan error, 1)
	go func() {
		errCh <- extractor.Extract(ctx, sources)
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastCount := make(map[string]int, len(streams))
	for {
		select {
		case err := <-errCh:
			// Final status is best effort.
			for _, stream := range streams {
				status, statusErr := extractor.Status(ctx, stream)
				if statusErr == nil && status != nil {
					logger.Info("Stream %s: %d records", stream, status.RecordsExtracted)
				}
			}
			return err
		case <-ticker.C:
			for _, stream := range streams {
				status, statusErr := extractor.Status(ctx, stream)
				if statusErr == nil && status != nil && status.Running && status.RecordsExtracted > lastCount[stream] {
					logger.Info("Extracting %s... %d records", stream, status.RecordsExtracted)
					lastCount[stream] = status.RecordsExtracted
				}
			}
		}
	}
}
