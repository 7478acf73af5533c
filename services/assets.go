package services

import (
	"context"
	"log/slog"

	"github.com/dcode-github/gharbari/backend/metrics"
	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
)

// assets wraps the gateway with compensation and orphan bookkeeping.
type assets struct {
	gateway storage.Gateway
	orphans store.OrphanStore
}

// uploadAll uploads files in order. When one fails the earlier uploads of
// this call are removed and the upload error is returned.
func (a assets) uploadAll(ctx context.Context, files []storage.File, reason string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := a.gateway.Upload(ctx, f)
		if err != nil {
			a.remove(ctx, urls, reason)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// remove deletes urls from the gateway without failing the caller. URLs that
// cannot be deleted are recorded for the sweep.
func (a assets) remove(ctx context.Context, urls []string, reason string) {
	if len(urls) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		err := a.gateway.Delete(ctx, url)
		if err == nil {
			continue
		}
		slog.Warn("Remote image delete failed, recording orphan",
			slog.String("url", url),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		metrics.OrphanedAssets.Inc()
		if rerr := a.orphans.Record(ctx, url, reason, err); rerr != nil {
			slog.Error("Failed to record orphan asset",
				slog.String("url", url),
				slog.String("error", rerr.Error()))
		}
	}
}
