package services

import (
	"context"
	"log/slog"

	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
)

// Sweeper retries deletion of recorded orphan assets.
type Sweeper struct {
	orphans store.OrphanStore
	gateway storage.Gateway
}

func NewSweeper(orphans store.OrphanStore, gateway storage.Gateway) *Sweeper {
	return &Sweeper{orphans: orphans, gateway: gateway}
}

type SweepResult struct {
	Deleted int
	Failed  int
}

// Run processes up to limit orphans. Deleted assets leave the ledger; failures
// bump the attempt counter and stay for the next run.
func (s *Sweeper) Run(ctx context.Context, limit int64) (SweepResult, error) {
	var res SweepResult
	orphans, err := s.orphans.List(ctx, limit)
	if err != nil {
		return res, err
	}

	for _, o := range orphans {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := s.gateway.Delete(ctx, o.URL); err != nil {
			res.Failed++
			slog.Warn("Orphan delete failed",
				slog.String("url", o.URL),
				slog.Int("attempts", o.Attempts+1),
				slog.String("error", err.Error()))
			if merr := s.orphans.MarkAttempt(ctx, o.ID, err); merr != nil {
				return res, merr
			}
			continue
		}
		if err := s.orphans.Delete(ctx, o.ID); err != nil {
			return res, err
		}
		res.Deleted++
	}

	slog.Info("Orphan sweep finished", slog.Int("deleted", res.Deleted), slog.Int("failed", res.Failed))
	return res, nil
}
