package tasks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/scheduler"
)

// TrendingWarmTask pre-fetches the first trending page for movies and
// series. Trending is the fallback for vague queries, so a warm cache
// keeps those requests fast.
type TrendingWarmTask struct {
	catalog *catalog.Service
	logger  zerolog.Logger
}

// NewTrendingWarmTask creates a trending warm-up task.
func NewTrendingWarmTask(catalogSvc *catalog.Service, logger zerolog.Logger) *TrendingWarmTask {
	return &TrendingWarmTask{
		catalog: catalogSvc,
		logger:  logger.With().Str("task", "trending-warm").Logger(),
	}
}

// Run fetches the first trending page per content type.
func (t *TrendingWarmTask) Run(ctx context.Context) error {
	if !t.catalog.IsConfigured() {
		t.logger.Debug().Msg("Catalog not configured, skipping trending warm-up")
		return nil
	}

	var lastErr error
	for _, contentType := range []tmdb.ContentType{tmdb.ContentTypeMovie, tmdb.ContentTypeTV} {
		resp, err := t.catalog.Trending(ctx, contentType, 1)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.logger.Warn().Err(err).Str("contentType", string(contentType)).Msg("Trending warm-up failed")
			lastErr = err
			continue
		}
		t.logger.Debug().Str("contentType", string(contentType)).Int("count", len(resp.Results)).Msg("Warmed trending page")
	}
	return lastErr
}

// RegisterTrendingWarmTask registers the trending warm-up task with the
// scheduler. It reruns every hour to track the upstream daily window.
func RegisterTrendingWarmTask(sched *scheduler.Scheduler, task *TrendingWarmTask) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "trending-warm",
		Name:        "Trending Cache Warm-up",
		Description: "Pre-fetches the first trending page for movies and series",
		Cron:        "5 * * * *",
		RunOnStart:  true,
		Func:        task.Run,
	})
}
