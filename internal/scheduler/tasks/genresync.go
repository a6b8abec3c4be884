package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/config"
	"github.com/streamsage/streamsage/internal/scheduler"
)

// genreLanguages are the locales whose genre lists get refreshed.
var genreLanguages = []string{"en-US", "tr-TR", "es-ES", "de-DE", "fr-FR"}

// GenreSyncTask keeps the per-language genre lists warm in the cache so
// request-path lookups do not pay the upstream round trip.
type GenreSyncTask struct {
	catalog *catalog.Service
	logger  zerolog.Logger
}

// NewGenreSyncTask creates a genre sync task.
func NewGenreSyncTask(catalogSvc *catalog.Service, logger zerolog.Logger) *GenreSyncTask {
	return &GenreSyncTask{
		catalog: catalogSvc,
		logger:  logger.With().Str("task", "genre-sync").Logger(),
	}
}

// Run refreshes the genre list for every supported locale and content
// type. Individual locale failures are logged and do not abort the rest.
func (t *GenreSyncTask) Run(ctx context.Context) error {
	if !t.catalog.IsConfigured() {
		t.logger.Debug().Msg("Catalog not configured, skipping genre sync")
		return nil
	}

	var failed int
	for _, contentType := range []tmdb.ContentType{tmdb.ContentTypeMovie, tmdb.ContentTypeTV} {
		for _, language := range genreLanguages {
			genres, err := t.catalog.Genres(ctx, contentType, language)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failed++
				t.logger.Warn().Err(err).
					Str("contentType", string(contentType)).
					Str("language", language).
					Msg("Genre refresh failed")
				continue
			}
			t.logger.Debug().
				Str("contentType", string(contentType)).
				Str("language", language).
				Int("count", len(genres)).
				Msg("Refreshed genres")
		}
	}

	if failed > 0 {
		return fmt.Errorf("genre sync finished with %d failed lookups", failed)
	}
	return nil
}

// RegisterGenreSyncTask registers the genre sync task with the scheduler.
func RegisterGenreSyncTask(sched *scheduler.Scheduler, task *GenreSyncTask, cfg config.SchedulerConfig) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "genre-sync",
		Name:        "Genre List Sync",
		Description: "Refreshes cached per-language genre lists from the catalog",
		Cron:        cfg.GenreSyncCron,
		RunOnStart:  true,
		Func:        task.Run,
	})
}
