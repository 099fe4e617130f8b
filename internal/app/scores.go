package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/external/scores"
	"github.com/vinayakp/wcauction/internal/infrastructure/lock"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/scoresync"
)

func (a *application) InitScoreFeed() domain.ScoreFeed {
	return scores.NewScoreFeed(a.config.Scores.URL, a.config.Scores.APIKey)
}

func (a *application) InitLockManager(lg *logger.Logger) *lock.KeyedLockManager {
	return lock.NewKeyedLockManager(lg)
}

func (a *application) InitScorePoller(
	feed domain.ScoreFeed,
	auction domain.AuctionUseCase,
	locks *lock.KeyedLockManager,
	lg *logger.Logger,
) *scoresync.Poller {
	return scoresync.NewPoller(feed, auction, locks, lg, a.config.Scores.SyncInterval)
}

// RunScorePoller binds the score sync poller to the fx lifecycle. The
// poller only runs when a feed URL and sync interval are configured.
func (a *application) RunScorePoller(lc fx.Lifecycle, poller *scoresync.Poller) {
	if a.config.Scores.URL == "" || a.config.Scores.SyncInterval <= 0 {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			poller.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			return nil
		},
	})
}
