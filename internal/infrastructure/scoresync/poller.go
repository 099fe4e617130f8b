package scoresync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/lock"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

const syncLockKey = "score-sync"

// Poller periodically pulls the external score feed and applies the
// delivery through the auction engine. A keyed lock keeps runs from
// overlapping when a sync takes longer than the poll interval.
type Poller struct {
	feed     domain.ScoreFeed
	auction  domain.AuctionUseCase
	locks    *lock.KeyedLockManager
	logger   *logger.Logger
	interval time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	isRunning bool
}

// NewPoller creates a new score sync poller
func NewPoller(
	feed domain.ScoreFeed,
	auction domain.AuctionUseCase,
	locks *lock.KeyedLockManager,
	lg *logger.Logger,
	interval time.Duration,
) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		feed:     feed,
		auction:  auction,
		locks:    locks,
		logger:   lg,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SyncOnce pulls the feed and applies the scores it delivers. Returns
// without error when another sync already holds the lock or the feed
// delivers nothing.
func (p *Poller) SyncOnce(ctx context.Context) error {
	if !p.locks.TryLock(syncLockKey) {
		p.logger.Warn("Score sync already in progress, skipping run")
		return nil
	}
	defer p.locks.Unlock(syncLockKey)

	scores, err := p.feed.FetchScores(ctx)
	if err != nil {
		p.logger.Error("Failed to fetch scores from feed", zap.Error(err))
		return err
	}

	if len(scores) == 0 {
		p.logger.Debug("Score feed delivered no updates")
		return nil
	}

	if err := p.auction.UpdateScores(ctx, scores); err != nil {
		p.logger.Error("Failed to apply score delivery", zap.Int("count", len(scores)), zap.Error(err))
		return err
	}

	p.logger.Info("Applied score delivery", zap.Int("count", len(scores)))
	return nil
}

// Start starts the background polling loop
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		p.logger.Warn("Score sync poller is already running")
		return
	}

	p.isRunning = true
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.logger.Info("Score sync polling started", zap.Duration("interval", p.interval))

		for {
			select {
			case <-p.ctx.Done():
				p.logger.Info("Score sync polling stopped")
				return
			case <-ticker.C:
				if err := p.SyncOnce(p.ctx); err != nil {
					p.logger.Error("Score sync run failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop stops the background polling loop
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	p.cancel()
	p.wg.Wait()
	p.isRunning = false
}
