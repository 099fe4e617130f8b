package scoresync

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/domain/mocks"
	"github.com/vinayakp/wcauction/internal/infrastructure/lock"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/repository"
	"github.com/vinayakp/wcauction/internal/infrastructure/store/memstore"
	"github.com/vinayakp/wcauction/internal/usecase/auction"
)

func newTestPoller(t *testing.T, feed domain.ScoreFeed) (*Poller, domain.UserRepository, domain.PlayerRepository) {
	t.Helper()
	s := memstore.New(repository.DefaultSchema())
	userRepo := repository.NewUserRepository(s)
	playerRepo := repository.NewPlayerRepository(s)
	gameRepo := repository.NewGameRepository(s)
	bidRepo := repository.NewBidRepository(s)
	lg := logger.NewLogger("test", "error")
	auctionUC := auction.NewAuctionUseCase(s, gameRepo, playerRepo, userRepo, bidRepo,
		lg, rand.New(rand.NewSource(1)))
	poller := NewPoller(feed, auctionUC, lock.NewKeyedLockManager(lg), lg, time.Minute)
	return poller, userRepo, playerRepo
}

func TestSyncOnceAppliesDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed := mocks.NewMockScoreFeed(ctrl)
	poller, userRepo, playerRepo := newTestPoller(t, feed)
	ctx := context.Background()

	assert.NoError(t, userRepo.Create(ctx, &domain.User{Username: "arjun", Name: "Team Arjun"}))
	assert.NoError(t, playerRepo.Create(ctx, &domain.Player{
		Name:          "Rohit Sharma",
		Status:        domain.PlayerPurchased,
		OwnerUsername: "arjun",
		BidOrder:      1,
	}))

	feed.EXPECT().FetchScores(gomock.Any()).Return([]domain.ScoreUpdate{
		{Player: "Rohit Sharma", Score: 250},
	}, nil)

	assert.NoError(t, poller.SyncOnce(ctx))

	p, err := playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, 250.0, p.Score)

	owner, err := userRepo.Get(ctx, "arjun")
	assert.NoError(t, err)
	assert.Equal(t, 250.0, owner.Points)
}

func TestSyncOnceEmptyDeliveryIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed := mocks.NewMockScoreFeed(ctrl)
	poller, _, _ := newTestPoller(t, feed)

	feed.EXPECT().FetchScores(gomock.Any()).Return(nil, nil)
	assert.NoError(t, poller.SyncOnce(context.Background()))
}

func TestSyncOncePropagatesFeedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed := mocks.NewMockScoreFeed(ctrl)
	poller, _, _ := newTestPoller(t, feed)

	feed.EXPECT().FetchScores(gomock.Any()).Return(nil, errors.New("feed down"))
	assert.Error(t, poller.SyncOnce(context.Background()))
}

func TestSyncOnceSkipsWhenLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed := mocks.NewMockScoreFeed(ctrl)
	poller, _, _ := newTestPoller(t, feed)

	// Another run holds the lock; the feed must not be touched.
	assert.True(t, poller.locks.TryLock(syncLockKey))
	defer poller.locks.Unlock(syncLockKey)

	assert.NoError(t, poller.SyncOnce(context.Background()))
}

func TestStartStopIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	feed := mocks.NewMockScoreFeed(ctrl)
	poller, _, _ := newTestPoller(t, feed)

	poller.Start()
	poller.Start()
	poller.Stop()
	poller.Stop()
}
