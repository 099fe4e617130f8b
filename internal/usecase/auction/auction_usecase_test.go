package auction

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/repository"
	"github.com/vinayakp/wcauction/internal/infrastructure/store"
	"github.com/vinayakp/wcauction/internal/infrastructure/store/memstore"
)

type fixture struct {
	store      store.Store
	userRepo   domain.UserRepository
	playerRepo domain.PlayerRepository
	gameRepo   domain.GameRepository
	bidRepo    domain.BidRepository
	auction    domain.AuctionUseCase
}

func newFixture(t *testing.T, seed int64) *fixture {
	t.Helper()
	s := memstore.New(repository.DefaultSchema())
	f := &fixture{
		store:      s,
		userRepo:   repository.NewUserRepository(s),
		playerRepo: repository.NewPlayerRepository(s),
		gameRepo:   repository.NewGameRepository(s),
		bidRepo:    repository.NewBidRepository(s),
	}
	f.auction = NewAuctionUseCase(
		s, f.gameRepo, f.playerRepo, f.userRepo, f.bidRepo,
		logger.NewLogger("test", "error"),
		rand.New(rand.NewSource(seed)),
	)
	return f
}

func (f *fixture) seed(t *testing.T, users []*domain.User, players []*domain.Player) {
	t.Helper()
	ctx := context.Background()
	if len(users) > 0 {
		assert.NoError(t, f.userRepo.CreateBatch(ctx, users))
	}
	if len(players) > 0 {
		assert.NoError(t, f.playerRepo.CreateBatch(ctx, players))
	}
}

func twoUsers() []*domain.User {
	return []*domain.User{
		{Username: "arjun", Name: "Team Arjun", Balance: 10000},
		{Username: "bala", Name: "Team Bala", Balance: 10000},
	}
}

func onePlayer() []*domain.Player {
	return []*domain.Player{
		{Name: "Rohit Sharma", Status: domain.PlayerAvailable, BidOrder: 1, Score: 120, Value: 500},
	}
}

func TestInitGameRequiresRoster(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.auction.InitGame(ctx)
	assert.True(t, domain.HasCode(err, domain.ErrCodeGameNotReady))

	f.seed(t, twoUsers(), nil)
	_, err = f.auction.InitGame(ctx)
	assert.True(t, domain.HasCode(err, domain.ErrCodeGameNotReady))
}

func TestInitGameComputesSnapshot(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), []*domain.Player{
		{Name: "Rohit Sharma", Status: domain.PlayerAvailable, BidOrder: 1, Value: 500},
		{Name: "Virat Kohli", Status: domain.PlayerAvailable, BidOrder: 2, Value: 450},
	})

	game, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, game.UserCount)
	assert.Equal(t, 2, game.PlayerCount)
	assert.Equal(t, 2, game.PlayerToBid)
	assert.Equal(t, 20000, game.TotalBalance)
	assert.InDelta(t, 950, game.RemainingValue, 0.001)

	// Re-running recomputes the same snapshot.
	again, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	assert.Equal(t, game.TotalBalance, again.TotalBalance)
}

func TestFullRoundWithWinner(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)

	bid, err := f.auction.StartBidding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Rohit Sharma", bid.PlayerName)

	game, err := f.auction.GameStatus(ctx)
	assert.NoError(t, err)
	assert.True(t, game.BidInProgress)
	assert.Equal(t, "Rohit Sharma", game.PlayerInBidding)
	assert.Equal(t, 2, game.UserToBid)

	result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 2000)
	assert.NoError(t, err)
	assert.False(t, result.RoundComplete)

	// The final response resolves the round; with the roster exhausted the
	// result still reports the resolution alongside the exhaustion code.
	result, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", 1500)
	assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))
	assert.NotNil(t, result)
	assert.True(t, result.RoundComplete)
	assert.Equal(t, "arjun", result.Winner)
	assert.Equal(t, 2000, result.WinningPrice)
	assert.Nil(t, result.NextBid)

	winner, err := f.userRepo.Get(ctx, "arjun")
	assert.NoError(t, err)
	assert.Equal(t, 8000, winner.Balance)
	assert.Equal(t, 1, winner.PlayerCount)
	assert.Equal(t, 120.0, winner.Points)

	loser, err := f.userRepo.Get(ctx, "bala")
	assert.NoError(t, err)
	assert.Equal(t, 10000, loser.Balance)

	player, err := f.playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, domain.PlayerPurchased, player.Status)
	assert.Equal(t, "arjun", player.OwnerUsername)
	assert.Equal(t, 2000, player.Price)
	assert.NotNil(t, player.Owner)
	assert.Equal(t, "Team Arjun", player.Owner.Name)

	game, err = f.auction.GameStatus(ctx)
	assert.NoError(t, err)
	assert.False(t, game.BidInProgress)
	assert.Equal(t, 18000, game.TotalBalance)
	assert.Equal(t, 0, game.PlayerToBid)
	assert.Equal(t, "Rohit Sharma", game.LastPlayer)
	assert.Equal(t, "Team Arjun", game.LastWinner)
	assert.Equal(t, 2000, game.LastPrice)
	assert.Empty(t, game.UsersToBid)
}

func TestRoundChainsToNextPlayer(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), []*domain.Player{
		{Name: "Rohit Sharma", Status: domain.PlayerAvailable, BidOrder: 1, Value: 500},
		{Name: "Virat Kohli", Status: domain.PlayerAvailable, BidOrder: 2, Value: 450},
	})
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)

	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 1000)
	assert.NoError(t, err)
	result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", domain.AmountPass)
	assert.NoError(t, err)
	assert.True(t, result.RoundComplete)
	assert.Equal(t, "arjun", result.Winner)
	assert.NotNil(t, result.NextBid)
	assert.Equal(t, "Virat Kohli", result.NextBid.PlayerName)

	game, err := f.auction.GameStatus(ctx)
	assert.NoError(t, err)
	assert.True(t, game.BidInProgress)
	assert.Equal(t, "Virat Kohli", game.PlayerInBidding)
	assert.Equal(t, 1, game.PlayerToBid)
}

func TestAllPassMarksUnsold(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)

	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", domain.AmountPass)
	assert.NoError(t, err)
	result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", domain.AmountPass)
	assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))
	assert.True(t, result.Unsold)
	assert.Empty(t, result.Winner)

	player, err := f.playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, domain.PlayerUnsold, player.Status)
	assert.Equal(t, 0, player.Price)

	game, err := f.auction.GameStatus(ctx)
	assert.NoError(t, err)
	assert.Equal(t, UnsoldWinner, game.LastWinner)
	assert.Equal(t, 0, game.LastPrice)
	assert.Equal(t, 20000, game.TotalBalance)
}

func TestZeroBalanceUserAutoPasses(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, []*domain.User{
		{Username: "arjun", Name: "Team Arjun", Balance: 10000},
		{Username: "broke", Name: "Team Broke", Balance: 0},
	}, onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)

	bid, err := f.auction.StartBidding(ctx)
	assert.NoError(t, err)
	assert.Len(t, bid.BidMap, 1)
	assert.Equal(t, "broke", bid.BidMap[0].Username)
	assert.Equal(t, domain.AmountNoBalance, bid.BidMap[0].Amount)

	game, err := f.auction.GameStatus(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, game.UserToBid)
	assert.False(t, game.UserPending("broke"))

	// The solvent user's response alone completes the round.
	result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 500)
	assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))
	assert.True(t, result.RoundComplete)
	assert.Equal(t, "arjun", result.Winner)
}

func TestAcceptBidValidation(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), []*domain.Player{
		{Name: "Rohit Sharma", Status: domain.PlayerAvailable, BidOrder: 1, Value: 500},
		{Name: "Virat Kohli", Status: domain.PlayerAvailable, BidOrder: 2, Value: 450},
	})
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)

	// No round open yet.
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 100)
	assert.True(t, domain.HasCode(err, domain.ErrCodeBiddingNotStarted))

	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		player   string
		username string
		amount   int
		code     string
	}{
		{"zero_amount", "Rohit Sharma", "arjun", 0, domain.ErrCodeInvalidAmount},
		{"negative_amount", "Rohit Sharma", "arjun", -5, domain.ErrCodeInvalidAmount},
		{"missing_player", "", "arjun", 100, domain.ErrCodeRequiredField},
		{"unknown_user", "Rohit Sharma", "ghost", 100, domain.ErrCodeAlreadyBid},
		{"over_balance", "Rohit Sharma", "arjun", 10001, domain.ErrCodeInsufficientBalance},
		{"player_not_invited", "Virat Kohli", "arjun", 100, domain.ErrCodePlayerNotInvited},
		{"unknown_player", "Nobody", "arjun", 100, domain.ErrCodePlayerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auction.AcceptBid(ctx, tt.player, tt.username, tt.amount)
			assert.True(t, domain.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDoubleAcceptRejected(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)

	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 500)
	assert.NoError(t, err)

	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 900)
	assert.True(t, domain.HasCode(err, domain.ErrCodeAlreadyBid))
}

// conflictStore fails every transaction the way an exhausted retry loop does.
type conflictStore struct {
	store.Store
}

func (conflictStore) RunTransaction(context.Context, func(store.Tx) error) error {
	return store.ErrConflict
}

func TestAcceptBidConflictSurfacesRetryableCode(t *testing.T) {
	f := newFixture(t, 1)
	uc := NewAuctionUseCase(
		conflictStore{f.store}, f.gameRepo, f.playerRepo, f.userRepo, f.bidRepo,
		logger.NewLogger("test", "error"),
		rand.New(rand.NewSource(1)),
	)

	_, err := uc.AcceptBid(context.Background(), "Rohit Sharma", "arjun", 500)
	assert.True(t, domain.HasCode(err, domain.ErrCodeTxConflict), "got %v", err)
	assert.False(t, domain.HasCode(err, domain.ErrCodeStore))
}

func TestInviteGuards(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), []*domain.Player{
		{Name: "Rohit Sharma", Status: domain.PlayerAvailable, BidOrder: 1, Value: 500},
		{Name: "Virat Kohli", Status: domain.PlayerAvailable, BidOrder: 2, Value: 450},
	})
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)

	_, err = f.auction.InviteBid(ctx, "Rohit Sharma")
	assert.NoError(t, err)

	// Only one round at a time.
	_, err = f.auction.InviteBid(ctx, "Virat Kohli")
	assert.True(t, domain.HasCode(err, domain.ErrCodeBidInProgress))
	_, err = f.auction.StartBidding(ctx)
	assert.True(t, domain.HasCode(err, domain.ErrCodeBidInProgress))

	// A player already through bidding cannot be re-invited.
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 100)
	assert.NoError(t, err)
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", domain.AmountPass)
	assert.NoError(t, err)
	_, err = f.auction.InviteBid(ctx, "Rohit Sharma")
	assert.True(t, domain.HasCode(err, domain.ErrCodePlayerNotAvailable))
}

func TestPauseAndResume(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)

	assert.True(t, domain.HasCode(f.auction.PauseBidding(ctx), domain.ErrCodeBiddingNotStarted))
	assert.True(t, domain.HasCode(f.auction.ResumeBidding(ctx), domain.ErrCodeBiddingNotStarted))

	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 500)
	assert.NoError(t, err)

	assert.NoError(t, f.auction.PauseBidding(ctx))
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", 600)
	assert.True(t, domain.HasCode(err, domain.ErrCodeBiddingNotStarted))

	// Responses recorded before the pause survive it.
	assert.NoError(t, f.auction.ResumeBidding(ctx))
	assert.True(t, domain.HasCode(f.auction.ResumeBidding(ctx), domain.ErrCodeBidInProgress))

	result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", 600)
	assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))
	assert.Equal(t, "bala", result.Winner)
	assert.Equal(t, 600, result.WinningPrice)
}

func TestTieBreakPicksAmongHighest(t *testing.T) {
	const rounds = 200

	winners := map[string]int{}
	for seed := int64(0); seed < rounds; seed++ {
		f := newFixture(t, seed)
		ctx := context.Background()
		f.seed(t, []*domain.User{
			{Username: "arjun", Name: "Team Arjun", Balance: 10000},
			{Username: "bala", Name: "Team Bala", Balance: 10000},
			{Username: "chitra", Name: "Team Chitra", Balance: 10000},
		}, onePlayer())
		_, err := f.auction.InitGame(ctx)
		assert.NoError(t, err)
		_, err = f.auction.StartBidding(ctx)
		assert.NoError(t, err)

		_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 3000)
		assert.NoError(t, err)
		_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", 3000)
		assert.NoError(t, err)
		result, err := f.auction.AcceptBid(ctx, "Rohit Sharma", "chitra", 1000)
		assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))

		assert.Contains(t, []string{"arjun", "bala"}, result.Winner)
		assert.Equal(t, 3000, result.WinningPrice)
		winners[result.Winner]++
	}

	// The tied bidders split the wins roughly evenly; 70/200 is over four
	// standard deviations below a fair split.
	assert.Len(t, winners, 2)
	assert.Greater(t, winners["arjun"], 70)
	assert.Greater(t, winners["bala"], 70)
	assert.Equal(t, rounds, winners["arjun"]+winners["bala"])
}

func TestUpdateScoresSyncsPoints(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.seed(t, twoUsers(), onePlayer())
	_, err := f.auction.InitGame(ctx)
	assert.NoError(t, err)
	_, err = f.auction.StartBidding(ctx)
	assert.NoError(t, err)
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "arjun", 1000)
	assert.NoError(t, err)
	_, err = f.auction.AcceptBid(ctx, "Rohit Sharma", "bala", domain.AmountPass)
	assert.True(t, domain.HasCode(err, domain.ErrCodeNoMorePlayers))

	err = f.auction.UpdateScores(ctx, []domain.ScoreUpdate{
		{Player: "Rohit Sharma", Score: 250},
		{Player: "Unknown Player", Score: 10},
	})
	assert.NoError(t, err)

	owner, err := f.userRepo.Get(ctx, "arjun")
	assert.NoError(t, err)
	assert.Equal(t, 250.0, owner.Points)

	player, err := f.playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, 250.0, player.Score)
	assert.NotNil(t, player.Owner)
	assert.Equal(t, 250.0, player.Owner.Points)
}

func TestUpdateScoresValidation(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	err := f.auction.UpdateScores(ctx, nil)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidScoreData))

	err = f.auction.UpdateScores(ctx, []domain.ScoreUpdate{{Player: "", Score: 5}})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidScoreData))

	err = f.auction.UpdateScores(ctx, []domain.ScoreUpdate{{Player: "X", Score: -1}})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidScoreData))
}
