package seeder

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/repository"
	"github.com/vinayakp/wcauction/internal/infrastructure/store/memstore"
	"github.com/vinayakp/wcauction/internal/usecase/auction"
	"github.com/vinayakp/wcauction/internal/usecase/user"
)

const usersCSV = `username,name,password,color,bg_color
arjun,Team Arjun,secret123,#fff,#245
bala,Team Bala,hunter2,#000,#733
`

const playersCSV = `name,country,type,tags,bid_order,matches,runs,catches,balls,wickets
Rohit Sharma,India,Batsman,captain;batsman,1,100,4000,40,0,0
Jasprit Bumrah,India,Bowler,bowler,2,60,100,20,3000,120
Newcomer,India,All-rounder,,3,0,0,0,0,0
`

const scoresCSV = `player,score
Rohit Sharma,250
`

func writeDataDir(t *testing.T, withScores bool) string {
	t.Helper()
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte(usersCSV), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "players.csv"), []byte(playersCSV), 0o644))
	if withScores {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, "scores.csv"), []byte(scoresCSV), 0o644))
	}
	return dir
}

func newTestSeeder(t *testing.T) (*Seeder, domain.UserRepository, domain.PlayerRepository, domain.GameRepository) {
	t.Helper()
	s := memstore.New(repository.DefaultSchema())
	userRepo := repository.NewUserRepository(s)
	playerRepo := repository.NewPlayerRepository(s)
	gameRepo := repository.NewGameRepository(s)
	bidRepo := repository.NewBidRepository(s)
	auctionUC := auction.NewAuctionUseCase(s, gameRepo, playerRepo, userRepo, bidRepo,
		logger.NewLogger("test", "error"), rand.New(rand.NewSource(1)))
	return NewSeeder(userRepo, playerRepo, auctionUC, 10000), userRepo, playerRepo, gameRepo
}

func TestRunSeedsRosterAndInitializesGame(t *testing.T) {
	seeder, userRepo, playerRepo, gameRepo := newTestSeeder(t)
	ctx := context.Background()

	assert.NoError(t, seeder.Run(ctx, writeDataDir(t, false)))

	u, err := userRepo.Get(ctx, "arjun")
	assert.NoError(t, err)
	assert.Equal(t, "Team Arjun", u.Name)
	assert.Equal(t, 10000, u.Balance)
	assert.Equal(t, user.HashPassword("secret123"), u.PasswordHash)

	p, err := playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, domain.PlayerAvailable, p.Status)
	assert.Equal(t, []string{"captain", "batsman"}, p.Tags)
	assert.Equal(t, 100, p.Matches)
	assert.Greater(t, p.Value, 0.0)

	// A player with no recorded matches still gets the floor value.
	rookie, err := playerRepo.GetByName(ctx, "Newcomer")
	assert.NoError(t, err)
	assert.Empty(t, rookie.Tags)
	assert.Greater(t, rookie.Value, 0.0)

	game, err := gameRepo.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, game.UserCount)
	assert.Equal(t, 3, game.PlayerCount)
	assert.Equal(t, 20000, game.TotalBalance)
}

func TestRunAppliesOptionalScores(t *testing.T) {
	seeder, _, playerRepo, _ := newTestSeeder(t)
	ctx := context.Background()

	assert.NoError(t, seeder.Run(ctx, writeDataDir(t, true)))

	p, err := playerRepo.GetByName(ctx, "Rohit Sharma")
	assert.NoError(t, err)
	assert.Equal(t, 250.0, p.Score)
}

func TestSeedPlayersRejectsBadNumbers(t *testing.T) {
	seeder, _, _, _ := newTestSeeder(t)
	dir := t.TempDir()
	bad := "name,country,type,tags,bid_order,matches,runs,catches,balls,wickets\nX,IN,Bat,,one,0,0,0,0,0\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "players.csv"), []byte(bad), 0o644))

	err := seeder.SeedPlayers(context.Background(), filepath.Join(dir, "players.csv"))
	assert.Error(t, err)
}

func TestSeedUsersMissingFile(t *testing.T) {
	seeder, _, _, _ := newTestSeeder(t)
	err := seeder.SeedUsers(context.Background(), filepath.Join(t.TempDir(), "users.csv"))
	assert.Error(t, err)
}
