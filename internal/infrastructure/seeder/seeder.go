// Package seeder ingests the auction roster from CSV files and prepares the
// game for bidding.
package seeder

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vinayakp/wcauction/internal/domain"
	"github.com/vinayakp/wcauction/internal/usecase/user"
	"github.com/vinayakp/wcauction/internal/usecase/valuation"
)

// Seeder materializes roster CSV files as entities
type Seeder struct {
	userRepo      domain.UserRepository
	playerRepo    domain.PlayerRepository
	auction       domain.AuctionUseCase
	initialBudget int
}

// NewSeeder creates a new seeder instance
func NewSeeder(userRepo domain.UserRepository, playerRepo domain.PlayerRepository, auction domain.AuctionUseCase, initialBudget int) *Seeder {
	if initialBudget <= 0 {
		initialBudget = domain.DefaultInitialBudget
	}
	return &Seeder{
		userRepo:      userRepo,
		playerRepo:    playerRepo,
		auction:       auction,
		initialBudget: initialBudget,
	}
}

// Run ingests users.csv and players.csv from dir, plus scores.csv when
// present, then initializes the game.
func (s *Seeder) Run(ctx context.Context, dir string) error {
	if err := s.SeedUsers(ctx, filepath.Join(dir, "users.csv")); err != nil {
		return err
	}
	if err := s.SeedPlayers(ctx, filepath.Join(dir, "players.csv")); err != nil {
		return err
	}

	scoresPath := filepath.Join(dir, "scores.csv")
	if _, err := os.Stat(scoresPath); err == nil {
		if err := s.SeedScores(ctx, scoresPath); err != nil {
			return err
		}
	}

	log.Printf("Initializing game from seeded roster...")
	game, err := s.auction.InitGame(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	log.Printf("Game initialized: %d users, %d players, total balance %d",
		game.UserCount, game.PlayerCount, game.TotalBalance)
	return nil
}

// SeedUsers loads user rows: username,name,password,color,bg_color.
func (s *Seeder) SeedUsers(ctx context.Context, path string) error {
	log.Printf("Seeding users from %s...", path)

	rows, err := readCSV(path, 5)
	if err != nil {
		return err
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, &domain.User{
			Username:     row[0],
			Name:         row[1],
			PasswordHash: user.HashPassword(row[2]),
			Balance:      s.initialBudget,
			Color:        row[3],
			BgColor:      row[4],
		})
	}

	if err := s.userRepo.CreateBatch(ctx, users); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users", len(users))
	return nil
}

// SeedPlayers loads player rows:
// name,country,type,tags,bid_order,matches,runs,catches,balls,wickets.
// Tags are ";"-separated; the auction value is computed at upload.
func (s *Seeder) SeedPlayers(ctx context.Context, path string) error {
	log.Printf("Seeding players from %s...", path)

	rows, err := readCSV(path, 10)
	if err != nil {
		return err
	}

	players := make([]*domain.Player, 0, len(rows))
	for i, row := range rows {
		nums := make([]int, 6)
		for j, field := range row[4:] {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return fmt.Errorf("players row %d: bad numeric field %q: %w", i+1, field, err)
			}
			nums[j] = n
		}

		p := &domain.Player{
			Name:     row[0],
			Country:  row[1],
			Type:     row[2],
			Status:   domain.PlayerAvailable,
			BidOrder: nums[0],
			Matches:  nums[1],
			Runs:     nums[2],
			Catches:  nums[3],
			Balls:    nums[4],
			Wickets:  nums[5],
		}
		if tags := strings.TrimSpace(row[3]); tags != "" {
			p.Tags = strings.Split(tags, ";")
		}
		p.Value = valuation.Value(p)
		players = append(players, p)
	}

	if err := s.playerRepo.CreateBatch(ctx, players); err != nil {
		return fmt.Errorf("failed to seed players: %w", err)
	}
	log.Printf("Seeded %d players", len(players))
	return nil
}

// SeedScores loads score rows (player,score) and applies them through the
// auction engine so user points stay consistent.
func (s *Seeder) SeedScores(ctx context.Context, path string) error {
	log.Printf("Seeding scores from %s...", path)

	rows, err := readCSV(path, 2)
	if err != nil {
		return err
	}

	updates := make([]domain.ScoreUpdate, 0, len(rows))
	for i, row := range rows {
		score, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return fmt.Errorf("scores row %d: bad score %q: %w", i+1, row[1], err)
		}
		updates = append(updates, domain.ScoreUpdate{Player: row[0], Score: score})
	}

	if err := s.auction.UpdateScores(ctx, updates); err != nil {
		return fmt.Errorf("failed to apply scores: %w", err)
	}
	log.Printf("Seeded %d scores", len(updates))
	return nil
}

// readCSV reads path and returns its data rows, skipping a header row when
// the first field is non-numeric and matches no data shape.
func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) > 0 && looksLikeHeader(records[0]) {
		records = records[1:]
	}
	return records, nil
}

func looksLikeHeader(row []string) bool {
	for _, field := range row {
		if strings.EqualFold(field, "username") || strings.EqualFold(field, "name") || strings.EqualFold(field, "player") {
			return true
		}
	}
	return false
}
