package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/viper"

	"github.com/vinayakp/wcauction/internal/config"
	"github.com/vinayakp/wcauction/internal/infrastructure/database"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
	"github.com/vinayakp/wcauction/internal/infrastructure/repository"
	"github.com/vinayakp/wcauction/internal/infrastructure/seeder"
	"github.com/vinayakp/wcauction/internal/infrastructure/store/docstore"
	"github.com/vinayakp/wcauction/internal/usecase/auction"
)

func main() {
	var (
		configPath = flag.String("config", "./config", "Path to config directory")
		configFile = flag.String("env", "development", "Environment")
		dataDir    = flag.String("data", "./data", "Directory holding users.csv, players.csv and optional scores.csv")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewDatabase(&database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Name:            cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	st := docstore.New(db.GetDB(), repository.DefaultSchema())
	userRepo := repository.NewUserRepository(st)
	playerRepo := repository.NewPlayerRepository(st)
	gameRepo := repository.NewGameRepository(st)
	bidRepo := repository.NewBidRepository(st)

	lg := logger.NewLogger(config.GetEnvironment(), cfg.Log.Level)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	auctionUC := auction.NewAuctionUseCase(st, gameRepo, playerRepo, userRepo, bidRepo, lg, rng)

	newSeeder := seeder.NewSeeder(userRepo, playerRepo, auctionUC, cfg.Auction.InitialBudget)

	log.Println("Starting roster seeding...")
	if err := newSeeder.Run(context.Background(), *dataDir); err != nil {
		log.Fatalf("Failed to seed roster: %v", err)
	}
	log.Println("Roster seeding completed successfully")
}

// loadConfig loads configuration from file
func loadConfig(configPath, configFile string) (*config.Config, error) {
	viper.SetConfigName(fmt.Sprintf("config.%s", configFile))
	viper.SetConfigType("yml")
	viper.AddConfigPath(configPath)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &cfg, nil
}
