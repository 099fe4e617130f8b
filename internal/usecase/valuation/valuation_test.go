package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinayakp/wcauction/internal/domain"
)

func TestValueZeroMatches(t *testing.T) {
	p := &domain.Player{Name: "Debutant", Matches: 0, BidOrder: 1}
	assert.Equal(t, ZeroMatchValue, Value(p))
}

func TestValue(t *testing.T) {
	tests := []struct {
		name   string
		player *domain.Player
		want   float64
	}{
		{
			// 100 runs over 100 matches, full sample, first tier.
			name:   "steady_batsman",
			player: &domain.Player{Matches: 100, Runs: 100, BidOrder: 10},
			want:   10,
		},
		{
			// Per-match 1, tier 10, captain factor on a full sample.
			name:   "captain_uplift",
			player: &domain.Player{Matches: 100, Runs: 100, BidOrder: 10, Tags: []string{TagCaptain}},
			want:   12.5,
		},
		{
			name:   "backup_discount",
			player: &domain.Player{Matches: 100, Runs: 100, BidOrder: 10, Tags: []string{TagBackup}},
			want:   5,
		},
		{
			// Wickets weigh 20: 10 wickets in 10 matches = 20/match,
			// small sample keeps 64% of it, tier 10.
			name:   "small_sample_bowler",
			player: &domain.Player{Matches: 10, Wickets: 10, BidOrder: 10},
			want:   128,
		},
		{
			// Catches weigh 8; late tier plays 3 matches.
			name:   "late_tier_fielder",
			player: &domain.Player{Matches: 100, Catches: 25, BidOrder: 160},
			want:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Value(tt.player), 0.001)
		})
	}
}

func TestRemainingMatchesTiers(t *testing.T) {
	assert.Equal(t, 10, remainingMatches(1))
	assert.Equal(t, 10, remainingMatches(50))
	assert.Equal(t, 7, remainingMatches(51))
	assert.Equal(t, 7, remainingMatches(100))
	assert.Equal(t, 5, remainingMatches(101))
	assert.Equal(t, 5, remainingMatches(150))
	assert.Equal(t, 3, remainingMatches(151))
}

func TestSampleAdjustmentSaturates(t *testing.T) {
	assert.InDelta(t, minAdjustment, sampleAdjustment(0), 0.001)
	assert.InDelta(t, 0.8, sampleAdjustment(50), 0.001)
	assert.InDelta(t, 1.0, sampleAdjustment(100), 0.001)
	assert.InDelta(t, 1.0, sampleAdjustment(500), 0.001)
}

func TestAvgPlayerBid(t *testing.T) {
	game := &domain.Game{
		TotalBalance:   20000,
		PlayerToBid:    10,
		RemainingValue: 1000,
	}

	// No round open: even spread over the remaining players.
	assert.InDelta(t, 2000, AvgPlayerBid(game, nil, 10000), 0.001)

	// Round open: spread weighted by the player's share of remaining value.
	game.BidInProgress = true
	player := &domain.Player{Value: 100}
	assert.InDelta(t, 2000, AvgPlayerBid(game, player, 10000), 0.001)

	// A star player's suggestion is clamped to the initial budget.
	star := &domain.Player{Value: 900}
	assert.InDelta(t, 10000, AvgPlayerBid(game, star, 10000), 0.001)

	// And never exceeds the money actually left at the table.
	game.TotalBalance = 500
	assert.InDelta(t, 450, AvgPlayerBid(game, star, 10000), 0.001)

	// Exhausted roster suggests nothing.
	assert.Equal(t, 0.0, AvgPlayerBid(&domain.Game{}, nil, 10000))
	assert.Equal(t, 0.0, AvgPlayerBid(nil, nil, 10000))
}
