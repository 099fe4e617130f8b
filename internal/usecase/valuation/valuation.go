// Package valuation estimates what a player is worth at auction and how
// much of a budget a bidder should commit per round. All functions are pure.
package valuation

import (
	"math"

	"github.com/vinayakp/wcauction/internal/domain"
)

// Scoring weights per recorded event.
const (
	runWeight    = 1.0
	wicketWeight = 20.0
	catchWeight  = 8.0
)

// ZeroMatchValue is the floor for players with no recorded matches, kept
// above zero so suggested-bid sizing never divides by a zero value.
const ZeroMatchValue = 50.0

// Small-sample discount: a player's per-match rate carries minAdjustment of
// its weight at zero matches and full weight at fullSampleMatches.
const (
	minAdjustment     = 0.6
	fullSampleMatches = 100.0
)

// Play-probability factors derived from squad role tags.
const (
	captainFactor = 1.25
	backupFactor  = 0.5
)

// Tags recognized by the play-probability factor.
const (
	TagCaptain = "captain"
	TagBackup  = "backup"
)

// Value estimates a player's auction worth: weighted per-match scoring rate,
// scaled by the matches the player is still expected to play and by how
// likely they are to be fielded, discounted for small samples.
func Value(p *domain.Player) float64 {
	if p.Matches <= 0 {
		return ZeroMatchValue
	}

	perMatch := (float64(p.Runs)*runWeight +
		float64(p.Wickets)*wicketWeight +
		float64(p.Catches)*catchWeight) / float64(p.Matches)

	value := perMatch * float64(remainingMatches(p.BidOrder)) * playFactor(p) * sampleAdjustment(p.Matches)
	return math.Round(value*100) / 100
}

// remainingMatches estimates how many matches a player has left in the
// tournament from their invitation tier. Earlier tiers hold the first-choice
// squad, expected to play deeper into the tournament.
func remainingMatches(bidOrder int) int {
	switch {
	case bidOrder <= 50:
		return 10
	case bidOrder <= 100:
		return 7
	case bidOrder <= 150:
		return 5
	default:
		return 3
	}
}

func playFactor(p *domain.Player) float64 {
	switch {
	case p.HasTag(TagCaptain):
		return captainFactor
	case p.HasTag(TagBackup):
		return backupFactor
	default:
		return 1.0
	}
}

func sampleAdjustment(matches int) float64 {
	sample := math.Min(float64(matches), fullSampleMatches)
	return minAdjustment + (1-minAdjustment)*sample/fullSampleMatches
}

// AvgPlayerBid suggests a per-player budget for the current round. With no
// round open it spreads the remaining balance evenly over the remaining
// players; with a round open it weights the spread by the current player's
// share of the remaining value. The result is clamped to
// [0, min(initialBudget, total_balance)].
func AvgPlayerBid(game *domain.Game, player *domain.Player, initialBudget int) float64 {
	if game == nil || game.PlayerToBid <= 0 {
		return 0
	}

	suggestion := float64(game.TotalBalance) / float64(game.PlayerToBid)
	if game.BidInProgress && player != nil && game.RemainingValue > 0 {
		suggestion = float64(game.TotalBalance) * player.Value / game.RemainingValue
	}

	limit := math.Min(float64(initialBudget), float64(game.TotalBalance))
	return math.Max(0, math.Min(suggestion, limit))
}
