package repository

import (
	"encoding/json"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// Collection names used by the typed repositories.
const (
	UsersCollection   = "users"
	PlayersCollection = "players"
	GamesCollection   = "games"
	BidsCollection    = "bids"
)

// DefaultSchema declares the queryable fields per collection. Filters and
// order criteria on any other field fail with store.ErrInvalidField.
func DefaultSchema() store.Schema {
	return store.Schema{
		UsersCollection:   {"username", "name", "balance", "points", "player_count"},
		PlayersCollection: {"name", "status", "owner_username", "bid_order", "score", "price", "tags", "country"},
		GamesCollection:   {"user_count", "player_count"},
		BidsCollection:    {"player_name", "bid_order", "winner"},
	}
}

// toDoc converts an entity to its document form through its JSON tags.
func toDoc(v any) (store.Doc, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc store.Doc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// encodeCursor renders a page boundary in its transport form, empty when
// the page has no boundary.
func encodeCursor(c *store.Cursor) string {
	if c == nil {
		return ""
	}
	return c.Encode()
}

// fromDoc converts a document back into an entity.
func fromDoc(doc store.Doc, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
