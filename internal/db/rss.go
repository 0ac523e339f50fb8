package db

import (
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Brightline-Tech/argus/internal/model"
)

func (s *pgStore) ListRSSForScreen(screenID string) ([]model.RSSItem, error) {
	var all []model.RSSItem
	err := s.db.Select(&all, `
		SELECT id, screen_id, title, link, published, created_at
		FROM rss_items
		WHERE screen_id = $1
		ORDER BY published DESC, id
		`, screenID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to list rss items for screen")
		return nil, err
	}
	return all, nil
}

// ReplaceRSSForScreen swaps the screen's ticker items for a fresh feed
// snapshot in one transaction. The feed worker calls this after each
// successful poll.
func (s *pgStore) ReplaceRSSForScreen(screenID string, items []model.RSSItem) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rss_items WHERE screen_id = $1`, screenID); err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to clear rss items")
		return err
	}
	for _, item := range items {
		if _, err := tx.Exec(`
			INSERT INTO rss_items (screen_id, title, link, published, created_at)
			VALUES ($1, $2, $3, $4, now())
			`, screenID, item.Title, item.Link, item.Published); err != nil {
			log.Error().Err(err).Str("screen_id", screenID).Msg("failed to insert rss item")
			return err
		}
	}
	return tx.Commit()
}
