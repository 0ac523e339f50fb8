package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Brightline-Tech/argus/internal/model"
)

func (s *pgStore) CreateContent(screenID, name, typ, url string, duration int) (model.Content, error) {
	var c model.Content
	query := `
	INSERT INTO content
	(screen_id, name, type, url, duration, position, created_at, updated_at)
	VALUES
	($1, $2, $3, $4, $5,
	 COALESCE((SELECT MAX(position) + 1 FROM content WHERE screen_id = $1), 0),
	 now(), now())
	RETURNING
	id, screen_id, name, type, url, duration, position, created_at, updated_at;`

	if err := s.db.Get(&c, query, screenID, name, typ, url, duration); err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to create content for screen")
		return model.Content{}, err
	}
	return c, nil
}

func (s *pgStore) GetContentByID(id int) (model.Content, error) {
	var c model.Content
	query := `
	SELECT id, screen_id, name, type, url, duration, position, created_at, updated_at
	FROM content
	WHERE id = $1;`

	err := s.db.Get(&c, query, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Int("content_id", id).Msg("failed to get content by id")
	}
	return c, err
}

func (s *pgStore) ListContentForScreen(screenID string) ([]model.Content, error) {
	var all []model.Content
	query := `
	SELECT id, screen_id, name, type, url, duration, position, created_at, updated_at
	FROM content
	WHERE screen_id = $1
	ORDER BY position, id;`

	if err := s.db.Select(&all, query, screenID); err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to list content for screen")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) UpdateContent(id int, name, typ, url *string, duration *int) error {
	_, err := s.db.Exec(`
		UPDATE content
		SET name = COALESCE($2, name),
		type = COALESCE($3, type),
		url = COALESCE($4, url),
		duration = COALESCE($5, duration),
		updated_at = now()
		WHERE id = $1
		`, id, name, typ, url, duration)
	if err != nil {
		log.Error().Err(err).Int("content_id", id).Msg("failed to update content")
	}
	return err
}

func (s *pgStore) DeleteContent(id int) error {
	_, err := s.db.Exec(`DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("content_id", id).Msg("failed to delete content")
	}
	return err
}
