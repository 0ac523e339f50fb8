package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Brightline-Tech/argus/internal/model"
)

func (s *pgStore) ListMessagesForScreen(screenID string) ([]model.Message, error) {
	var all []model.Message
	err := s.db.Select(&all, `
		SELECT id, screen_id, body, position, created_at, updated_at
		FROM messages
		WHERE screen_id = $1
		ORDER BY position, id
		`, screenID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to list messages for screen")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) GetMessageByID(id int) (model.Message, error) {
	var m model.Message
	err := s.db.Get(&m, `
		SELECT id, screen_id, body, position, created_at, updated_at
		FROM messages
		WHERE id = $1
		`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Int("message_id", id).Msg("failed to get message by id")
	}
	return m, err
}

func (s *pgStore) CreateMessage(screenID, body string) (model.Message, error) {
	var m model.Message
	err := s.db.Get(&m, `
		INSERT INTO messages (screen_id, body, position, created_at, updated_at)
		VALUES ($1, $2,
		        COALESCE((SELECT MAX(position) + 1 FROM messages WHERE screen_id = $1), 0),
		        now(), now())
		RETURNING id, screen_id, body, position, created_at, updated_at
		`, screenID, body)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to create message")
		return model.Message{}, err
	}
	return m, nil
}

func (s *pgStore) UpdateMessage(id int, body *string, position *int) error {
	_, err := s.db.Exec(`
		UPDATE messages
		SET body = COALESCE($2, body),
		position = COALESCE($3, position),
		updated_at = now()
		WHERE id = $1
		`, id, body, position)
	if err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("failed to update message")
	}
	return err
}

func (s *pgStore) DeleteMessage(id int) error {
	_, err := s.db.Exec(`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("failed to delete message")
	}
	return err
}
