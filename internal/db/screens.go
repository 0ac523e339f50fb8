package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Brightline-Tech/argus/internal/model"
)

func (s *pgStore) GetScreenByID(id string) (model.Screen, error) {
	var screen model.Screen
	err := s.db.Get(&screen, `
		SELECT id, name, location, logo_url, last_seen, created_at, updated_at
		FROM screens
		WHERE id = $1
		`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("screen_id", id).Msg("failed to get screen by id")
	}
	return screen, err
}

// EnsureScreen fetches a screen, creating the row on first contact.
// Lazy creation never touches last_seen; only a viewer heartbeat does.
func (s *pgStore) EnsureScreen(id string) (model.Screen, bool, error) {
	var row struct {
		model.Screen
		Inserted bool `db:"inserted"`
	}
	err := s.db.Get(&row, `
		INSERT INTO screens (id, name, created_at, updated_at)
		VALUES ($1, $1, now(), now())
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING id, name, location, logo_url, last_seen, created_at, updated_at,
		          (xmax = 0) AS inserted
		`, id)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("failed to ensure screen")
		return model.Screen{}, false, err
	}
	return row.Screen, row.Inserted, nil
}

// RecordViewerHeartbeat performs the atomic insert-or-touch that backs
// presence. Two heartbeats racing on a brand-new id land on the same
// row; the losing insert degrades to the DO UPDATE branch. (xmax = 0)
// distinguishes a fresh insert from an update of an existing row.
func (s *pgStore) RecordViewerHeartbeat(screenID string, now time.Time) (HeartbeatResult, error) {
	var row struct {
		Created  bool      `db:"created"`
		LastSeen time.Time `db:"last_seen"`
	}
	err := s.db.Get(&row, `
		INSERT INTO screens (id, name, last_seen, created_at, updated_at)
		VALUES ($1, $1, $2, now(), now())
		ON CONFLICT (id) DO UPDATE SET last_seen = EXCLUDED.last_seen
		RETURNING (xmax = 0) AS created, last_seen
		`, screenID, now)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to record viewer heartbeat")
		return HeartbeatResult{}, err
	}
	return HeartbeatResult{Created: row.Created, LastSeen: row.LastSeen}, nil
}

func (s *pgStore) ListScreens() ([]model.Screen, error) {
	var screens []model.Screen
	err := s.db.Select(&screens, `
		SELECT id, name, location, logo_url, last_seen, created_at, updated_at
		FROM screens
		ORDER BY id
		`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list screens")
	}
	return screens, err
}

func (s *pgStore) ListScreensForUser(userID int) ([]model.Screen, error) {
	var screens []model.Screen
	err := s.db.Select(&screens, `
		SELECT s.id, s.name, s.location, s.logo_url, s.last_seen, s.created_at, s.updated_at
		FROM screens s
		JOIN screen_permissions p ON p.screen_id = s.id
		WHERE p.user_id = $1
		ORDER BY s.id
		`, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("failed to list screens for user")
	}
	return screens, err
}

func (s *pgStore) HasScreenPermission(screenID string, userID int) (bool, error) {
	var ok bool
	err := s.db.Get(&ok, `
		SELECT EXISTS (
			SELECT 1 FROM screen_permissions
			WHERE screen_id = $1 AND user_id = $2
		)
		`, screenID, userID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to check screen permission")
		return false, err
	}
	return ok, nil
}

func (s *pgStore) UpdateScreen(id string, name, location, logoURL *string) error {
	_, err := s.db.Exec(`
		UPDATE screens
		SET name = COALESCE($2, name),
		location = COALESCE($3, location),
		logo_url = COALESCE($4, logo_url),
		updated_at = now()
		WHERE id = $1
		`, id, name, location, logoURL)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("failed to update screen")
	}
	return err
}

// DeleteScreen cascades to content, messages, rss items and permissions
// via foreign keys.
func (s *pgStore) DeleteScreen(id string) error {
	_, err := s.db.Exec(`DELETE FROM screens WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("screen_id", id).Msg("failed to delete screen")
	}
	return err
}

func (s *pgStore) AssignScreenToUser(screenID string, userID int) error {
	_, err := s.db.Exec(`
		INSERT INTO screen_permissions (screen_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		`, screenID, userID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to assign screen to user")
	}
	return err
}

// GrantScreenToAllAdmins makes a freshly auto-created screen visible in
// every existing admin account without manual provisioning.
func (s *pgStore) GrantScreenToAllAdmins(screenID string) error {
	_, err := s.db.Exec(`
		INSERT INTO screen_permissions (screen_id, user_id)
		SELECT $1, id FROM users
		ON CONFLICT DO NOTHING
		`, screenID)
	if err != nil {
		log.Error().Err(err).Str("screen_id", screenID).Msg("failed to grant screen to admins")
	}
	return err
}
