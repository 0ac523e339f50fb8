// exposes a Store interface that is passed to API modules
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Brightline-Tech/argus/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// screen functions
	GetScreenByID(id string) (model.Screen, error)
	EnsureScreen(id string) (model.Screen, bool, error)
	ListScreens() ([]model.Screen, error)
	ListScreensForUser(userID int) ([]model.Screen, error)
	HasScreenPermission(screenID string, userID int) (bool, error)
	UpdateScreen(id string, name, location, logoURL *string) error
	DeleteScreen(id string) error
	AssignScreenToUser(screenID string, userID int) error
	GrantScreenToAllAdmins(screenID string) error

	// presence functions
	RecordViewerHeartbeat(screenID string, now time.Time) (HeartbeatResult, error)

	// content functions
	ListContentForScreen(screenID string) ([]model.Content, error)
	GetContentByID(id int) (model.Content, error)
	CreateContent(screenID, name, typ, url string, duration int) (model.Content, error)
	UpdateContent(id int, name, typ, url *string, duration *int) error
	DeleteContent(id int) error

	// message functions
	ListMessagesForScreen(screenID string) ([]model.Message, error)
	GetMessageByID(id int) (model.Message, error)
	CreateMessage(screenID, body string) (model.Message, error)
	UpdateMessage(id int, body *string, position *int) error
	DeleteMessage(id int) error

	// rss functions
	ListRSSForScreen(screenID string) ([]model.RSSItem, error)
	ReplaceRSSForScreen(screenID string, items []model.RSSItem) error
}

// HeartbeatResult reports what a viewer heartbeat did to the screen row.
type HeartbeatResult struct {
	Created  bool
	LastSeen time.Time
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
