package db

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Brightline-Tech/argus/internal/model"
)

// memStore is an in-memory Store for tests and local development
// without PostgreSQL. It mirrors pgStore semantics, including the
// atomic heartbeat upsert.
type memStore struct {
	mu sync.Mutex

	users       map[int]model.User
	nextUserID  int
	screens     map[string]model.Screen
	permissions map[string]map[int]struct{}
	content     map[int]model.Content
	nextContent int
	messages    map[int]model.Message
	nextMessage int
	rss         map[string][]model.RSSItem
	nextRSS     int
}

var _ Store = (*memStore)(nil)

func NewMemStore() Store {
	return &memStore{
		users:       make(map[int]model.User),
		nextUserID:  1,
		screens:     make(map[string]model.Screen),
		permissions: make(map[string]map[int]struct{}),
		content:     make(map[int]model.Content),
		nextContent: 1,
		messages:    make(map[int]model.Message),
		nextMessage: 1,
		rss:         make(map[string][]model.RSSItem),
		nextRSS:     1,
	}
}

func (s *memStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return 0, errors.New("email already registered")
		}
	}
	id := s.nextUserID
	s.nextUserID++
	now := time.Now()
	s.users[id] = model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *memStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memStore) GetUserByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := u
	return &copy, nil
}

func (s *memStore) UpdateUserProfile(id int, email string, name *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *memStore) GetScreenByID(id string) (model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen, ok := s.screens[id]
	if !ok {
		return model.Screen{}, sql.ErrNoRows
	}
	return screen, nil
}

func (s *memStore) EnsureScreen(id string) (model.Screen, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if screen, ok := s.screens[id]; ok {
		return screen, false, nil
	}
	now := time.Now()
	screen := model.Screen{ID: id, Name: id, CreatedAt: now, UpdatedAt: now}
	s.screens[id] = screen
	return screen, true, nil
}

func (s *memStore) RecordViewerHeartbeat(screenID string, now time.Time) (HeartbeatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen, ok := s.screens[screenID]
	if !ok {
		screen = model.Screen{ID: screenID, Name: screenID, CreatedAt: now, UpdatedAt: now}
		screen.LastSeen = &now
		s.screens[screenID] = screen
		return HeartbeatResult{Created: true, LastSeen: now}, nil
	}
	ts := now
	screen.LastSeen = &ts
	s.screens[screenID] = screen
	return HeartbeatResult{Created: false, LastSeen: now}, nil
}

func (s *memStore) ListScreens() ([]model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Screen, 0, len(s.screens))
	for _, screen := range s.screens {
		out = append(out, screen)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) ListScreensForUser(userID int) ([]model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Screen
	for id, screen := range s.screens {
		if _, ok := s.permissions[id][userID]; ok {
			out = append(out, screen)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) HasScreenPermission(screenID string, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.permissions[screenID][userID]
	return ok, nil
}

func (s *memStore) UpdateScreen(id string, name, location, logoURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen, ok := s.screens[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name != nil {
		screen.Name = *name
	}
	if location != nil {
		screen.Location = location
	}
	if logoURL != nil {
		screen.LogoURL = logoURL
	}
	screen.UpdatedAt = time.Now()
	s.screens[id] = screen
	return nil
}

func (s *memStore) DeleteScreen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.screens, id)
	delete(s.permissions, id)
	delete(s.rss, id)
	for cid, c := range s.content {
		if c.ScreenID == id {
			delete(s.content, cid)
		}
	}
	for mid, m := range s.messages {
		if m.ScreenID == id {
			delete(s.messages, mid)
		}
	}
	return nil
}

func (s *memStore) AssignScreenToUser(screenID string, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.permissions[screenID] == nil {
		s.permissions[screenID] = make(map[int]struct{})
	}
	s.permissions[screenID][userID] = struct{}{}
	return nil
}

func (s *memStore) GrantScreenToAllAdmins(screenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.permissions[screenID] == nil {
		s.permissions[screenID] = make(map[int]struct{})
	}
	for id := range s.users {
		s.permissions[screenID][id] = struct{}{}
	}
	return nil
}

func (s *memStore) ListContentForScreen(screenID string) ([]model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Content
	for _, c := range s.content {
		if c.ScreenID == screenID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) GetContentByID(id int) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return model.Content{}, sql.ErrNoRows
	}
	return c, nil
}

func (s *memStore) CreateContent(screenID, name, typ, url string, duration int) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextContent
	s.nextContent++
	pos := 0
	for _, c := range s.content {
		if c.ScreenID == screenID && c.Position >= pos {
			pos = c.Position + 1
		}
	}
	now := time.Now()
	c := model.Content{ID: id, ScreenID: screenID, Name: name, Type: typ, URL: url, Duration: duration, Position: pos, CreatedAt: now, UpdatedAt: now}
	s.content[id] = c
	return c, nil
}

func (s *memStore) UpdateContent(id int, name, typ, url *string, duration *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name != nil {
		c.Name = *name
	}
	if typ != nil {
		c.Type = *typ
	}
	if url != nil {
		c.URL = *url
	}
	if duration != nil {
		c.Duration = *duration
	}
	c.UpdatedAt = time.Now()
	s.content[id] = c
	return nil
}

func (s *memStore) DeleteContent(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, id)
	return nil
}

func (s *memStore) ListMessagesForScreen(screenID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.ScreenID == screenID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) GetMessageByID(id int) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return model.Message{}, sql.ErrNoRows
	}
	return m, nil
}

func (s *memStore) CreateMessage(screenID, body string) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextMessage
	s.nextMessage++
	pos := 0
	for _, m := range s.messages {
		if m.ScreenID == screenID && m.Position >= pos {
			pos = m.Position + 1
		}
	}
	now := time.Now()
	m := model.Message{ID: id, ScreenID: screenID, Body: body, Position: pos, CreatedAt: now, UpdatedAt: now}
	s.messages[id] = m
	return m, nil
}

func (s *memStore) UpdateMessage(id int, body *string, position *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	if body != nil {
		m.Body = *body
	}
	if position != nil {
		m.Position = *position
	}
	m.UpdatedAt = time.Now()
	s.messages[id] = m
	return nil
}

func (s *memStore) DeleteMessage(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, id)
	return nil
}

func (s *memStore) ListRSSForScreen(screenID string) ([]model.RSSItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.RSSItem, len(s.rss[screenID]))
	copy(items, s.rss[screenID])
	return items, nil
}

func (s *memStore) ReplaceRSSForScreen(screenID string, items []model.RSSItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := make([]model.RSSItem, 0, len(items))
	for _, item := range items {
		item.ID = s.nextRSS
		s.nextRSS++
		item.ScreenID = screenID
		item.CreatedAt = time.Now()
		replaced = append(replaced, item)
	}
	s.rss[screenID] = replaced
	return nil
}
