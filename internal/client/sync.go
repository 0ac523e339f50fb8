package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/presence"
)

// SyncConfig tunes the engine's timers. Zero values pick the defaults.
type SyncConfig struct {
	ScreenID string
	// Refresh is the connectivity-check cadence (heartbeat-scale).
	Refresh time.Duration
	// FullResync is the backstop re-fetch of every resource,
	// independent of bus events.
	FullResync time.Duration
}

const (
	defaultRefresh    = 30 * time.Second
	defaultFullResync = time.Hour
)

// Engine reconciles the local snapshot against the server. Network
// failures never reach the rendering layer: the last good snapshot
// keeps being served and a connectivity state is derived instead.
type Engine struct {
	api   *APIClient
	cache *Cache
	cfg   SyncConfig

	contentRot *Rotator
	rssRot     *Rotator

	mu          sync.Mutex
	snap        Snapshot
	lastContact *time.Time

	stopOnce sync.Once
	stopped  chan struct{}
	tickers  []*time.Ticker
}

func NewEngine(api *APIClient, cache *Cache, contentRot, rssRot *Rotator, cfg SyncConfig) *Engine {
	if cfg.Refresh <= 0 {
		cfg.Refresh = defaultRefresh
	}
	if cfg.FullResync <= 0 {
		cfg.FullResync = defaultFullResync
	}
	return &Engine{
		api:        api,
		cache:      cache,
		cfg:        cfg,
		contentRot: contentRot,
		rssRot:     rssRot,
		stopped:    make(chan struct{}),
	}
}

// Bootstrap loads the cached snapshot, if any, so the display shows
// last-known-good data immediately while the first fetch runs. Cache
// errors degrade to an empty snapshot, never a crash.
func (e *Engine) Bootstrap() {
	if e.cache == nil {
		return
	}
	snap, err := e.cache.Load()
	if err != nil {
		log.Warn().Err(err).Msg("cache unreadable, starting cold")
		return
	}
	if snap == nil {
		return
	}

	e.mu.Lock()
	e.snap = *snap
	e.mu.Unlock()

	e.contentRot.Reset(len(snap.Content))
	e.rssRot.Reset(len(snap.RSSItems))
	log.Info().Time("last_sync_at", snap.LastSyncAt).Msg("bootstrapped from cache")
}

// SyncAll fetches every resource concurrently and reconciles each one
// independently; one failing fetch does not block the others.
func (e *Engine) SyncAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); e.syncScreen(ctx) }()
	go func() { defer wg.Done(); e.SyncContent(ctx) }()
	go func() { defer wg.Done(); e.SyncRSS(ctx) }()
	go func() { defer wg.Done(); e.SyncMessages(ctx) }()
	wg.Wait()

	e.persist()
}

func (e *Engine) syncScreen(ctx context.Context) {
	screen, err := e.api.GetScreen(ctx, e.cfg.ScreenID)
	if err != nil {
		e.fetchFailed("screen", err)
		return
	}
	e.touch()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !screenEqual(e.snap.Screen, &screen) {
		e.snap.Screen = &screen
	}
}

// SyncContent is the targeted re-fetch for content_changed events and
// part of the full resync.
func (e *Engine) SyncContent(ctx context.Context) {
	items, err := e.api.GetContent(ctx, e.cfg.ScreenID)
	if err != nil {
		e.fetchFailed("content", err)
		return
	}
	e.touch()

	e.mu.Lock()
	changed := !contentEqual(e.snap.Content, items)
	if changed {
		e.snap.Content = items
	}
	e.mu.Unlock()

	// unchanged data must not disturb the rotation
	if changed {
		e.contentRot.Reset(len(items))
	}
}

func (e *Engine) SyncRSS(ctx context.Context) {
	items, err := e.api.GetRSS(ctx, e.cfg.ScreenID)
	if err != nil {
		e.fetchFailed("rss", err)
		return
	}
	e.touch()

	e.mu.Lock()
	changed := !rssEqual(e.snap.RSSItems, items)
	if changed {
		e.snap.RSSItems = items
	}
	e.mu.Unlock()

	if changed {
		e.rssRot.Reset(len(items))
	}
}

func (e *Engine) SyncMessages(ctx context.Context) {
	items, err := e.api.GetMessages(ctx, e.cfg.ScreenID)
	if err != nil {
		e.fetchFailed("messages", err)
		return
	}
	e.touch()

	e.mu.Lock()
	if !messagesEqual(e.snap.Messages, items) {
		e.snap.Messages = items
	}
	e.mu.Unlock()
}

// fetchFailed logs and moves on; the cached state keeps rendering and
// the connectivity indicator degrades on its own as lastContact ages.
func (e *Engine) fetchFailed(resource string, err error) {
	log.Warn().Err(err).Str("resource", resource).Msg("fetch failed, serving cache")
}

func (e *Engine) touch() {
	now := time.Now()
	e.mu.Lock()
	e.lastContact = &now
	e.mu.Unlock()
}

func (e *Engine) persist() {
	if e.cache == nil {
		return
	}
	e.mu.Lock()
	snap := e.snap
	if e.lastContact != nil {
		snap.LastSyncAt = *e.lastContact
	}
	e.mu.Unlock()

	if err := e.cache.Save(&snap); err != nil {
		log.Warn().Err(err).Msg("failed to persist snapshot cache")
	}
}

// HandleEvent reacts to a bus event with a targeted re-fetch of only
// the affected resource; the periodic resync covers everything else.
func (e *Engine) HandleEvent(ctx context.Context, ev hub.Event) {
	switch ev.Type {
	case hub.EventContentChanged:
		e.SyncContent(ctx)
		e.persist()
	case hub.EventMessagesChanged:
		e.SyncMessages(ctx)
		e.persist()
	case hub.EventScreenRenamed, hub.EventScreenLogoChanged:
		e.syncScreen(ctx)
		e.persist()
	case hub.EventScreenDeleted:
		log.Warn().Str("screen_id", ev.ScreenID).Msg("screen deleted upstream, clearing display")
		e.mu.Lock()
		e.snap = Snapshot{}
		e.mu.Unlock()
		e.contentRot.Reset(0)
		e.rssRot.Reset(0)
		e.persist()
	case hub.EventPresenceChanged:
		// our own heartbeat echo; nothing to re-fetch
	}
}

// Reconnected re-syncs out of band after the event socket comes back;
// events emitted during the outage were lost by design.
func (e *Engine) Reconnected(ctx context.Context) {
	log.Info().Msg("event socket reconnected, running out-of-band sync")
	e.SyncAll(ctx)
}

// Run drives the periodic timers until ctx is cancelled. The ticker
// handles are owned here and all stopped on teardown.
func (e *Engine) Run(ctx context.Context) {
	refresh := time.NewTicker(e.cfg.Refresh)
	resync := time.NewTicker(e.cfg.FullResync)
	e.mu.Lock()
	e.tickers = append(e.tickers, refresh, resync)
	e.mu.Unlock()

	for {
		select {
		case <-refresh.C:
			e.SyncAll(ctx)
		case <-resync.C:
			e.SyncAll(ctx)
		case <-ctx.Done():
			e.Stop()
			return
		case <-e.stopped:
			return
		}
	}
}

// Stop tears the engine down: every owned timer and both rotators are
// cancelled so no interval leaks past the view.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		for _, t := range e.tickers {
			t.Stop()
		}
		e.tickers = nil
		e.mu.Unlock()

		e.contentRot.Stop()
		e.rssRot.Stop()
		close(e.stopped)
	})
}

// Snapshot returns a copy of the current reconciled state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Connectivity derives the indicator state from the age of the last
// successful server contact, reusing the same classification the
// server applies to heartbeats.
func (e *Engine) Connectivity() presence.State {
	e.mu.Lock()
	last := e.lastContact
	e.mu.Unlock()
	return presence.Classify(last, time.Now())
}
