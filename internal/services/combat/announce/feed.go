package announce

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"

	"github.com/louisbranch/phaseline/internal/platform/timeouts"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
)

// FeedPath is where the HTTP runtime mounts the feed.
const FeedPath = "/feed"

const defaultFeedBuffer = 32

// ErrFeedClosed is returned by Publish after Close.
var ErrFeedClosed = errors.New("announcement feed is closed")

// FeedOptions configures a Feed.
type FeedOptions struct {
	// Buffer is the per-subscriber queue length. Full queues drop messages.
	Buffer int
	// OriginPatterns are passed to websocket.AcceptOptions.
	OriginPatterns []string
	// InsecureSkipVerify disables the origin check for local tables.
	InsecureSkipVerify bool
}

type subscriber struct {
	sessionID string
	gm        bool
	messages  chan []byte
}

func (s *subscriber) wants(announcement Announcement) bool {
	if s.sessionID != "" && announcement.SessionID != "" && s.sessionID != announcement.SessionID {
		return false
	}
	return !announcement.GMOnly || s.gm
}

// Feed streams announcements to websocket clients. Clients pick a session
// with ?session= and receive game-master whispers with ?role=gm.
type Feed struct {
	opts FeedOptions

	mu          sync.RWMutex
	closed      bool
	subscribers map[*subscriber]struct{}
}

// NewFeed creates an empty feed.
func NewFeed(opts FeedOptions) *Feed {
	if opts.Buffer <= 0 {
		opts.Buffer = defaultFeedBuffer
	}
	return &Feed{
		opts:        opts,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish queues the announcement for every interested subscriber without
// blocking.
func (f *Feed) Publish(_ context.Context, announcement Announcement) error {
	payload, err := json.Marshal(announcement)
	if err != nil {
		return err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrFeedClosed
	}
	for sub := range f.subscribers {
		if !sub.wants(announcement) {
			continue
		}
		select {
		case sub.messages <- payload:
		default:
			log.Printf("feed: subscriber queue full, dropping %s", announcement.Kind)
		}
	}
	return nil
}

// Subscribers returns the number of connected clients.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close disconnects every subscriber. Further publishes fail.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subscribers {
		close(sub.messages)
		delete(f.subscribers, sub)
	}
}

// ServeHTTP upgrades the request and streams announcements until the client
// leaves or the feed closes.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	role, _ := roster.ParseRole(query.Get("role"))
	sub := &subscriber{
		sessionID: strings.TrimSpace(query.Get("session")),
		gm:        role == roster.RoleGM,
		messages:  make(chan []byte, f.opts.Buffer),
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     f.opts.OriginPatterns,
		InsecureSkipVerify: f.opts.InsecureSkipVerify,
	})
	if err != nil {
		log.Printf("feed: accept: %v", err)
		return
	}
	defer conn.CloseNow()

	if !f.add(sub) {
		_ = conn.Close(websocket.StatusGoingAway, "feed closed")
		return
	}
	defer f.remove(sub)

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-sub.messages:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if err := write(ctx, conn, payload); err != nil {
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.FeedWrite)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func (f *Feed) add(sub *subscriber) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.subscribers[sub] = struct{}{}
	return true
}

func (f *Feed) remove(sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscribers, sub)
}
