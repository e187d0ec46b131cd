// Package stream maintains the SSE subscription to the backend's
// notification feed: reconnecting with capped exponential backoff,
// advancing a durable cursor, and fanning events out to subscribers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nbelyaev/linewatch/internal/config"
	"github.com/nbelyaev/linewatch/internal/domain"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateBackoff:
		return "backoff"
	}
	return "unknown"
}

// CursorStore persists the last processed event id across restarts.
type CursorStore interface {
	LoadCursor() (int64, error)
	SaveCursor(id int64) error
}

// Handler receives notification events. Handlers run on the stream
// goroutine and must not block.
type Handler func(domain.NotificationEvent)

// Client is the reconnecting SSE subscriber. One run goroutine owns the
// connection; Connect and Close are safe to call from anywhere.
type Client struct {
	streamURL      string
	http           *http.Client
	cursor         CursorStore
	observer       Observer
	backoffInitial time.Duration
	backoffMax     time.Duration

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
	subs     map[int]Handler
	nextSub  int
	cursorID int64
}

// NewClient creates a stream client for the configured backend. cursor
// may be nil for a purely in-memory cursor; observer may be nil.
func NewClient(cfg config.Config, cursor CursorStore, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		streamURL: strings.TrimRight(cfg.APIBase, "/") + "/api/notifications/stream/",
		// No overall timeout: the stream stays open indefinitely.
		http:           &http.Client{},
		cursor:         cursor,
		observer:       observer,
		backoffInitial: time.Duration(cfg.BackoffInitialMs) * time.Millisecond,
		backoffMax:     time.Duration(cfg.BackoffMaxMs) * time.Millisecond,
		subs:           make(map[int]Handler),
	}
}

// Subscribe registers a handler for all future events. The returned
// function removes the subscription; calling it twice is harmless.
func (c *Client) Subscribe(h Handler) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = h
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cursor returns the last processed event id.
func (c *Client) Cursor() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursorID
}

// Connect starts the stream goroutine. Calling Connect while already
// connecting or open is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDisconnected {
		return nil
	}

	if c.cursor != nil {
		id, err := c.cursor.LoadCursor()
		if err != nil {
			return fmt.Errorf("loading stream cursor: %w", err)
		}
		c.cursorID = id
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.setStateLocked(StateConnecting, 0, 0, nil)
	go c.run(ctx, c.done)
	return nil
}

// Close stops the stream and waits for the run goroutine to exit. Any
// pending reconnect timer is cancelled; Close is idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.setStateLocked(StateDisconnected, 0, 0, nil)
		c.mu.Unlock()
		close(done)
	}()

	delay := c.backoffInitial
	attempt := 0
	for {
		c.setState(StateConnecting, attempt, 0, nil)
		err := c.consumeOnce(ctx, &delay)
		if ctx.Err() != nil {
			return
		}

		attempt++
		c.setState(StateBackoff, attempt, delay, err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = nextDelay(delay, c.backoffMax)
	}
}

// consumeOnce opens the stream and reads frames until the connection
// drops. A successful open resets the backoff delay.
func (c *Client) consumeOnce(ctx context.Context, delay *time.Duration) error {
	url := c.streamURL
	if since := c.Cursor(); since > 0 {
		url += "?since_id=" + strconv.FormatInt(since, 10)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	c.setState(StateOpen, 0, 0, nil)
	*delay = c.backoffInitial

	return readFrames(resp.Body, c.handleFrame)
}

// handleFrame decodes one SSE frame into a notification event. Frames
// with unknown event names or undecodable bodies are dropped.
func (c *Client) handleFrame(f frame) {
	if f.event != "" && f.event != "notification" {
		return
	}

	var wire struct {
		ID        domain.FlexID   `json:"id"`
		CreatedAt time.Time       `json:"created_at"`
		Level     string          `json:"level"`
		Code      string          `json:"code"`
		Text      string          `json:"text"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(f.data, &wire); err != nil {
		return
	}

	event := domain.NotificationEvent{
		CreatedAt: wire.CreatedAt,
		Level:     domain.EventLevel(wire.Level),
		Code:      wire.Code,
		Text:      wire.Text,
		Payload:   wire.Payload,
	}

	// The transport id field wins over the body id.
	if id, err := strconv.ParseInt(f.id, 10, 64); err == nil {
		event.ID = id
	} else if id, ok := wire.ID.Int(); ok {
		event.ID = id
	}

	c.advanceCursor(event.ID)
	c.dispatch(event)
}

// advanceCursor moves the durable cursor forward. Stale ids are still
// delivered to subscribers but never move the cursor back.
func (c *Client) advanceCursor(id int64) {
	if id <= 0 {
		return
	}
	c.mu.Lock()
	if id <= c.cursorID {
		c.mu.Unlock()
		return
	}
	c.cursorID = id
	store := c.cursor
	c.mu.Unlock()

	if store != nil {
		// A failed save costs at most a re-delivery on restart.
		_ = store.SaveCursor(id)
	}
}

func (c *Client) dispatch(event domain.NotificationEvent) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs))
	for _, h := range c.subs {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (c *Client) setState(s State, attempt int, delay time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStateLocked(s, attempt, delay, err)
}

func (c *Client) setStateLocked(s State, attempt int, delay time.Duration, err error) {
	if c.state == s {
		return
	}
	from := c.state
	c.state = s
	c.observer.OnStateChange(StateEvent{From: from, To: s, Attempt: attempt, Delay: delay, Err: err})
}

// nextDelay doubles the reconnect delay up to the cap.
func nextDelay(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
