package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/lookout/internal/core/events/bus"
	"github.com/zeusync/lookout/internal/core/observability/log"
	"github.com/zeusync/lookout/internal/core/stealth"
)

// Message types written to overlay clients.
const (
	MessageFrame = "frame"
)

// Message is the envelope of everything written to an overlay.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type FeedConfig struct {
	// MaxClients caps concurrent overlays. Zero means no cap.
	MaxClients int
	// Buffer is how many frames may queue per client before frames are
	// dropped for it.
	Buffer       int
	WriteTimeout time.Duration
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		MaxClients:   16,
		Buffer:       8,
		WriteTimeout: time.Second,
	}
}

type FeedStats struct {
	Clients int
	Sent    uint64
	Dropped uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed streams tick frames to debug overlays over websockets. Delivery is
// lossy: a client that falls behind misses frames instead of stalling the
// tick.
type Feed struct {
	cfg      FeedConfig
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	sub     bus.Subscription

	closed  atomic.Bool
	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewFeed(logger log.Log, cfg FeedConfig) *Feed {
	def := DefaultFeedConfig()
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Feed{
		cfg:    cfg,
		logger: logger.Named("feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]struct{}),
	}
}

// Attach subscribes the feed to the engine's tick frames.
func (f *Feed) Attach(b bus.EventBus) error {
	sub, err := b.Subscribe(stealth.EventTickCompleted, f.onTick)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sub = sub
	f.mu.Unlock()
	return nil
}

func (f *Feed) Stats() FeedStats {
	f.mu.Lock()
	n := len(f.clients)
	f.mu.Unlock()
	return FeedStats{Clients: n, Sent: f.sent.Load(), Dropped: f.dropped.Load()}
}

func (f *Feed) onTick(event bus.Event) error {
	frame, ok := event.Data().(stealth.Frame)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidMessage, event.Data())
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Message{Type: MessageFrame, Data: data})
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = msg
	for c := range f.clients {
		select {
		case c.send <- msg:
		default:
			f.dropped.Add(1)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams frames until the overlay goes
// away. A new overlay first receives the latest frame.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.closed.Load() {
		http.Error(w, ErrFeedClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	f.mu.Lock()
	full := f.cfg.MaxClients > 0 && len(f.clients) >= f.cfg.MaxClients
	f.mu.Unlock()
	if full {
		f.logger.Warn("overlay rejected", log.String("remote", r.RemoteAddr), log.Error(ErrMaxClientsReached))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("upgrade failed", log.String("remote", r.RemoteAddr), log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, f.cfg.Buffer)}
	if !f.register(c) {
		// Close ran while the handshake was in flight
		_ = conn.Close()
		return
	}

	remote := conn.RemoteAddr().String()
	f.logger.Info("overlay connected", log.String("remote", remote))
	go f.writeLoop(c)
	f.readLoop(c)
	f.logger.Info("overlay disconnected", log.String("remote", remote))
}

// register adds c unless the feed has been closed. A new client first receives
// the latest frame.
func (f *Feed) register(c *client) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Load() {
		return false
	}
	if f.last != nil {
		c.send <- f.last
	}
	f.clients[c] = struct{}{}
	return true
}

// readLoop discards client input and returns once the connection fails.
func (f *Feed) readLoop(c *client) {
	defer f.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(f.cfg.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			f.logger.Warn("overlay write failed", log.Error(err))
			return
		}
		f.sent.Add(1)
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(f.cfg.WriteTimeout))
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

// Close unsubscribes from the bus and disconnects every overlay.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Swap(true) {
		return nil
	}
	var err error
	if f.sub != nil {
		err = f.sub.Cancel()
	}
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
	return err
}

// Serve exposes feed on addr at path until ctx is done.
func Serve(ctx context.Context, addr, path string, feed *Feed) error {
	if addr == "" || path == "" {
		return ErrInvalidConfig
	}
	mux := http.NewServeMux()
	mux.Handle(path, feed)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	feed.logger.Info("feed listening", log.String("addr", addr), log.String("path", path))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// hijacked connections are not tracked by Shutdown
		return errors.Join(feed.Close(), srv.Shutdown(shutdownCtx))
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}
}
