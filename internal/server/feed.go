package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/skirmish/internal/core/observability/log"
)

const (
	writeWait   = 5 * time.Second
	sendBacklog = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// Feed fans simulation frames out to read-only websocket spectators. A new
// spectator first receives the latest frame. Spectators that fall behind
// are dropped.
type Feed struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	logger  log.Log
}

func NewFeed(logger log.Log) *Feed {
	return &Feed{
		clients: make(map[*client]struct{}),
		logger:  log.OrNop(logger).With(log.String("component", "feed")),
	}
}

// Handler routes /feed to the websocket endpoint.
func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/feed", f)
	return mux
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Debug("upgrade failed", log.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBacklog)}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	if f.last != nil {
		c.send <- f.last
	}
	f.mu.Unlock()
	f.logger.Info("spectator connected", log.String("remote", conn.RemoteAddr().String()))

	go f.writeLoop(c)
	go f.readLoop(c)
}

func (f *Feed) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			f.drop(c)
			return
		}
	}
}

// readLoop discards inbound messages and notices disconnects.
func (f *Feed) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			f.drop(c)
			return
		}
	}
}

func (f *Feed) drop(c *client) {
	f.mu.Lock()
	_, ok := f.clients[c]
	delete(f.clients, c)
	f.mu.Unlock()
	if ok {
		c.close()
		f.logger.Debug("spectator dropped")
	}
}

// Broadcast encodes frame as JSON and queues it for every spectator.
func (f *Feed) Broadcast(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	f.mu.Lock()
	f.last = data
	var slow []*client
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	f.mu.Unlock()

	for _, c := range slow {
		f.drop(c)
	}
	return nil
}

// Clients returns the number of connected spectators.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every spectator.
func (f *Feed) Close() {
	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.clients = make(map[*client]struct{})
	f.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// Serve listens on addr until ctx is done.
func (f *Feed) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: f.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		f.logger.Info("feed listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed server: %w", err)
	case <-ctx.Done():
		f.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
