package server

import (
	"net/http"
	"sync"
	"time"

	"auction-bff/internal/countdown"
	"auction-bff/services/bidding/helpers"
	"auction-bff/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// CountdownSource hands out live countdown subscriptions
type CountdownSource interface {
	SubscribeCountdown(ids ...string) *countdown.Subscription
}

// StreamConfig holds websocket settings for the countdown stream
type StreamConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultStreamConfig returns the stream settings used in production
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// OriginChecker accepts requests whose Origin header is listed, or any origin when "*" is listed.
// Requests without an Origin header come from non-browser clients and are accepted.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type countdownMessage struct {
	Type   string             `json:"type"`
	States countdown.Snapshot `json:"states"`
}

// CountdownStream pushes countdown snapshots to websocket clients.
// Each client gets its own ticker subscription, filtered by the ids query parameter.
type CountdownStream struct {
	source   CountdownSource
	upgrader websocket.Upgrader
	config   StreamConfig

	mu    sync.Mutex
	conns map[*streamConn]struct{}
}

type streamConn struct {
	id     string
	conn   *websocket.Conn
	sub    *countdown.Subscription
	stream *CountdownStream
	done   chan struct{}
	once   sync.Once
}

func NewCountdownStream(source CountdownSource, config StreamConfig) *CountdownStream {
	return &CountdownStream{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
		conns:  make(map[*streamConn]struct{}),
	}
}

// Handler handles GET /countdown/ws
func (s *CountdownStream) Handler(c *gin.Context) {
	ids := helpers.QueryIDs(c, "ids")

	// the upgrader writes its own error response
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("CountdownStream: websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	sc := &streamConn{
		id:     uuid.NewString(),
		conn:   conn,
		sub:    s.source.SubscribeCountdown(ids...),
		stream: s,
		done:   make(chan struct{}),
	}
	s.register(sc)

	go sc.writePump()
	go sc.readPump()

	utils.Info("CountdownStream: client connected", map[string]any{
		"connection_id": sc.id,
		"ids":           ids,
	})
}

// Connections returns the number of open stream clients
func (s *CountdownStream) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close disconnects every client
func (s *CountdownStream) Close() {
	s.mu.Lock()
	conns := make([]*streamConn, 0, len(s.conns))
	for sc := range s.conns {
		conns = append(conns, sc)
	}
	s.mu.Unlock()

	for _, sc := range conns {
		sc.close()
	}
}

func (s *CountdownStream) register(sc *streamConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[sc] = struct{}{}
}

func (s *CountdownStream) unregister(sc *streamConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, sc)
}

func (sc *streamConn) close() {
	sc.once.Do(func() {
		close(sc.done)
		sc.sub.Close()
		sc.conn.Close()
		sc.stream.unregister(sc)
		utils.Info("CountdownStream: client disconnected", map[string]any{"connection_id": sc.id})
	})
}

func (sc *streamConn) writePump() {
	cfg := sc.stream.config
	ping := time.NewTicker(cfg.PingInterval)
	defer func() {
		ping.Stop()
		sc.close()
	}()

	for {
		select {
		case <-sc.done:
			return

		case snap, ok := <-sc.sub.C():
			sc.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				// ticker shut down
				sc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := sc.conn.WriteJSON(countdownMessage{Type: "countdown", States: snap}); err != nil {
				utils.Debug("CountdownStream: write failed", map[string]any{"connection_id": sc.id, "error": err.Error()})
				return
			}

		case <-ping.C:
			sc.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients have nothing to send
func (sc *streamConn) readPump() {
	cfg := sc.stream.config
	defer sc.close()

	sc.conn.SetReadLimit(cfg.MaxMessageSize)
	sc.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	sc.conn.SetPongHandler(func(string) error {
		return sc.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		if _, _, err := sc.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				utils.Warn("CountdownStream: unexpected close", map[string]any{"connection_id": sc.id, "error": err.Error()})
			}
			return
		}
		sc.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}
