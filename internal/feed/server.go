// Package feed streams a running match to read-only spectators over
// WebSocket.
package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	readLimit    = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Server steps one simulator at wall-clock pace and broadcasts a msgpack
// Frame per tick. Only Run touches the simulator.
type Server struct {
	sim     *combat.Simulator
	session string
	speed   float64
	logger  *log.Logger

	register   chan *client
	unregister chan *client
	clients    map[*client]bool
	done       chan struct{}

	seq  uint64
	last []byte
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSpeed sets simulated seconds per wall second.
func WithSpeed(x float64) Option {
	return func(s *Server) {
		if x > 0 {
			s.speed = x
		}
	}
}

func WithSession(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.session = id
		}
	}
}

func New(sim *combat.Simulator, opts ...Option) *Server {
	s := &Server{
		sim:        sim,
		session:    uuid.NewString(),
		speed:      1,
		logger:     log.New(io.Discard),
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[*client]bool),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Session() string { return s.session }

// TickInterval is the wall time between steps.
func (s *Server) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) * config.FixedDt / s.speed)
}

// Handler upgrades spectators. Clients only receive; anything they send is
// discarded.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("upgrade failed", "err", err)
			return
		}
		c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
		select {
		case s.register <- c:
		case <-s.done:
			conn.Close()
			return
		case <-r.Context().Done():
			conn.Close()
			return
		}
		go s.writePump(c)
		go s.readPump(c)
	}
}

// Step advances the match one tick and returns the encoded frame. Once the
// match is over the frame repeats the final state.
func (s *Server) Step() ([]byte, error) {
	if !s.sim.IsOver() {
		s.sim.Step(config.FixedDt)
	}
	s.seq++
	f := &Frame{
		Session:  s.session,
		Seq:      s.seq,
		Snapshot: s.sim.Snapshot(),
		Damage:   s.sim.ConsumeDamageEvents(),
		Died:     s.sim.ConsumeUnitDiedEvents(),
		Power:    s.sim.ConsumePowerAllocatedEvents(),
		Spawned:  s.sim.ConsumeUnitSpawnedEvents(),
	}
	b, err := EncodeFrame(f)
	if err != nil {
		return nil, err
	}
	s.last = b
	return b, nil
}

// Run owns the simulator and the client set until ctx ends. Stepping stops
// once a base falls; new spectators still get the final frame. Run must be
// called at most once.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.TickInterval())
	defer ticker.Stop()
	defer func() {
		for c := range s.clients {
			s.drop(c)
		}
		close(s.done)
	}()

	s.logger.Info("feed started", "session", s.session, "tick", s.TickInterval())
	over := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c := <-s.register:
			s.clients[c] = true
			s.logger.Debug("spectator joined", "client", c.id, "spectators", len(s.clients))
			if s.last != nil {
				s.deliver(c, s.last)
			}

		case c := <-s.unregister:
			if s.clients[c] {
				s.drop(c)
				s.logger.Debug("spectator left", "client", c.id, "spectators", len(s.clients))
			}

		case <-ticker.C:
			if over {
				continue
			}
			b, err := s.Step()
			if err != nil {
				return err
			}
			for c := range s.clients {
				s.deliver(c, b)
			}
			if s.sim.IsOver() {
				over = true
				w, _ := s.sim.Winner()
				s.logger.Info("match over", "session", s.session, "winner", w, "t", s.sim.State().Time)
			}
		}
	}
}

// deliver never blocks the tick loop; a spectator that falls a full buffer
// behind is dropped.
func (s *Server) deliver(c *client, b []byte) {
	select {
	case c.send <- b:
	default:
		s.logger.Warn("spectator too slow, dropping", "client", c.id)
		s.drop(c)
	}
}

func (s *Server) drop(c *client) {
	delete(s.clients, c)
	close(c.send)
}

func (s *Server) readPump(c *client) {
	defer func() {
		// Run may already have exited; the connection still has to close.
		select {
		case s.unregister <- c:
		case <-s.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(readLimit)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
