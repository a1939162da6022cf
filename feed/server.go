package feed

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/omxconductor/omxconductor/log"
	"github.com/omxconductor/omxconductor/player"
	"github.com/samber/mo"
)

// Path is where the feed is served.
const Path = "/events"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server exposes a Hub over HTTP and feeds it from a player.
type Server struct {
	hub *Hub

	// last is replayed to clients as they connect.
	mu   sync.Mutex
	last mo.Option[[]byte]
	now  func() time.Time
}

// NewServer creates a feed server with the given per-client queue size.
func NewServer(sendBuf int) *Server {
	return &Server{
		hub: NewHub(sendBuf),
		now: time.Now,
	}
}

// Hub returns the underlying hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Attach broadcasts every event of p until the returned function is called.
func (s *Server) Attach(p *player.Player) (detach func()) {
	return p.Subscribe(s.Publish)
}

// Publish encodes and broadcasts a single event.
func (s *Server) Publish(e player.Event) {
	msg, err := Encode(e, s.now())
	if err != nil {
		log.Warnf("feed encode %s: %v", e.Kind(), err)
		return
	}

	if e.Kind() == player.KindProgress || e.Kind() == player.KindReady {
		s.mu.Lock()
		s.last = mo.Some(msg)
		s.mu.Unlock()
	}

	s.hub.Broadcast(msg)
}

// Register mounts the websocket handler on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc(Path, s.handle)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("feed upgrade: %v", err)
		return
	}

	c := newClient(s.hub, conn, r.RemoteAddr)

	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if msg, ok := last.Get(); ok {
		c.send <- msg
	}

	s.hub.register <- c

	// The request context ends with this handler; the pumps outlive it.
	go c.writePump(context.Background())
	go c.readPump()
}

// ListenAndServe serves the feed on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.Register(mux)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("feed listening on %s%s", ln.Addr(), Path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
