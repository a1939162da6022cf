// Package feed broadcasts player events to websocket clients.
package feed

import (
	"context"
	"sync"

	"github.com/omxconductor/omxconductor/log"
)

const (
	defaultSendBuf      = 32
	defaultBroadcastBuf = 128
)

// Hub tracks connected clients and fans frames out to them. A client whose
// send queue is full is disconnected rather than allowed to stall the rest.
type Hub struct {
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
}

// NewHub creates a hub whose clients queue up to sendBuf frames. Call Run to
// start it.
func NewHub(sendBuf int) *Hub {
	if sendBuf <= 0 {
		sendBuf = defaultSendBuf
	}

	return &Hub{
		broadcast:  make(chan []byte, defaultBroadcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub traffic until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	log.Info("feed hub starting")

	for {
		select {
		case <-ctx.Done():
			log.Info("feed hub stopping")
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Infof("feed client %s connected (%d clients)", c.remoteAddr, n)

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.remove(c, "slow client")
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		log.Infof("feed client %s disconnected: %s (%d clients)", c.remoteAddr, reason, n)
	}
}

// Broadcast enqueues a frame for every client. It never blocks: when the hub
// queue is full the frame is dropped.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warnf("feed queue full, dropping %d bytes", len(msg))
	}
}
