package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Dashboards never send data frames; anything larger is a misbehaving peer
	maxInboundSize = 512

	// Frames queued per peer before it counts as too slow
	outboxSize = 32
)

// Peer is one dashboard websocket connection subscribed to a Hub
type Peer struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	outbox chan []byte

	mu     sync.Mutex
	closed bool
}

// NewPeer wraps an upgraded connection
func NewPeer(conn *websocket.Conn, hub *Hub) *Peer {
	return &Peer{
		id:     uuid.NewString(),
		conn:   conn,
		hub:    hub,
		outbox: make(chan []byte, outboxSize),
	}
}

// ID returns the peer's random identifier
func (p *Peer) ID() string {
	return p.id
}

// Send queues frame without blocking; a full outbox means the peer is too slow
func (p *Peer) Send(frame []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrSubscriberGone
	}
	select {
	case p.outbox <- frame:
		return nil
	default:
		return ErrSubscriberGone
	}
}

// Close stops the writer and closes the connection. Safe to call repeatedly.
func (p *Peer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.outbox)
	p.mu.Unlock()

	return p.conn.Close()
}

// Serve subscribes the peer and blocks until the connection ends
func (p *Peer) Serve() {
	go p.writeLoop()
	p.hub.Subscribe(p)
	p.readLoop()
}

// readLoop drains inbound frames so pongs and close frames are processed
func (p *Peer) readLoop() {
	defer func() {
		p.hub.Unsubscribe(p)
		p.Close()
	}()

	p.conn.SetReadLimit(maxInboundSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("peer_id", p.id).Msg("Dashboard connection dropped")
			}
			return
		}
	}
}

func (p *Peer) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case frame, ok := <-p.outbox:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Warn().Err(err).Str("peer_id", p.id).Msg("Dashboard write failed")
				p.Close()
				return
			}

		case <-ping.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.Close()
				return
			}
		}
	}
}
