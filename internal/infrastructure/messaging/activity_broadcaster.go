package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// ActivityMessage is the wire format pushed to connected back-office clients
type ActivityMessage struct {
	Type      string `json:"type"` // "consent_decision" or "tracked_event"
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ActivityClient represents a single connected back-office dashboard client.
// Its write pump is the only goroutine that touches the connection's write
// side; broadcasts and heartbeat pings both funnel through the send loop.
type ActivityClient struct {
	conn      *websocket.Conn
	send      chan []byte
	heartbeat time.Duration
}

// writePump owns every write on the connection: queued feed messages and the
// heartbeat pings. It exits when send is closed or a write fails, and closes
// the connection on the way out so the read side unblocks.
func (c *ActivityClient) writePump() {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close stops the client's write pump; the pump closes the connection.
func (c *ActivityClient) close() {
	close(c.send)
}

// ActivityBroadcaster fans live consent and analytics activity out to all
// connected back-office websocket clients. Slow clients are dropped rather
// than allowed to stall the feed.
type ActivityBroadcaster struct {
	clients    map[*ActivityClient]bool
	register   chan *ActivityClient
	unregister chan *ActivityClient
	broadcast  chan []byte
	done       chan struct{}
	heartbeat  time.Duration
	maxClients int
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewActivityBroadcaster creates a new broadcaster instance
func NewActivityBroadcaster(heartbeat time.Duration, maxClients int, logger *logging.ChanneledLogger) *ActivityBroadcaster {
	return &ActivityBroadcaster{
		clients:    make(map[*ActivityClient]bool),
		register:   make(chan *ActivityClient),
		unregister: make(chan *ActivityClient),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		heartbeat:  heartbeat,
		maxClients: maxClients,
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *ActivityBroadcaster) Run(ctx context.Context) {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			if len(b.clients) >= b.maxClients {
				b.mu.Unlock()
				b.logger.System().Warn("Activity client rejected, connection limit reached", "maxClients", b.maxClients)
				client.close()
				continue
			}
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.System().Info("Activity client registered", "totalClients", count)

		case client := <-b.unregister:
			b.dropClient(client)

		case message := <-b.broadcast:
			b.mu.RLock()
			stalled := make([]*ActivityClient, 0)
			for client := range b.clients {
				select {
				case client.send <- message:
				default:
					stalled = append(stalled, client)
				}
			}
			b.mu.RUnlock()
			for _, client := range stalled {
				b.logger.System().Warn("Dropping stalled activity client")
				b.dropClient(client)
			}

		case <-ctx.Done():
			close(b.done)
			b.mu.Lock()
			for client := range b.clients {
				client.close()
			}
			b.clients = make(map[*ActivityClient]bool)
			b.mu.Unlock()
			return
		}
	}
}

func (b *ActivityBroadcaster) dropClient(client *ActivityClient) {
	b.mu.Lock()
	if _, exists := b.clients[client]; exists {
		delete(b.clients, client)
		client.close()
	}
	count := len(b.clients)
	b.mu.Unlock()
	b.logger.System().Info("Activity client unregistered", "totalClients", count)
}

// ServeClient attaches a freshly-upgraded websocket connection to the feed
// and blocks until the client disconnects or the feed shuts down.
func (b *ActivityBroadcaster) ServeClient(conn *websocket.Conn) {
	client := &ActivityClient{
		conn:      conn,
		send:      make(chan []byte, 32),
		heartbeat: b.heartbeat,
	}
	go client.writePump()

	select {
	case b.register <- client:
	case <-b.done:
		client.close()
		return
	}

	// Read loop exists only to observe the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

// PublishConsentDecision pushes a consent decision onto the feed
func (b *ActivityBroadcaster) PublishConsentDecision(record *consent.Record) {
	b.publish("consent_decision", record)
}

// PublishTrackedEvent pushes a tracked analytics event onto the feed
func (b *ActivityBroadcaster) PublishTrackedEvent(event *analytics.Event) {
	b.publish("tracked_event", event)
}

func (b *ActivityBroadcaster) publish(messageType string, data any) {
	payload, err := json.Marshal(ActivityMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		b.logger.System().Error("Failed to marshal activity message", "type", messageType, "error", err.Error())
		return
	}

	// Never block the publishing request on a saturated feed.
	select {
	case b.broadcast <- payload:
	default:
		b.logger.System().Warn("Activity feed saturated, message dropped", "type", messageType)
	}
}

// ClientCount returns the number of connected clients
func (b *ActivityBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
