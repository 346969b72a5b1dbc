// Package chat relays JSON chat frames over a websocket. A Session owns at
// most one live connection, keyed by role and room.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/common/metrics"
	"estate-admin/internal/models"
)

const (
	directionIn  = "in"
	directionOut = "out"
)

// Conn is one live chat socket for a room.
type Conn struct {
	ws     *websocket.Conn
	room   string
	role   string
	events chan models.ChatEvent
	logger logger.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closing   atomic.Bool

	mu      sync.Mutex
	readErr error
}

func newConn(ws *websocket.Conn, role, room string, buffer int, log logger.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		ws:     ws,
		room:   room,
		role:   role,
		events: make(chan models.ChatEvent, buffer),
		logger: log.With(map[string]interface{}{"room": room, "role": role}),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.readLoop(ctx)
	return c
}

func (c *Conn) Room() string { return c.room }

// Events yields decoded frames until the connection ends.
func (c *Conn) Events() <-chan models.ChatEvent {
	return c.events
}

// Done is closed once the read loop has exited.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the read loop stopped, nil after a local Close.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

func (c *Conn) readLoop(ctx context.Context) {
	defer close(c.done)
	defer close(c.events)

	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			if !c.closing.Load() && ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.mu.Lock()
				c.readErr = errors.NewChatConnectionError(c.room, err)
				c.mu.Unlock()
				c.logger.Warn("chat read loop stopped", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var event models.ChatEvent
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Debug("dropping undecodable chat frame", map[string]interface{}{"error": err.Error()})
			metrics.ChatFrames.WithLabelValues(directionIn, "invalid").Inc()
			continue
		}
		metrics.ChatFrames.WithLabelValues(directionIn, string(event.Type)).Inc()

		select {
		case c.events <- event:
		case <-ctx.Done():
			return
		}
	}
}

// Send writes one event, filling in id, room, sender role and timestamp when absent.
func (c *Conn) Send(ctx context.Context, event models.ChatEvent) error {
	switch event.Type {
	case models.ChatMessage, models.ChatTyping, models.ChatStatus:
	default:
		return errors.NewValidationError("Unknown chat event type", fmt.Sprintf("type: %q", event.Type))
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RoomID == "" {
		event.RoomID = c.room
	}
	if event.SenderRole == "" {
		event.SenderRole = c.role
	}
	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode chat event: %w", err)
	}
	if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
		return errors.NewChatConnectionError(c.room, err)
	}
	metrics.ChatFrames.WithLabelValues(directionOut, string(event.Type)).Inc()
	return nil
}

// SendMessage sends a text message.
func (c *Conn) SendMessage(ctx context.Context, content string) error {
	return c.Send(ctx, models.ChatEvent{Type: models.ChatMessage, Content: content})
}

func (c *Conn) SendTyping(ctx context.Context, typing bool) error {
	return c.Send(ctx, models.ChatEvent{Type: models.ChatTyping, Typing: typing})
}

func (c *Conn) SendStatus(ctx context.Context, status string) error {
	return c.Send(ctx, models.ChatEvent{Type: models.ChatStatus, Status: status})
}

// Close ends the socket and waits for the read loop. Safe to call twice.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		err = c.ws.Close(websocket.StatusNormalClosure, "")
		c.cancel()
		<-c.done
	})
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil
	}
	return err
}
