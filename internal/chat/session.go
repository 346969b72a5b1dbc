package chat

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"estate-admin/internal/common/auth"
	"estate-admin/internal/common/config"
	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
)

// Dialer opens a websocket. Swapped in tests.
type Dialer func(ctx context.Context, url string, opts *websocket.DialOptions) (*websocket.Conn, *http.Response, error)

type key struct {
	role string
	room string
}

// Session holds at most one live Conn. Opening a different room closes the
// previous connection first.
type Session struct {
	baseURL          string
	defaultRole      string
	buffer           int
	handshakeTimeout time.Duration
	tokens           auth.TokenSource
	dial             Dialer
	logger           logger.Logger

	mu      sync.Mutex
	current *Conn
	key     key
}

type Option func(*Session)

func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dial = d }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func NewSession(cfg config.ChatConfig, tokens auth.TokenSource, opts ...Option) *Session {
	s := &Session{
		baseURL:          strings.TrimSuffix(cfg.URL, "/"),
		defaultRole:      cfg.Role,
		buffer:           cfg.EventBuffer,
		handshakeTimeout: config.GetDuration(cfg.HandshakeTimeout),
		tokens:           tokens,
		dial:             websocket.Dial,
		logger:           logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.buffer <= 0 {
		s.buffer = 64
	}
	return s
}

// URL builds {chat.url}/ws/chat/{role}/{roomId}.
func (s *Session) URL(role, room string) string {
	return s.baseURL + "/ws/chat/" + url.PathEscape(role) + "/" + url.PathEscape(room)
}

// Open returns the live connection for (role, room), dialing a new one and
// closing any other connection when needed. An empty role uses the configured one.
func (s *Session) Open(ctx context.Context, role, room string) (*Conn, error) {
	if strings.TrimSpace(room) == "" {
		return nil, errors.NewValidationError("Room is required", "")
	}
	if role == "" {
		role = s.defaultRole
	}
	k := key{role: role, room: room}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if s.key == k && !closed(s.current) {
			return s.current, nil
		}
		s.closeCurrentLocked()
	}

	header := http.Header{}
	if s.tokens != nil {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		header.Set("Authorization", "Bearer "+token)
	}

	dialCtx := ctx
	if s.handshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, s.handshakeTimeout)
		defer cancel()
	}

	ws, _, err := s.dial(dialCtx, s.URL(role, room), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		s.logger.Error("chat dial failed", map[string]interface{}{"room": room, "role": role, "error": err.Error()})
		return nil, errors.NewChatConnectionError(room, err)
	}

	s.current = newConn(ws, role, room, s.buffer, s.logger)
	s.key = k
	s.logger.Info("chat connected", map[string]interface{}{"room": room, "role": role})
	return s.current, nil
}

// Current returns the live connection, or nil.
func (s *Session) Current() *Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || closed(s.current) {
		return nil
	}
	return s.current
}

// Close tears down the held connection, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCurrentLocked()
}

func (s *Session) closeCurrentLocked() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.logger.Info("chat disconnected", map[string]interface{}{"room": s.key.room, "role": s.key.role})
	s.current = nil
	s.key = key{}
	return err
}

func closed(c *Conn) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
