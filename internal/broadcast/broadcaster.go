package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/events"
	"github.com/spec-kit/chamados-service/internal/observability"
)

// Conn is the transport handle of a viewer connection. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Session is a connected viewer. Sessions are ephemeral and owned
// exclusively by the Broadcaster: created on Register, destroyed on
// Unregister or on the first failed send.
type Session struct {
	ID   string
	conn Conn

	// writeMu serializes sends: the websocket connection supports only
	// one concurrent writer, while Publish is reached from every request
	// goroutine and from the relay goroutine.
	writeMu sync.Mutex
}

func (s *Session) send(event events.Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(event)
}

// Broadcaster fans sync events out to every registered viewer session.
// The protocol does no replay or buffering: a viewer must fetch the open
// set over the list endpoint after connecting, then apply events as deltas.
type Broadcaster struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *zap.Logger, metrics *observability.Metrics) *Broadcaster {
	return &Broadcaster{
		sessions: make(map[string]*Session),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register adds a viewer connection to the live set.
func (b *Broadcaster) Register(conn Conn) *Session {
	session := &Session{ID: uuid.NewString(), conn: conn}
	b.mu.Lock()
	b.sessions[session.ID] = session
	count := len(b.sessions)
	b.mu.Unlock()

	b.metrics.SetViewerSessions(count)
	b.logger.Info("viewer connected", zap.String("session_id", session.ID), zap.Int("sessions", count))
	return session
}

// Unregister removes a session. Safe to call more than once, and safe for
// sessions that were already dropped after a send failure.
func (b *Broadcaster) Unregister(session *Session) {
	if session == nil {
		return
	}
	b.mu.Lock()
	_, present := b.sessions[session.ID]
	delete(b.sessions, session.ID)
	count := len(b.sessions)
	b.mu.Unlock()

	if present {
		b.metrics.SetViewerSessions(count)
		b.logger.Info("viewer disconnected", zap.String("session_id", session.ID), zap.Int("sessions", count))
	}
}

// Publish delivers the event to every registered session, best effort and
// at most once per session. A failed send drops that session and never
// blocks delivery to the others; failures are logged, not surfaced, so the
// originating write can still succeed.
func (b *Broadcaster) Publish(event events.Event) {
	b.mu.Lock()
	sessions := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.Unlock()

	var failed []*Session
	for _, session := range sessions {
		if err := session.send(event); err != nil {
			b.logger.Warn("broadcast send failed",
				zap.String("session_id", session.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			b.metrics.RecordBroadcastFailure(string(event.Type))
			failed = append(failed, session)
			continue
		}
		b.metrics.RecordBroadcastDelivery(string(event.Type))
	}
	for _, session := range failed {
		_ = session.conn.Close()
		b.Unregister(session)
	}
}

// SessionCount reports the number of live viewer sessions.
func (b *Broadcaster) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// HandleEvent adapts the broadcaster to the dispatcher's handler signature.
func (b *Broadcaster) HandleEvent(_ context.Context, event events.Event) error {
	b.Publish(event)
	return nil
}
