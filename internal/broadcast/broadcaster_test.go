package broadcast

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/events"
	"github.com/spec-kit/chamados-service/internal/observability"
)

type fakeConn struct {
	events []events.Event
	err    error
	closed bool
}

func (c *fakeConn) WriteJSON(v any) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, v.(events.Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(zap.NewNop(), observability.NewMetrics())
}

func TestPublishFansOutToAllSessions(t *testing.T) {
	b := newTestBroadcaster()
	conns := []*fakeConn{{}, {}, {}}
	for _, conn := range conns {
		b.Register(conn)
	}

	ticket := domain.OpenTicket{ID: "T1", Client: "Acme"}
	b.Publish(events.TicketUpserted(ticket, true))

	for _, conn := range conns {
		require.Len(t, conn.events, 1)
		require.Equal(t, events.EventTicketCreated, conn.events[0].Type)
		require.Equal(t, "T1", conn.events[0].TicketID)
	}
}

func TestPublishIsolatesBrokenSession(t *testing.T) {
	b := newTestBroadcaster()
	healthy1 := &fakeConn{}
	broken := &fakeConn{err: errors.New("connection reset")}
	healthy2 := &fakeConn{}
	b.Register(healthy1)
	b.Register(broken)
	b.Register(healthy2)

	b.Publish(events.TicketRemoved("T1"))

	require.Len(t, healthy1.events, 1)
	require.Len(t, healthy2.events, 1)
	require.Empty(t, broken.events)
	require.True(t, broken.closed)
	require.Equal(t, 2, b.SessionCount())

	// the dropped session no longer receives anything
	b.Publish(events.OpenBoardCleared())
	require.Len(t, healthy1.events, 2)
	require.Empty(t, broken.events)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	b := newTestBroadcaster()
	session := b.Register(&fakeConn{})
	require.Equal(t, 1, b.SessionCount())

	b.Unregister(session)
	b.Unregister(session)
	b.Unregister(nil)
	require.Equal(t, 0, b.SessionCount())
}

func TestPublishAfterUnregisterDeliversNothing(t *testing.T) {
	b := newTestBroadcaster()
	conn := &fakeConn{}
	session := b.Register(conn)
	b.Unregister(session)

	b.Publish(events.TicketRemoved("T1"))
	require.Empty(t, conn.events)
}

// overlapConn fails the test if two writes to the same connection ever
// overlap, the condition the websocket transport forbids.
type overlapConn struct {
	writers  atomic.Int32
	overlaps atomic.Int32
	events   atomic.Int32
}

func (c *overlapConn) WriteJSON(any) error {
	if c.writers.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	time.Sleep(time.Millisecond)
	c.events.Add(1)
	c.writers.Add(-1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestConcurrentPublishSerializesPerSessionWrites(t *testing.T) {
	b := newTestBroadcaster()
	conn := &overlapConn{}
	b.Register(conn)

	const publishers = 8
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(events.TicketRemoved("T1"))
		}()
	}
	wg.Wait()

	require.Zero(t, conn.overlaps.Load(), "writes to one session must not overlap")
	require.EqualValues(t, publishers, conn.events.Load())
	require.Equal(t, 1, b.SessionCount())
}

func TestPerSessionDeliveryOrder(t *testing.T) {
	b := newTestBroadcaster()
	conn := &fakeConn{}
	b.Register(conn)

	b.Publish(events.TicketUpserted(domain.OpenTicket{ID: "T1"}, true))
	b.Publish(events.TicketUpserted(domain.OpenTicket{ID: "T1"}, false))
	b.Publish(events.TicketRemoved("T1"))

	require.Len(t, conn.events, 3)
	require.Equal(t, events.EventTicketCreated, conn.events[0].Type)
	require.Equal(t, events.EventTicketUpdated, conn.events[1].Type)
	require.Equal(t, events.EventTicketRemoved, conn.events[2].Type)
}
