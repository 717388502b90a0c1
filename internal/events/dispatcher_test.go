package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/events"
)

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var first, second []events.Event
	dispatcher.Subscribe(func(_ context.Context, e events.Event) error {
		first = append(first, e)
		return nil
	})
	dispatcher.Subscribe(func(_ context.Context, e events.Event) error {
		second = append(second, e)
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.TicketRemoved("T1"))
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	require.Equal(t, events.EventTicketRemoved, first[0].Type)
	require.Equal(t, "T1", first[0].TicketID)
}

func TestDispatcherStampsIDAndTimestamp(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var got events.Event
	dispatcher.Subscribe(func(_ context.Context, e events.Event) error {
		got = e
		return nil
	})

	ticket := domain.OpenTicket{ID: "T1", Client: "Acme"}
	require.NoError(t, dispatcher.Publish(context.Background(), events.TicketUpserted(ticket, true)))

	require.Equal(t, events.EventTicketCreated, got.Type)
	require.NotEmpty(t, got.ID)
	require.False(t, got.Timestamp.IsZero())
	require.NotNil(t, got.Ticket)
	require.Equal(t, "Acme", got.Ticket.Client)
}

func TestDispatcherIsolatesFailingHandler(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	dispatcher.Subscribe(func(context.Context, events.Event) error {
		return errors.New("boom")
	})
	var delivered int
	dispatcher.Subscribe(func(context.Context, events.Event) error {
		delivered++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), events.OpenBoardCleared()))
	require.Equal(t, 1, delivered)
}

func TestTicketUpsertedDistinguishesCreateFromUpdate(t *testing.T) {
	ticket := domain.OpenTicket{ID: "T1"}
	require.Equal(t, events.EventTicketCreated, events.TicketUpserted(ticket, true).Type)
	require.Equal(t, events.EventTicketUpdated, events.TicketUpserted(ticket, false).Type)
}
