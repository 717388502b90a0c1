package events

import (
	"time"

	"github.com/spec-kit/chamados-service/internal/domain"
)

// EventType enumerates supported event identifiers. The values are the wire
// strings the dashboard already understands, so they stay in Portuguese.
type EventType string

const (
	EventTicketCreated    EventType = "novo_chamado"
	EventTicketUpdated    EventType = "atualizacao_chamado"
	EventTicketRemoved    EventType = "remover_chamado"
	EventOpenBoardCleared EventType = "limpar_chamados_abertos"
)

// Event represents a sync notification emitted by the ticket service. It
// carries enough payload for a viewer to apply the change without
// re-fetching the open set.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	Origin    string             `json:"origin,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Ticket    *domain.OpenTicket `json:"ticket,omitempty"`
	TicketID  string             `json:"ticketId,omitempty"`
}

// TicketUpserted builds the event for a created or replaced open ticket.
func TicketUpserted(ticket domain.OpenTicket, created bool) Event {
	eventType := EventTicketUpdated
	if created {
		eventType = EventTicketCreated
	}
	return Event{Type: eventType, Ticket: &ticket, TicketID: ticket.ID}
}

// TicketRemoved builds the event for a deleted open ticket.
func TicketRemoved(id string) Event {
	return Event{Type: EventTicketRemoved, TicketID: id}
}

// OpenBoardCleared builds the event for a bulk clear of the open set.
func OpenBoardCleared() Event {
	return Event{Type: EventOpenBoardCleared}
}
