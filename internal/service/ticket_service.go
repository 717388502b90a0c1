package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/events"
	"github.com/spec-kit/chamados-service/internal/repository"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

// TicketService coordinates ticket mutations: it validates payloads, applies
// them to the store, and only after the store confirms durability publishes
// the matching sync event. A failed write never publishes.
type TicketService struct {
	store      repository.TicketStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.TicketStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListOpenTickets returns the full open set.
func (s *TicketService) ListOpenTickets(ctx context.Context) ([]domain.OpenTicket, error) {
	tickets, err := s.store.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return tickets, nil
}

// SubmitOpenTicket inserts or fully replaces an open ticket (last writer
// wins, no merge) and notifies viewers.
func (s *TicketService) SubmitOpenTicket(ctx context.Context, ticket domain.OpenTicket) error {
	ticket.ID = strings.TrimSpace(ticket.ID)
	if ticket.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}
	if ticket.TimerState == "" {
		ticket.TimerState = domain.TimerStopped
	}

	created, err := s.store.UpsertOpen(ctx, ticket)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	s.publishEvent(ctx, events.TicketUpserted(ticket, created))
	return nil
}

// RemoveOpenTicket deletes by id. A missing id is not an error, and the
// removal event is published regardless so viewers reconcile harmlessly.
func (s *TicketService) RemoveOpenTicket(ctx context.Context, id string) error {
	if err := s.store.DeleteOpen(ctx, id); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.publishEvent(ctx, events.TicketRemoved(id))
	return nil
}

// ClearOpenTickets removes every open ticket and notifies viewers.
func (s *TicketService) ClearOpenTickets(ctx context.Context) error {
	if err := s.store.ClearOpen(ctx); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.publishEvent(ctx, events.OpenBoardCleared())
	return nil
}

// ListArchivedTickets returns the archive.
func (s *TicketService) ListArchivedTickets(ctx context.Context) ([]domain.ArchivedTicket, error) {
	tickets, err := s.store.ListArchived(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return tickets, nil
}

// SubmitArchivedTicket upserts into the archive without touching the open
// table and without publishing: the open board is unaffected. Callers that
// want a real move use ArchiveTicket.
func (s *TicketService) SubmitArchivedTicket(ctx context.Context, ticket domain.ArchivedTicket) error {
	ticket.ID = strings.TrimSpace(ticket.ID)
	if ticket.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}
	if err := s.store.UpsertArchived(ctx, ticket); err != nil {
		return apperrors.NewStorageError(err)
	}
	return nil
}

// ClearArchivedTickets empties the archive.
func (s *TicketService) ClearArchivedTickets(ctx context.Context) error {
	if err := s.store.ClearArchived(ctx); err != nil {
		return apperrors.NewStorageError(err)
	}
	return nil
}

// ArchiveTicket files the ticket and removes it from the open set in one
// transaction, then tells viewers to drop it from the open board.
func (s *TicketService) ArchiveTicket(ctx context.Context, ticket domain.ArchivedTicket) error {
	ticket.ID = strings.TrimSpace(ticket.ID)
	if ticket.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}
	if err := s.store.ArchiveOpen(ctx, ticket, ticket.ID); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.publishEvent(ctx, events.TicketRemoved(ticket.ID))
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
