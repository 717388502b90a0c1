package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/events"
	"github.com/spec-kit/chamados-service/internal/repository"
	"github.com/spec-kit/chamados-service/internal/service"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

// memStore is an in-memory TicketStore with failure injection.
type memStore struct {
	open     map[string]domain.OpenTicket
	archived map[string]domain.ArchivedTicket
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		open:     make(map[string]domain.OpenTicket),
		archived: make(map[string]domain.ArchivedTicket),
	}
}

func (m *memStore) fail() error {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	return nil
}

func (m *memStore) ListOpen(context.Context) ([]domain.OpenTicket, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	result := []domain.OpenTicket{}
	for _, t := range m.open {
		result = append(result, t)
	}
	return result, nil
}

func (m *memStore) UpsertOpen(_ context.Context, t domain.OpenTicket) (bool, error) {
	if err := m.fail(); err != nil {
		return false, err
	}
	_, exists := m.open[t.ID]
	m.open[t.ID] = t
	return !exists, nil
}

func (m *memStore) DeleteOpen(_ context.Context, id string) error {
	if err := m.fail(); err != nil {
		return err
	}
	delete(m.open, id)
	return nil
}

func (m *memStore) ClearOpen(context.Context) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.open = make(map[string]domain.OpenTicket)
	return nil
}

func (m *memStore) ListArchived(context.Context) ([]domain.ArchivedTicket, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	result := []domain.ArchivedTicket{}
	for _, t := range m.archived {
		result = append(result, t)
	}
	return result, nil
}

func (m *memStore) UpsertArchived(_ context.Context, t domain.ArchivedTicket) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.archived[t.ID] = t
	return nil
}

func (m *memStore) ClearArchived(context.Context) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.archived = make(map[string]domain.ArchivedTicket)
	return nil
}

func (m *memStore) ArchiveOpen(_ context.Context, t domain.ArchivedTicket, openID string) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.archived[t.ID] = t
	delete(m.open, openID)
	return nil
}

var _ repository.TicketStore = (*memStore)(nil)

func newTestService(store *memStore) (*service.TicketService, *[]events.Event) {
	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	dispatcher.Subscribe(func(_ context.Context, e events.Event) error {
		*published = append(*published, e)
		return nil
	})
	svc := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, published
}

func TestSubmitOpenTicketCreatesAndNotifies(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	ticket := domain.OpenTicket{ID: "T1", Client: "Acme", Operator: "ana"}
	require.NoError(t, svc.SubmitOpenTicket(context.Background(), ticket))

	listed, err := svc.ListOpenTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "T1", listed[0].ID)

	require.Len(t, *published, 1)
	require.Equal(t, events.EventTicketCreated, (*published)[0].Type)
	require.Equal(t, "Acme", (*published)[0].Ticket.Client)
}

func TestSubmitOpenTicketReplacesLastWriterWins(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1", Operator: "ana"}))
	require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1", Operator: "bruno"}))

	listed, err := svc.ListOpenTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "bruno", listed[0].Operator)

	require.Len(t, *published, 2)
	require.Equal(t, events.EventTicketCreated, (*published)[0].Type)
	require.Equal(t, events.EventTicketUpdated, (*published)[1].Type)
}

func TestSubmitOpenTicketUpsertIdempotent(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)

	ticket := domain.OpenTicket{
		ID:              "T1",
		Client:          "Acme",
		TimerState:      domain.TimerRunning,
		AccumulatedTime: "00:12:30",
	}
	require.NoError(t, svc.SubmitOpenTicket(context.Background(), ticket))
	after1 := store.open["T1"]
	require.NoError(t, svc.SubmitOpenTicket(context.Background(), ticket))
	after2 := store.open["T1"]

	require.Equal(t, after1, after2)
	require.Len(t, store.open, 1)
}

func TestSubmitOpenTicketRequiresID(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	err := svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{Client: "Acme"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	require.Empty(t, store.open)
	require.Empty(t, *published)
}

func TestSubmitOpenTicketStoreFailureDoesNotPublish(t *testing.T) {
	store := newMemStore()
	store.failNext = errors.New("disk full")
	svc, published := newTestService(store)

	err := svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "STORAGE_FAILURE", domainErr.Code)
	require.Empty(t, *published)
}

func TestRemoveOpenTicketNotifiesAndIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1"}))

	require.NoError(t, svc.RemoveOpenTicket(context.Background(), "T1"))
	listed, err := svc.ListOpenTickets(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)

	// repeating the delete still succeeds and still notifies
	require.NoError(t, svc.RemoveOpenTicket(context.Background(), "T1"))

	require.Len(t, *published, 3)
	require.Equal(t, events.EventTicketRemoved, (*published)[1].Type)
	require.Equal(t, "T1", (*published)[1].TicketID)
	require.Equal(t, events.EventTicketRemoved, (*published)[2].Type)
}

func TestClearOpenTicketsNotifies(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	for _, id := range []string{"T1", "T2", "T3"} {
		require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: id}))
	}

	require.NoError(t, svc.ClearOpenTickets(context.Background()))

	listed, err := svc.ListOpenTickets(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
	require.Equal(t, events.EventOpenBoardCleared, (*published)[len(*published)-1].Type)
}

func TestSubmitArchivedTicketDoesNotNotify(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	require.NoError(t, svc.SubmitArchivedTicket(context.Background(), domain.ArchivedTicket{ID: "T1", ArchivedBy: "ana"}))
	require.Len(t, store.archived, 1)
	require.Empty(t, *published)
}

func TestArchiveTicketMovesAndNotifiesRemoval(t *testing.T) {
	store := newMemStore()
	svc, published := newTestService(store)

	require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1"}))

	archived := domain.ArchivedTicket{ID: "T1", ArchivedBy: "ana", ElapsedTime: "01:02:03"}
	require.NoError(t, svc.ArchiveTicket(context.Background(), archived))

	require.Empty(t, store.open)
	require.Equal(t, "ana", store.archived["T1"].ArchivedBy)

	last := (*published)[len(*published)-1]
	require.Equal(t, events.EventTicketRemoved, last.Type)
	require.Equal(t, "T1", last.TicketID)
}

func TestServiceWithoutDispatcher(t *testing.T) {
	store := newMemStore()
	svc := service.NewTicketService(service.TicketDependencies{
		Store:  store,
		Logger: zap.NewNop(),
	})

	require.NoError(t, svc.SubmitOpenTicket(context.Background(), domain.OpenTicket{ID: "T1"}))
	require.NoError(t, svc.RemoveOpenTicket(context.Background(), "T1"))
	require.NoError(t, svc.ClearOpenTickets(context.Background()))
}
