package service

import (
	"context"
	"strings"

	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/repository"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

// BoardService serves the generic chamados board.
type BoardService struct {
	store repository.BoardStore
}

// NewBoardService constructs the service.
func NewBoardService(store repository.BoardStore) *BoardService {
	return &BoardService{store: store}
}

// ListEntries returns a page of board entries, newest first.
func (s *BoardService) ListEntries(ctx context.Context, limit, offset int) ([]domain.BoardEntry, error) {
	entries, err := s.store.ListEntries(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return entries, nil
}

// CreateEntry validates and persists a new board entry.
func (s *BoardService) CreateEntry(ctx context.Context, title, description string) (*domain.BoardEntry, error) {
	entry := &domain.BoardEntry{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if entry.Title == "" || entry.Description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return entry, nil
}

// GetEntry fetches one entry by id.
func (s *BoardService) GetEntry(ctx context.Context, id int64) (*domain.BoardEntry, error) {
	return s.store.GetEntry(ctx, id)
}
