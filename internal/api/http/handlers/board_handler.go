package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chamados-service/internal/api/dto"
	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/service"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

// BoardHandler exposes the generic chamados board endpoints.
type BoardHandler struct {
	service *service.BoardService
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{service: boardService}
}

// ListEntries GET /chamados.
func (h *BoardHandler) ListEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	entries, err := h.service.ListEntries(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.BoardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, boardEntryResponse(&entry))
	}
	return c.JSON(items)
}

// CreateEntry POST /chamados.
func (h *BoardHandler) CreateEntry(c *fiber.Ctx) error {
	var req dto.CreateBoardEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.CreateEntry(c.UserContext(), req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(boardEntryResponse(entry))
}

// GetEntry GET /chamados/:id.
func (h *BoardHandler) GetEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid id", nil)
	}
	entry, err := h.service.GetEntry(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(boardEntryResponse(entry))
}

func boardEntryResponse(entry *domain.BoardEntry) dto.BoardEntryResponse {
	return dto.BoardEntryResponse{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}
}
