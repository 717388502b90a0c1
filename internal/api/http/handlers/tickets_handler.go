package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chamados-service/internal/api/dto"
	"github.com/spec-kit/chamados-service/internal/domain"
	"github.com/spec-kit/chamados-service/internal/service"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

// TicketsHandler exposes the open and archived ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListOpen GET /tickets/open.
func (h *TicketsHandler) ListOpen(c *fiber.Ctx) error {
	tickets, err := h.service.ListOpenTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// SubmitOpen POST /tickets/open.
func (h *TicketsHandler) SubmitOpen(c *fiber.Ctx) error {
	var ticket domain.OpenTicket
	if err := c.BodyParser(&ticket); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SubmitOpenTicket(c.UserContext(), ticket); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true, ID: ticket.ID})
}

// RemoveOpen DELETE /tickets/open/:id.
func (h *TicketsHandler) RemoveOpen(c *fiber.Ctx) error {
	if err := h.service.RemoveOpenTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// ClearOpen DELETE /tickets/open.
func (h *TicketsHandler) ClearOpen(c *fiber.Ctx) error {
	if err := h.service.ClearOpenTickets(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// ListArchived GET /tickets/archived.
func (h *TicketsHandler) ListArchived(c *fiber.Ctx) error {
	tickets, err := h.service.ListArchivedTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// SubmitArchived POST /tickets/archived.
func (h *TicketsHandler) SubmitArchived(c *fiber.Ctx) error {
	var ticket domain.ArchivedTicket
	if err := c.BodyParser(&ticket); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SubmitArchivedTicket(c.UserContext(), ticket); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true, ID: ticket.ID})
}

// ClearArchived DELETE /tickets/archived.
func (h *TicketsHandler) ClearArchived(c *fiber.Ctx) error {
	if err := h.service.ClearArchivedTickets(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// Archive POST /tickets/open/:id/archive. Files the ticket and removes it
// from the open set in one transaction; the path id wins over any id in
// the body.
func (h *TicketsHandler) Archive(c *fiber.Ctx) error {
	var ticket domain.ArchivedTicket
	if err := c.BodyParser(&ticket); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket.ID = c.Params("id")
	if err := h.service.ArchiveTicket(c.UserContext(), ticket); err != nil {
		return err
	}
	return c.JSON(dto.AckResponse{OK: true, ID: ticket.ID})
}
