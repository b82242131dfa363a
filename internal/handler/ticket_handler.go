package handler

import (
	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	ticketService *service.TicketService
	validator     *utils.Validator
}

func NewTicketHandler(ticketService *service.TicketService, validator *utils.Validator) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		validator:     validator,
	}
}

func (h *TicketHandler) CreateTicket(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}
	userEmail, _ := c.Locals("userEmail").(string)

	var req models.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	ticket, err := h.ticketService.CreateTicket(c.Context(), userID, userEmail, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(ticket, "Ticket created"))
}

func (h *TicketHandler) GetMyTickets(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	tickets, err := h.ticketService.GetUserTickets(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(tickets, "Tickets retrieved"))
}

func (h *TicketHandler) GetAllTickets(c *fiber.Ctx) error {
	tickets, err := h.ticketService.GetAllTickets(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(tickets, "Tickets retrieved"))
}

func (h *TicketHandler) ReplyToTicket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid ticket ID"))
	}

	var req models.ReplyTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	ticket, err := h.ticketService.ReplyToTicket(c.Context(), uint(id), req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Ticket not found"))
	}

	return c.JSON(models.SuccessResponse(ticket, "Reply sent"))
}
