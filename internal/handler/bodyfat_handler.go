package handler

import (
	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type BodyFatHandler struct {
	validator *utils.Validator
}

func NewBodyFatHandler(validator *utils.Validator) *BodyFatHandler {
	return &BodyFatHandler{
		validator: validator,
	}
}

func (h *BodyFatHandler) Calculate(c *fiber.Ctx) error {
	var req models.BodyFatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := service.CalculateBodyFat(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(result, "Body fat calculated"))
}
