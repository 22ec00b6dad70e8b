package handlers

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/internal/api/presenters"
	"Fridge-Management-Backend/pkg/allocation"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AllocationHandler interface {
		Preview(c *fiber.Ctx) error
		Apply(c *fiber.Ctx) error
	}

	allocationHandler struct {
		allocationService allocation.AllocationService
		validator         *validator.Validate
	}
)

func NewAllocationHandler(allocationService allocation.AllocationService, validator *validator.Validate) AllocationHandler {
	return &allocationHandler{
		allocationService: allocationService,
		validator:         validator,
	}
}

func (h *allocationHandler) Preview(c *fiber.Ctx) error {
	floor, err := strconv.Atoi(c.Params("floor"))
	if err != nil || floor < 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPreviewAllocation, domain.ErrInvalidFloor)
	}

	res, err := h.allocationService.Preview(c.Context(), floor)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPreviewAllocation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessPreviewAllocation)
}

func (h *allocationHandler) Apply(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	floor, err := strconv.Atoi(c.Params("floor"))
	if err != nil || floor < 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyAllocation, domain.ErrInvalidFloor)
	}

	req := new(domain.ApplyAllocationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyAllocation, err)
	}

	res, err := h.allocationService.Apply(c.Context(), floor, *req, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApplyAllocation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessApplyAllocation)
}
