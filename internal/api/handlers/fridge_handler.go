package handlers

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/internal/api/presenters"
	"Fridge-Management-Backend/pkg/fridge"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FridgeHandler interface {
		CreateFridgeUnit(c *fiber.Ctx) error
		GetFridgeUnits(c *fiber.Ctx) error
		LockCompartment(c *fiber.Ctx) error
		UnlockCompartment(c *fiber.Ctx) error
		CreateRoom(c *fiber.Ctx) error
		GetRooms(c *fiber.Ctx) error
	}

	fridgeHandler struct {
		fridgeService fridge.FridgeService
		validator     *validator.Validate
	}
)

func NewFridgeHandler(fridgeService fridge.FridgeService, validator *validator.Validate) FridgeHandler {
	return &fridgeHandler{
		fridgeService: fridgeService,
		validator:     validator,
	}
}

func (h *fridgeHandler) CreateFridgeUnit(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	req := new(domain.CreateFridgeUnitRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateFridgeUnit, err)
	}

	res, err := h.fridgeService.CreateFridgeUnit(c.Context(), *req, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateFridgeUnit, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateFridgeUnit)
}

func (h *fridgeHandler) GetFridgeUnits(c *fiber.Ctx) error {
	floor, err := strconv.Atoi(c.Query("floor"))
	if err != nil || floor < 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFridgeUnits, domain.ErrInvalidFloor)
	}

	res, err := h.fridgeService.GetFridgeUnitsByFloor(c.Context(), floor)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFridgeUnits, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFridgeUnits)
}

func (h *fridgeHandler) LockCompartment(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	compartmentID := c.Params("id")
	req := new(domain.LockCompartmentRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.fridgeService.LockCompartment(c.Context(), compartmentID, *req, role); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLockCompartment, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLockCompartment)
}

func (h *fridgeHandler) UnlockCompartment(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	compartmentID := c.Params("id")

	if err := h.fridgeService.UnlockCompartment(c.Context(), compartmentID, role); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnlockCompartment, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnlockCompartment)
}

func (h *fridgeHandler) CreateRoom(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	req := new(domain.CreateRoomRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRoom, err)
	}

	res, err := h.fridgeService.CreateRoom(c.Context(), *req, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRoom, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRoom)
}

func (h *fridgeHandler) GetRooms(c *fiber.Ctx) error {
	floor, err := strconv.Atoi(c.Query("floor"))
	if err != nil || floor < 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRooms, domain.ErrInvalidFloor)
	}

	res, err := h.fridgeService.GetRoomsByFloor(c.Context(), floor)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRooms, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRooms)
}
