package handlers

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/internal/api/presenters"
	"Fridge-Management-Backend/pkg/inspection"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InspectionHandler interface {
		Start(c *fiber.Ctx) error
		RecordActions(c *fiber.Ctx) error
		Submit(c *fiber.Ctx) error
		Cancel(c *fiber.Ctx) error
		UploadEvidence(c *fiber.Ctx) error
	}

	inspectionHandler struct {
		inspectionService inspection.InspectionService
		validator         *validator.Validate
	}
)

func NewInspectionHandler(inspectionService inspection.InspectionService, validator *validator.Validate) InspectionHandler {
	return &inspectionHandler{
		inspectionService: inspectionService,
		validator:         validator,
	}
}

func (h *inspectionHandler) Start(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	req := new(domain.StartInspectionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartInspection, err)
	}

	res, err := h.inspectionService.Start(c.Context(), *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessStartInspection)
}

func (h *inspectionHandler) RecordActions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	sessionID := c.Params("id")
	req := new(domain.RecordActionsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordActions, err)
	}

	res, err := h.inspectionService.RecordActions(c.Context(), sessionID, *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordActions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecordActions)
}

func (h *inspectionHandler) Submit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	sessionID := c.Params("id")

	res, err := h.inspectionService.Submit(c.Context(), sessionID, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSubmitInspection)
}

func (h *inspectionHandler) Cancel(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	sessionID := c.Params("id")

	res, err := h.inspectionService.Cancel(c.Context(), sessionID, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelInspection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCancelInspection)
}

func (h *inspectionHandler) UploadEvidence(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	sessionID := c.Params("id")

	photo, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	url, err := h.inspectionService.UploadEvidence(c.Context(), sessionID, photo, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadEvidence, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"photo_url": url}, fiber.StatusOK, domain.MessageSuccessUploadEvidence)
}
