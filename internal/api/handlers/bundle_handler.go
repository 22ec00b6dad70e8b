package handlers

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/internal/api/presenters"
	"Fridge-Management-Backend/pkg/bundle"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BundleHandler interface {
		CreateBundle(c *fiber.Ctx) error
		GetBundle(c *fiber.Ctx) error
		GetMyBundles(c *fiber.Ctx) error
		DeleteBundle(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		RemoveItem(c *fiber.Ctx) error
	}

	bundleHandler struct {
		bundleService bundle.BundleService
		validator     *validator.Validate
	}
)

func NewBundleHandler(bundleService bundle.BundleService, validator *validator.Validate) BundleHandler {
	return &bundleHandler{
		bundleService: bundleService,
		validator:     validator,
	}
}

func (h *bundleHandler) CreateBundle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateBundleRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBundle, err)
	}

	res, err := h.bundleService.CreateBundle(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBundle, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateBundle)
}

func (h *bundleHandler) GetBundle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	bundleID := c.Params("id")

	res, err := h.bundleService.GetBundleByID(c.Context(), bundleID, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBundles, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetBundles)
}

func (h *bundleHandler) GetMyBundles(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.bundleService.GetMyBundles(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetBundles, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetBundles)
}

func (h *bundleHandler) DeleteBundle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	bundleID := c.Params("id")

	if err := h.bundleService.DeleteBundle(c.Context(), bundleID, userID, role); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteBundle, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteBundle)
}

func (h *bundleHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	bundleID := c.Params("id")
	req := new(domain.BundleItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	res, err := h.bundleService.AddItem(c.Context(), bundleID, *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *bundleHandler) UpdateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	itemID := c.Params("itemId")
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	if err := h.bundleService.UpdateItem(c.Context(), itemID, *req, userID, role); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *bundleHandler) RemoveItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	itemID := c.Params("itemId")

	if err := h.bundleService.RemoveItem(c.Context(), itemID, userID, role); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveItem)
}
