package domain

import "time"

var (
	MessageSuccessCreateBundle = "bundle created successfully"
	MessageSuccessUpdateBundle = "bundle updated successfully"
	MessageSuccessDeleteBundle = "bundle deleted successfully"
	MessageSuccessGetBundles   = "bundles retrieved successfully"
	MessageSuccessAddItem      = "item added successfully"
	MessageSuccessUpdateItem   = "item updated successfully"
	MessageSuccessRemoveItem   = "item removed successfully"

	MessageFailedCreateBundle = "failed to create bundle"
	MessageFailedUpdateBundle = "failed to update bundle"
	MessageFailedDeleteBundle = "failed to delete bundle"
	MessageFailedGetBundles   = "failed to retrieve bundles"
	MessageFailedAddItem      = "failed to add item"
	MessageFailedUpdateItem   = "failed to update item"
	MessageFailedRemoveItem   = "failed to remove item"
)

type (
	BundleItemRequest struct {
		Name        string `json:"name" validate:"required"`
		Quantity    int    `json:"quantity" validate:"required,min=1"`
		UnitMeasure string `json:"unit_measure" validate:"required"`
		ExpiryDate  string `json:"expiry_date" validate:"required"`
	}

	CreateBundleRequest struct {
		CompartmentID string              `json:"compartment_id" validate:"required,uuid"`
		Items         []BundleItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	UpdateItemRequest struct {
		Name        string `json:"name" validate:"omitempty"`
		Quantity    int    `json:"quantity" validate:"omitempty,min=1"`
		UnitMeasure string `json:"unit_measure" validate:"omitempty"`
		ExpiryDate  string `json:"expiry_date" validate:"omitempty"`
	}

	ItemResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Quantity    int       `json:"quantity"`
		UnitMeasure string    `json:"unit_measure"`
		ExpiryDate  time.Time `json:"expiry_date"`
		Freshness   string    `json:"freshness"`
		Status      string    `json:"status"`
	}

	BundleResponse struct {
		ID            string         `json:"id"`
		OwnerID       string         `json:"owner_id"`
		CompartmentID string         `json:"compartment_id"`
		Label         string         `json:"label"`
		LabelNumber   int            `json:"label_number"`
		Status        string         `json:"status"`
		Items         []ItemResponse `json:"items"`
		CreatedAt     time.Time      `json:"created_at"`
	}
)
