package domain

import "time"

var (
	MessageSuccessStartInspection  = "inspection session started"
	MessageSuccessRecordActions    = "inspection actions recorded"
	MessageSuccessSubmitInspection = "inspection session submitted"
	MessageSuccessCancelInspection = "inspection session cancelled"
	MessageSuccessUploadEvidence   = "evidence photo uploaded successfully"

	MessageFailedStartInspection  = "failed to start inspection session"
	MessageFailedRecordActions    = "failed to record inspection actions"
	MessageFailedSubmitInspection = "failed to submit inspection session"
	MessageFailedCancelInspection = "failed to cancel inspection session"
	MessageFailedUploadEvidence   = "failed to upload evidence photo"
)

type (
	StartInspectionRequest struct {
		CompartmentID string `json:"compartment_id" validate:"required,uuid"`
	}

	InspectionActionRequest struct {
		BundleID   string `json:"bundle_id" validate:"omitempty,uuid"`
		ItemID     string `json:"item_id" validate:"omitempty,uuid"`
		ActionType string `json:"action_type" validate:"required"`
		Note       string `json:"note" validate:"omitempty"`
		PhotoURL   string `json:"photo_url" validate:"omitempty"`
	}

	RecordActionsRequest struct {
		Actions []InspectionActionRequest `json:"actions" validate:"required,min=1,dive"`
	}

	InspectionActionResponse struct {
		ID         string    `json:"id"`
		BundleID   string    `json:"bundle_id,omitempty"`
		ItemID     string    `json:"item_id,omitempty"`
		ActionType string    `json:"action_type"`
		Note       string    `json:"note,omitempty"`
		PhotoURL   string    `json:"photo_url,omitempty"`
		RecordedBy string    `json:"recorded_by"`
		RecordedAt time.Time `json:"recorded_at"`
	}

	InspectionSessionResponse struct {
		ID               string                     `json:"id"`
		CompartmentID    string                     `json:"compartment_id"`
		Status           string                     `json:"status"`
		StartedBy        string                     `json:"started_by"`
		StartedAt        time.Time                  `json:"started_at"`
		EndedAt          *time.Time                 `json:"ended_at,omitempty"`
		SubmittedAt      *time.Time                 `json:"submitted_at,omitempty"`
		SubmittedBy      string                     `json:"submitted_by,omitempty"`
		TotalBundleCount int                        `json:"total_bundle_count"`
		Actions          []InspectionActionResponse `json:"actions,omitempty"`
	}

	StartInspectionResponse struct {
		Session InspectionSessionResponse `json:"session"`
		Bundles []BundleResponse          `json:"bundles"`
	}

	SubmitInspectionResponse struct {
		Session       InspectionSessionResponse `json:"session"`
		NotifiedUsers int                       `json:"notified_users"`
	}
)
