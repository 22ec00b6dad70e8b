package inspection

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/bundle"
	"Fridge-Management-Backend/pkg/fridge"
	"Fridge-Management-Backend/pkg/notification"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notificationTTLHours = 72

type (
	InspectionService interface {
		Start(ctx context.Context, req domain.StartInspectionRequest, userID string, role string) (domain.StartInspectionResponse, error)
		RecordActions(ctx context.Context, sessionID string, req domain.RecordActionsRequest, userID string, role string) (domain.InspectionSessionResponse, error)
		Submit(ctx context.Context, sessionID string, userID string, role string) (domain.SubmitInspectionResponse, error)
		Cancel(ctx context.Context, sessionID string, userID string, role string) (domain.InspectionSessionResponse, error)
		UploadEvidence(ctx context.Context, sessionID string, photo *multipart.FileHeader, role string) (string, error)
	}

	// EvidenceStore keeps inspection photos in object storage and returns a
	// public link for the action row.
	EvidenceStore interface {
		UploadEvidencePhoto(fileName string, photo *multipart.FileHeader) (string, error)
	}

	inspectionService struct {
		runTx                func(fn func(tx *gorm.DB) error) error
		inspectionRepository InspectionRepository
		bundleRepository     bundle.BundleRepository
		fridgeRepository     fridge.FridgeRepository
		bundleService        bundle.BundleService
		notificationGateway  notification.NotificationGateway
		preferenceGateway    notification.PreferenceGateway
		evidenceStore        EvidenceStore
		now                  func() time.Time
	}

	// ownerSummary accumulates what an inspection found in one owner's
	// bundles; it drives the per-user notification on submit.
	ownerSummary struct {
		warnCount    int
		disposeCount int
	}
)

func NewInspectionService(
	db *gorm.DB,
	inspectionRepository InspectionRepository,
	bundleRepository bundle.BundleRepository,
	fridgeRepository fridge.FridgeRepository,
	bundleService bundle.BundleService,
	notificationGateway notification.NotificationGateway,
	preferenceGateway notification.PreferenceGateway,
	evidenceStore EvidenceStore,
) InspectionService {
	return &inspectionService{
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
		inspectionRepository: inspectionRepository,
		bundleRepository:     bundleRepository,
		fridgeRepository:     fridgeRepository,
		bundleService:        bundleService,
		notificationGateway:  notificationGateway,
		preferenceGateway:    preferenceGateway,
		evidenceStore:        evidenceStore,
		now:                  time.Now,
	}
}

// Start opens the one allowed IN_PROGRESS session for a compartment. The
// compartment row is locked first so two supervisors cannot both pass the
// single-session check.
func (s *inspectionService) Start(ctx context.Context, req domain.StartInspectionRequest, userID string, role string) (domain.StartInspectionResponse, error) {
	if !domain.IsElevated(role) {
		return domain.StartInspectionResponse{}, domain.ErrElevatedRoleRequired
	}

	starterID, err := uuid.Parse(userID)
	if err != nil {
		return domain.StartInspectionResponse{}, domain.ErrParseUUID
	}
	compartmentID, err := uuid.Parse(req.CompartmentID)
	if err != nil {
		return domain.StartInspectionResponse{}, domain.ErrParseUUID
	}

	var session *entities.InspectionSession
	err = s.runTx(func(tx *gorm.DB) error {
		fridgeRepo := s.fridgeRepository.WithTx(tx)
		inspectionRepo := s.inspectionRepository.WithTx(tx)

		if _, err := fridgeRepo.GetCompartmentForUpdate(ctx, compartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCompartmentNotFound
			}
			return err
		}

		active, err := inspectionRepo.HasInProgressSession(ctx, compartmentID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrSessionAlreadyActive
		}

		session = &entities.InspectionSession{
			ID:            uuid.New(),
			CompartmentID: compartmentID,
			StartedBy:     starterID,
			Status:        entities.SessionStatusInProgress,
			StartedAt:     s.now(),
		}
		return inspectionRepo.CreateSession(ctx, session)
	})
	if err != nil {
		return domain.StartInspectionResponse{}, err
	}

	bundles, err := s.bundleService.GetBundlesByCompartment(ctx, req.CompartmentID)
	if err != nil {
		return domain.StartInspectionResponse{}, err
	}

	return domain.StartInspectionResponse{
		Session: sessionResponse(session, nil),
		Bundles: bundles,
	}, nil
}

// RecordActions appends audit entries to a running session. DISPOSE_EXPIRED
// soft-deletes its target item in the same transaction; every other action
// type only annotates.
func (s *inspectionService) RecordActions(ctx context.Context, sessionID string, req domain.RecordActionsRequest, userID string, role string) (domain.InspectionSessionResponse, error) {
	if !domain.IsElevated(role) {
		return domain.InspectionSessionResponse{}, domain.ErrElevatedRoleRequired
	}

	recorderID, err := uuid.Parse(userID)
	if err != nil {
		return domain.InspectionSessionResponse{}, domain.ErrParseUUID
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return domain.InspectionSessionResponse{}, domain.ErrParseUUID
	}

	var session *entities.InspectionSession
	var actions []*entities.InspectionAction
	err = s.runTx(func(tx *gorm.DB) error {
		inspectionRepo := s.inspectionRepository.WithTx(tx)
		bundleRepo := s.bundleRepository.WithTx(tx)

		session, err = inspectionRepo.GetSessionForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if !session.IsInProgress() {
			return domain.ErrSessionNotInProgress
		}

		now := s.now()
		for _, entry := range req.Actions {
			action, err := s.buildAction(ctx, bundleRepo, session, entry, recorderID, now)
			if err != nil {
				return err
			}
			actions = append(actions, action)
		}

		return inspectionRepo.CreateActions(ctx, actions)
	})
	if err != nil {
		return domain.InspectionSessionResponse{}, err
	}

	return sessionResponse(session, actions), nil
}

func (s *inspectionService) buildAction(
	ctx context.Context,
	bundleRepo bundle.BundleRepository,
	session *entities.InspectionSession,
	entry domain.InspectionActionRequest,
	recorderID uuid.UUID,
	now time.Time,
) (*entities.InspectionAction, error) {
	if !entities.IsValidActionType(entry.ActionType) {
		return nil, domain.ErrInvalidActionType
	}

	action := &entities.InspectionAction{
		ID:         uuid.New(),
		SessionID:  session.ID,
		ActionType: entry.ActionType,
		Note:       entry.Note,
		PhotoURL:   entry.PhotoURL,
		RecordedBy: recorderID,
		RecordedAt: now,
	}

	var declaredBundleID *uuid.UUID
	if entry.BundleID != "" {
		bundleID, err := uuid.Parse(entry.BundleID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		b, err := bundleRepo.GetBundleByID(ctx, bundleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrBundleNotFound
			}
			return nil, err
		}
		if b.CompartmentID != session.CompartmentID {
			return nil, domain.NewError(400, "BUNDLE_NOT_IN_COMPARTMENT", "bundle belongs to a different compartment")
		}
		declaredBundleID = &bundleID
		action.BundleID = &bundleID
	}

	if entry.ItemID != "" {
		itemID, err := uuid.Parse(entry.ItemID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		item, err := bundleRepo.GetItemByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrItemNotFound
			}
			return nil, err
		}
		if declaredBundleID != nil && item.BundleID != *declaredBundleID {
			return nil, domain.ErrItemNotInBundle
		}
		if declaredBundleID == nil {
			// The item's own bundle still has to sit inside the session's
			// compartment; a session never reaches across compartments.
			owning, err := bundleRepo.GetBundleByID(ctx, item.BundleID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, domain.ErrBundleNotFound
				}
				return nil, err
			}
			if owning.CompartmentID != session.CompartmentID {
				return nil, domain.NewError(400, "BUNDLE_NOT_IN_COMPARTMENT", "bundle belongs to a different compartment")
			}
			action.BundleID = &item.BundleID
		}
		action.ItemID = &itemID

		if entry.ActionType == entities.ActionDisposeExpired {
			if !item.IsActive() {
				return nil, domain.ErrItemNotActive
			}
			item.Status = entities.ItemStatusDeleted
			item.DeletedAt = &now
			if err := bundleRepo.SaveItem(ctx, item); err != nil {
				return nil, err
			}
		}
	} else if entry.ActionType == entities.ActionDisposeExpired {
		return nil, domain.NewError(400, "INVALID_ACTION_TARGET", "DISPOSE_EXPIRED requires an item")
	}

	return action, nil
}

// Submit finalizes the session: snapshots the compartment's active bundle
// count, flips the status and fans out one notification per distinct affected
// owner. The dedupe key (session, user) makes a retried submit safe against
// double notification.
func (s *inspectionService) Submit(ctx context.Context, sessionID string, userID string, role string) (domain.SubmitInspectionResponse, error) {
	if !domain.IsElevated(role) {
		return domain.SubmitInspectionResponse{}, domain.ErrElevatedRoleRequired
	}

	submitterID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubmitInspectionResponse{}, domain.ErrParseUUID
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return domain.SubmitInspectionResponse{}, domain.ErrParseUUID
	}

	var session *entities.InspectionSession
	var actions []*entities.InspectionAction
	summaries := make(map[uuid.UUID]*ownerSummary)

	err = s.runTx(func(tx *gorm.DB) error {
		inspectionRepo := s.inspectionRepository.WithTx(tx)
		bundleRepo := s.bundleRepository.WithTx(tx)
		fridgeRepo := s.fridgeRepository.WithTx(tx)

		session, err = inspectionRepo.GetSessionForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if !session.IsInProgress() {
			return domain.ErrSessionNotInProgress
		}

		count, err := fridgeRepo.CountActiveBundles(ctx, session.CompartmentID)
		if err != nil {
			return err
		}

		now := s.now()
		session.Status = entities.SessionStatusSubmitted
		session.SubmittedAt = &now
		session.EndedAt = &now
		session.SubmittedBy = &submitterID
		session.TotalBundleCount = int(count)
		if err := inspectionRepo.SaveSession(ctx, session); err != nil {
			return err
		}

		actions, err = inspectionRepo.GetActionsBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		owners := make(map[uuid.UUID]uuid.UUID) // bundle -> owner
		for _, action := range actions {
			if action.BundleID == nil {
				continue
			}
			if !entities.IsWarning(action.ActionType) && !entities.IsDisposal(action.ActionType) {
				continue
			}

			ownerID, ok := owners[*action.BundleID]
			if !ok {
				b, err := bundleRepo.GetBundleByID(ctx, *action.BundleID)
				if err != nil {
					return err
				}
				ownerID = b.OwnerID
				owners[*action.BundleID] = ownerID
			}

			summary := summaries[ownerID]
			if summary == nil {
				summary = &ownerSummary{}
				summaries[ownerID] = summary
			}
			if entities.IsWarning(action.ActionType) {
				summary.warnCount++
			} else {
				summary.disposeCount++
			}
		}

		return nil
	})
	if err != nil {
		return domain.SubmitInspectionResponse{}, err
	}

	// Notifications go out after the commit so a rollback can never leave
	// residents notified about an inspection that never finalized.
	notified := 0
	for ownerID, summary := range summaries {
		if !s.preferenceGateway.IsEnabled(ctx, ownerID, entities.NotificationKindInspectionResult) {
			continue
		}

		metadata, _ := json.Marshal(map[string]int{
			"warn_count":    summary.warnCount,
			"dispose_count": summary.disposeCount,
		})
		s.notificationGateway.Notify(
			ctx,
			ownerID,
			entities.NotificationKindInspectionResult,
			"fridge inspection result",
			fmt.Sprintf("an inspection flagged %d item(s) and disposed of %d item(s) in your storage", summary.warnCount, summary.disposeCount),
			fmt.Sprintf("inspection/%s/%s", session.ID, ownerID),
			string(metadata),
			notificationTTLHours,
		)
		notified++
	}

	return domain.SubmitInspectionResponse{
		Session:       sessionResponse(session, actions),
		NotifiedUsers: notified,
	}, nil
}

// Cancel terminates the session without reverting anything already applied: a
// disposal recorded mid-session stays disposed, matching the physical world.
func (s *inspectionService) Cancel(ctx context.Context, sessionID string, userID string, role string) (domain.InspectionSessionResponse, error) {
	if !domain.IsElevated(role) {
		return domain.InspectionSessionResponse{}, domain.ErrElevatedRoleRequired
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return domain.InspectionSessionResponse{}, domain.ErrParseUUID
	}

	var session *entities.InspectionSession
	err = s.runTx(func(tx *gorm.DB) error {
		inspectionRepo := s.inspectionRepository.WithTx(tx)

		session, err = inspectionRepo.GetSessionForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if !session.IsInProgress() {
			return domain.ErrSessionNotInProgress
		}

		now := s.now()
		session.Status = entities.SessionStatusCancelled
		session.EndedAt = &now
		return inspectionRepo.SaveSession(ctx, session)
	})
	if err != nil {
		return domain.InspectionSessionResponse{}, err
	}

	return sessionResponse(session, nil), nil
}

func (s *inspectionService) UploadEvidence(ctx context.Context, sessionID string, photo *multipart.FileHeader, role string) (string, error) {
	if !domain.IsElevated(role) {
		return "", domain.ErrElevatedRoleRequired
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return "", domain.ErrParseUUID
	}

	session, err := s.inspectionRepository.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrSessionNotFound
		}
		return "", err
	}
	if !session.IsInProgress() {
		return "", domain.ErrSessionNotInProgress
	}

	fileName := fmt.Sprintf("inspection-%s-%s", session.ID, uuid.New())
	return s.evidenceStore.UploadEvidencePhoto(fileName, photo)
}

func sessionResponse(session *entities.InspectionSession, actions []*entities.InspectionAction) domain.InspectionSessionResponse {
	res := domain.InspectionSessionResponse{
		ID:               session.ID.String(),
		CompartmentID:    session.CompartmentID.String(),
		Status:           session.Status,
		StartedBy:        session.StartedBy.String(),
		StartedAt:        session.StartedAt,
		EndedAt:          session.EndedAt,
		SubmittedAt:      session.SubmittedAt,
		TotalBundleCount: session.TotalBundleCount,
	}
	if session.SubmittedBy != nil {
		res.SubmittedBy = session.SubmittedBy.String()
	}

	if actions == nil {
		actions = session.Actions
	}
	for _, action := range actions {
		actionRes := domain.InspectionActionResponse{
			ID:         action.ID.String(),
			ActionType: action.ActionType,
			Note:       action.Note,
			PhotoURL:   action.PhotoURL,
			RecordedBy: action.RecordedBy.String(),
			RecordedAt: action.RecordedAt,
		}
		if action.BundleID != nil {
			actionRes.BundleID = action.BundleID.String()
		}
		if action.ItemID != nil {
			actionRes.ItemID = action.ItemID.String()
		}
		res.Actions = append(res.Actions, actionRes)
	}
	return res
}
