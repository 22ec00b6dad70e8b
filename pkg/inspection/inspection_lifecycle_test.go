package inspection

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/fridge"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeInspectionRepository struct {
	sessions map[uuid.UUID]*entities.InspectionSession
	actions  []*entities.InspectionAction
}

func newFakeInspectionRepository() *fakeInspectionRepository {
	return &fakeInspectionRepository{sessions: make(map[uuid.UUID]*entities.InspectionSession)}
}

func (f *fakeInspectionRepository) WithTx(tx *gorm.DB) InspectionRepository { return f }

func (f *fakeInspectionRepository) CreateSession(ctx context.Context, session *entities.InspectionSession) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeInspectionRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeInspectionRepository) GetSessionForUpdate(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error) {
	return f.GetSessionByID(ctx, id)
}

func (f *fakeInspectionRepository) HasInProgressSession(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	for _, session := range f.sessions {
		if session.CompartmentID == compartmentID && session.IsInProgress() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInspectionRepository) SaveSession(ctx context.Context, session *entities.InspectionSession) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeInspectionRepository) CreateActions(ctx context.Context, actions []*entities.InspectionAction) error {
	f.actions = append(f.actions, actions...)
	return nil
}

func (f *fakeInspectionRepository) GetActionsBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.InspectionAction, error) {
	var out []*entities.InspectionAction
	for _, action := range f.actions {
		if action.SessionID == sessionID {
			out = append(out, action)
		}
	}
	return out, nil
}

type fakeCompartmentStore struct {
	compartments map[uuid.UUID]*entities.FridgeCompartment
	activeCount  int64
}

func newFakeCompartmentStore() *fakeCompartmentStore {
	return &fakeCompartmentStore{compartments: make(map[uuid.UUID]*entities.FridgeCompartment)}
}

func (f *fakeCompartmentStore) WithTx(tx *gorm.DB) fridge.FridgeRepository { return f }

func (f *fakeCompartmentStore) CreateFridgeUnit(ctx context.Context, unit *entities.FridgeUnit) error {
	return nil
}

func (f *fakeCompartmentStore) GetFridgeUnitByID(ctx context.Context, id uuid.UUID) (*entities.FridgeUnit, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompartmentStore) GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]*entities.FridgeUnit, error) {
	return nil, nil
}

func (f *fakeCompartmentStore) GetCompartmentByID(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	c, ok := f.compartments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCompartmentStore) GetCompartmentForUpdate(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	return f.GetCompartmentByID(ctx, id)
}

func (f *fakeCompartmentStore) GetCompartmentsByFloor(ctx context.Context, floor int) ([]*entities.FridgeCompartment, error) {
	return nil, nil
}

func (f *fakeCompartmentStore) SaveCompartment(ctx context.Context, compartment *entities.FridgeCompartment) error {
	f.compartments[compartment.ID] = compartment
	return nil
}

func (f *fakeCompartmentStore) HasInProgressInspection(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeCompartmentStore) CountActiveBundles(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	return f.activeCount, nil
}

func (f *fakeCompartmentStore) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeCompartmentStore) CreateRoom(ctx context.Context, room *entities.Room) error { return nil }

func (f *fakeCompartmentStore) GetRoomsByFloor(ctx context.Context, floor int) ([]*entities.Room, error) {
	return nil, nil
}

func lifecycleService(inspectionRepo *fakeInspectionRepository, bundleRepo *fakeBundleRepository, compartments *fakeCompartmentStore, at time.Time) *inspectionService {
	return &inspectionService{
		runTx:                func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		inspectionRepository: inspectionRepo,
		bundleRepository:     bundleRepo,
		fridgeRepository:     compartments,
		now:                  func() time.Time { return at },
	}
}

func TestStartRejectsSecondSession(t *testing.T) {
	inspectionRepo := newFakeInspectionRepository()
	compartments := newFakeCompartmentStore()
	compartment := &entities.FridgeCompartment{ID: uuid.New()}
	compartments.compartments[compartment.ID] = compartment

	running := testSession(compartment.ID)
	inspectionRepo.sessions[running.ID] = running

	s := lifecycleService(inspectionRepo, newFakeBundleRepository(), compartments, time.Now())
	_, err := s.Start(context.Background(), domain.StartInspectionRequest{
		CompartmentID: compartment.ID.String(),
	}, uuid.New().String(), domain.RoleSupervisor)
	if !errors.Is(err, domain.ErrSessionAlreadyActive) {
		t.Fatalf("Start = %v, want ErrSessionAlreadyActive", err)
	}
}

func TestSubmitStampsSubmitter(t *testing.T) {
	inspectionRepo := newFakeInspectionRepository()
	compartments := newFakeCompartmentStore()
	compartments.activeCount = 4

	session := testSession(uuid.New())
	inspectionRepo.sessions[session.ID] = session

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	submitter := uuid.New()
	s := lifecycleService(inspectionRepo, newFakeBundleRepository(), compartments, now)

	res, err := s.Submit(context.Background(), session.ID.String(), submitter.String(), domain.RoleSupervisor)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if session.Status != entities.SessionStatusSubmitted {
		t.Errorf("status = %q, want submitted", session.Status)
	}
	if session.TotalBundleCount != 4 {
		t.Errorf("total bundle count = %d, want 4", session.TotalBundleCount)
	}
	if res.Session.SubmittedBy != submitter.String() {
		t.Errorf("submitted_by = %q, want %s", res.Session.SubmittedBy, submitter)
	}
	if res.Session.SubmittedAt == nil || !res.Session.SubmittedAt.Equal(now) {
		t.Errorf("submitted_at = %v, want %v", res.Session.SubmittedAt, now)
	}
}

func TestSubmitTwiceRejected(t *testing.T) {
	inspectionRepo := newFakeInspectionRepository()
	session := testSession(uuid.New())
	inspectionRepo.sessions[session.ID] = session

	s := lifecycleService(inspectionRepo, newFakeBundleRepository(), newFakeCompartmentStore(), time.Now())
	submitter := uuid.New().String()

	if _, err := s.Submit(context.Background(), session.ID.String(), submitter, domain.RoleAdmin); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := s.Submit(context.Background(), session.ID.String(), submitter, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrSessionNotInProgress) {
		t.Fatalf("second Submit = %v, want ErrSessionNotInProgress", err)
	}
}

func TestCancelKeepsAppliedDisposals(t *testing.T) {
	inspectionRepo := newFakeInspectionRepository()
	bundleRepo := newFakeBundleRepository()
	session := testSession(uuid.New())
	inspectionRepo.sessions[session.ID] = session

	b := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: session.CompartmentID,
		Status:        entities.BundleStatusActive,
	}
	bundleRepo.bundles[b.ID] = b
	item := &entities.FridgeItem{ID: uuid.New(), BundleID: b.ID, Status: entities.ItemStatusActive}
	bundleRepo.items[item.ID] = item

	now := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	s := lifecycleService(inspectionRepo, bundleRepo, newFakeCompartmentStore(), now)

	_, err := s.RecordActions(context.Background(), session.ID.String(), domain.RecordActionsRequest{
		Actions: []domain.InspectionActionRequest{{
			ItemID:     item.ID.String(),
			ActionType: entities.ActionDisposeExpired,
		}},
	}, uuid.New().String(), domain.RoleSupervisor)
	if err != nil {
		t.Fatalf("RecordActions: %v", err)
	}

	res, err := s.Cancel(context.Background(), session.ID.String(), uuid.New().String(), domain.RoleSupervisor)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if res.Status != entities.SessionStatusCancelled {
		t.Errorf("status = %q, want cancelled", res.Status)
	}
	if item.Status != entities.ItemStatusDeleted {
		t.Errorf("disposed item reverted to %q on cancel", item.Status)
	}
}

func TestRecordActionsRejectsItemOutsideCompartment(t *testing.T) {
	inspectionRepo := newFakeInspectionRepository()
	bundleRepo := newFakeBundleRepository()
	session := testSession(uuid.New())
	inspectionRepo.sessions[session.ID] = session

	foreign := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: uuid.New(), // different compartment
		Status:        entities.BundleStatusActive,
	}
	bundleRepo.bundles[foreign.ID] = foreign
	item := &entities.FridgeItem{ID: uuid.New(), BundleID: foreign.ID, Status: entities.ItemStatusActive}
	bundleRepo.items[item.ID] = item

	s := lifecycleService(inspectionRepo, bundleRepo, newFakeCompartmentStore(), time.Now())
	_, err := s.RecordActions(context.Background(), session.ID.String(), domain.RecordActionsRequest{
		Actions: []domain.InspectionActionRequest{{
			ItemID:     item.ID.String(),
			ActionType: entities.ActionDisposeExpired,
		}},
	}, uuid.New().String(), domain.RoleSupervisor)

	var domainErr *domain.Error
	if !errors.As(err, &domainErr) || domainErr.Code != "BUNDLE_NOT_IN_COMPARTMENT" {
		t.Fatalf("RecordActions = %v, want BUNDLE_NOT_IN_COMPARTMENT", err)
	}
	if item.Status != entities.ItemStatusActive {
		t.Errorf("item in another compartment was disposed, status = %q", item.Status)
	}
}
