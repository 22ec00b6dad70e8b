package inspection

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/bundle"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeBundleRepository struct {
	bundles map[uuid.UUID]*entities.FridgeBundle
	items   map[uuid.UUID]*entities.FridgeItem
	saved   []*entities.FridgeItem
}

func newFakeBundleRepository() *fakeBundleRepository {
	return &fakeBundleRepository{
		bundles: make(map[uuid.UUID]*entities.FridgeBundle),
		items:   make(map[uuid.UUID]*entities.FridgeItem),
	}
}

func (f *fakeBundleRepository) WithTx(tx *gorm.DB) bundle.BundleRepository { return f }

func (f *fakeBundleRepository) CreateBundle(ctx context.Context, b *entities.FridgeBundle) error {
	f.bundles[b.ID] = b
	return nil
}

func (f *fakeBundleRepository) GetBundleByID(ctx context.Context, id uuid.UUID) (*entities.FridgeBundle, error) {
	b, ok := f.bundles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeBundleRepository) GetBundlesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.FridgeBundle, error) {
	return nil, nil
}

func (f *fakeBundleRepository) GetActiveBundlesByCompartment(ctx context.Context, compartmentID uuid.UUID) ([]*entities.FridgeBundle, error) {
	return nil, nil
}

func (f *fakeBundleRepository) SoftDeleteBundle(ctx context.Context, bundleID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeBundleRepository) CreateItem(ctx context.Context, item *entities.FridgeItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeBundleRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.FridgeItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeBundleRepository) SaveItem(ctx context.Context, item *entities.FridgeItem) error {
	f.items[item.ID] = item
	f.saved = append(f.saved, item)
	return nil
}

func testSession(compartmentID uuid.UUID) *entities.InspectionSession {
	return &entities.InspectionSession{
		ID:            uuid.New(),
		CompartmentID: compartmentID,
		Status:        entities.SessionStatusInProgress,
		StartedAt:     time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestBuildActionRejectsUnknownType(t *testing.T) {
	s := &inspectionService{}
	session := testSession(uuid.New())

	_, err := s.buildAction(context.Background(), newFakeBundleRepository(), session,
		domain.InspectionActionRequest{ActionType: "SHRUG"}, uuid.New(), time.Now())
	if !errors.Is(err, domain.ErrInvalidActionType) {
		t.Fatalf("buildAction = %v, want ErrInvalidActionType", err)
	}
}

func TestBuildActionRejectsForeignBundle(t *testing.T) {
	s := &inspectionService{}
	repo := newFakeBundleRepository()
	session := testSession(uuid.New())

	foreign := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: uuid.New(), // not the session's compartment
		Status:        entities.BundleStatusActive,
	}
	repo.bundles[foreign.ID] = foreign

	_, err := s.buildAction(context.Background(), repo, session, domain.InspectionActionRequest{
		BundleID:   foreign.ID.String(),
		ActionType: entities.ActionWarnStoragePoor,
	}, uuid.New(), time.Now())

	var domainErr *domain.Error
	if !errors.As(err, &domainErr) || domainErr.Code != "BUNDLE_NOT_IN_COMPARTMENT" {
		t.Fatalf("buildAction = %v, want BUNDLE_NOT_IN_COMPARTMENT", err)
	}
}

func TestBuildActionRejectsItemBundleMismatch(t *testing.T) {
	s := &inspectionService{}
	repo := newFakeBundleRepository()
	session := testSession(uuid.New())

	declared := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: session.CompartmentID,
		Status:        entities.BundleStatusActive,
	}
	repo.bundles[declared.ID] = declared

	item := &entities.FridgeItem{
		ID:       uuid.New(),
		BundleID: uuid.New(), // lives in another bundle
		Status:   entities.ItemStatusActive,
	}
	repo.items[item.ID] = item

	_, err := s.buildAction(context.Background(), repo, session, domain.InspectionActionRequest{
		BundleID:   declared.ID.String(),
		ItemID:     item.ID.String(),
		ActionType: entities.ActionWarnInfoMismatch,
	}, uuid.New(), time.Now())
	if !errors.Is(err, domain.ErrItemNotInBundle) {
		t.Fatalf("buildAction = %v, want ErrItemNotInBundle", err)
	}
}

func TestBuildActionDisposeSoftDeletesItem(t *testing.T) {
	s := &inspectionService{}
	repo := newFakeBundleRepository()
	session := testSession(uuid.New())

	b := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: session.CompartmentID,
		Status:        entities.BundleStatusActive,
	}
	repo.bundles[b.ID] = b

	item := &entities.FridgeItem{
		ID:       uuid.New(),
		BundleID: b.ID,
		Status:   entities.ItemStatusActive,
	}
	repo.items[item.ID] = item

	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	action, err := s.buildAction(context.Background(), repo, session, domain.InspectionActionRequest{
		ItemID:     item.ID.String(),
		ActionType: entities.ActionDisposeExpired,
		Note:       "expired last week",
	}, uuid.New(), now)
	if err != nil {
		t.Fatalf("buildAction: %v", err)
	}

	if item.Status != entities.ItemStatusDeleted {
		t.Errorf("item status = %q, want deleted", item.Status)
	}
	if item.DeletedAt == nil || !item.DeletedAt.Equal(now) {
		t.Errorf("deleted_at = %v, want %v", item.DeletedAt, now)
	}
	if len(repo.saved) != 1 {
		t.Errorf("disposal not persisted, %d saves", len(repo.saved))
	}
	if action.BundleID == nil || *action.BundleID != b.ID {
		t.Errorf("action bundle not derived from item")
	}
}

func TestBuildActionDisposeRequiresItem(t *testing.T) {
	s := &inspectionService{}
	session := testSession(uuid.New())

	_, err := s.buildAction(context.Background(), newFakeBundleRepository(), session,
		domain.InspectionActionRequest{ActionType: entities.ActionDisposeExpired}, uuid.New(), time.Now())

	var domainErr *domain.Error
	if !errors.As(err, &domainErr) || domainErr.Code != "INVALID_ACTION_TARGET" {
		t.Fatalf("buildAction = %v, want INVALID_ACTION_TARGET", err)
	}
}

func TestBuildActionDisposeAlreadyDeletedItem(t *testing.T) {
	s := &inspectionService{}
	repo := newFakeBundleRepository()
	session := testSession(uuid.New())

	b := &entities.FridgeBundle{
		ID:            uuid.New(),
		CompartmentID: session.CompartmentID,
		Status:        entities.BundleStatusActive,
	}
	repo.bundles[b.ID] = b

	item := &entities.FridgeItem{
		ID:       uuid.New(),
		BundleID: b.ID,
		Status:   entities.ItemStatusDeleted,
	}
	repo.items[item.ID] = item

	_, err := s.buildAction(context.Background(), repo, session, domain.InspectionActionRequest{
		ItemID:     item.ID.String(),
		ActionType: entities.ActionDisposeExpired,
	}, uuid.New(), time.Now())
	if !errors.Is(err, domain.ErrItemNotActive) {
		t.Fatalf("buildAction = %v, want ErrItemNotActive", err)
	}
}
