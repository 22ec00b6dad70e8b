package fridge

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeFridgeRepository struct {
	saved        []*entities.FridgeCompartment
	inspections  map[uuid.UUID]bool
	clearedLocks int64
}

func newFakeFridgeRepository() *fakeFridgeRepository {
	return &fakeFridgeRepository{inspections: make(map[uuid.UUID]bool)}
}

func (f *fakeFridgeRepository) WithTx(tx *gorm.DB) FridgeRepository { return f }

func (f *fakeFridgeRepository) CreateFridgeUnit(ctx context.Context, unit *entities.FridgeUnit) error {
	return nil
}

func (f *fakeFridgeRepository) GetFridgeUnitByID(ctx context.Context, id uuid.UUID) (*entities.FridgeUnit, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFridgeRepository) GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]*entities.FridgeUnit, error) {
	return nil, nil
}

func (f *fakeFridgeRepository) GetCompartmentByID(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFridgeRepository) GetCompartmentForUpdate(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFridgeRepository) GetCompartmentsByFloor(ctx context.Context, floor int) ([]*entities.FridgeCompartment, error) {
	return nil, nil
}

func (f *fakeFridgeRepository) SaveCompartment(ctx context.Context, compartment *entities.FridgeCompartment) error {
	f.saved = append(f.saved, compartment)
	return nil
}

func (f *fakeFridgeRepository) HasInProgressInspection(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	return f.inspections[compartmentID], nil
}

func (f *fakeFridgeRepository) CountActiveBundles(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeFridgeRepository) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return f.clearedLocks, nil
}

func (f *fakeFridgeRepository) CreateRoom(ctx context.Context, room *entities.Room) error {
	return nil
}

func (f *fakeFridgeRepository) GetRoomsByFloor(ctx context.Context, floor int) ([]*entities.Room, error) {
	return nil, nil
}

func frozenGuard(repo FridgeRepository, at time.Time) LockGuard {
	return &lockGuard{
		fridgeRepository: repo,
		now:              func() time.Time { return at },
	}
}

func TestEnsureWritableOpenCompartment(t *testing.T) {
	repo := newFakeFridgeRepository()
	guard := frozenGuard(repo, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	compartment := &entities.FridgeCompartment{ID: uuid.New(), IsActive: true}
	if err := guard.EnsureWritable(context.Background(), compartment); err != nil {
		t.Fatalf("EnsureWritable: %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("unexpected save on open compartment")
	}
}

func TestEnsureWritableAdminLock(t *testing.T) {
	repo := newFakeFridgeRepository()
	guard := frozenGuard(repo, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	compartment := &entities.FridgeCompartment{ID: uuid.New(), IsLocked: true}
	err := guard.EnsureWritable(context.Background(), compartment)
	if !errors.Is(err, domain.ErrCompartmentLocked) {
		t.Fatalf("EnsureWritable = %v, want ErrCompartmentLocked", err)
	}
}

func TestEnsureWritableFutureTimeLock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeFridgeRepository()
	guard := frozenGuard(repo, now)

	until := now.Add(time.Hour)
	compartment := &entities.FridgeCompartment{ID: uuid.New(), IsLocked: true, LockedUntil: &until}
	err := guard.EnsureWritable(context.Background(), compartment)
	if !errors.Is(err, domain.ErrCompartmentLocked) {
		t.Fatalf("EnsureWritable = %v, want ErrCompartmentLocked", err)
	}
}

func TestEnsureWritableLazyClearsExpiredLock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeFridgeRepository()
	guard := frozenGuard(repo, now)

	until := now.Add(-time.Minute)
	compartment := &entities.FridgeCompartment{ID: uuid.New(), IsLocked: true, LockedUntil: &until}
	if err := guard.EnsureWritable(context.Background(), compartment); err != nil {
		t.Fatalf("EnsureWritable: %v", err)
	}
	if compartment.IsLocked || compartment.LockedUntil != nil {
		t.Fatalf("expired lock not cleared: locked=%v until=%v", compartment.IsLocked, compartment.LockedUntil)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("cleared lock not persisted, %d saves", len(repo.saved))
	}
}

func TestEnsureWritableUnderInspection(t *testing.T) {
	repo := newFakeFridgeRepository()
	guard := frozenGuard(repo, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	compartment := &entities.FridgeCompartment{ID: uuid.New(), IsActive: true}
	repo.inspections[compartment.ID] = true

	err := guard.EnsureWritable(context.Background(), compartment)
	if !errors.Is(err, domain.ErrCompartmentUnderInspection) {
		t.Fatalf("EnsureWritable = %v, want ErrCompartmentUnderInspection", err)
	}
}
