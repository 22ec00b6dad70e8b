package bundle

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/fridge"
	"Fridge-Management-Backend/pkg/label"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeBundleStore struct {
	bundles   map[uuid.UUID]*entities.FridgeBundle
	createErr error
}

func newFakeBundleStore() *fakeBundleStore {
	return &fakeBundleStore{bundles: make(map[uuid.UUID]*entities.FridgeBundle)}
}

func (f *fakeBundleStore) WithTx(tx *gorm.DB) BundleRepository { return f }

func (f *fakeBundleStore) CreateBundle(ctx context.Context, bundle *entities.FridgeBundle) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.bundles[bundle.ID] = bundle
	return nil
}

func (f *fakeBundleStore) GetBundleByID(ctx context.Context, id uuid.UUID) (*entities.FridgeBundle, error) {
	b, ok := f.bundles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeBundleStore) GetBundlesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.FridgeBundle, error) {
	return nil, nil
}

func (f *fakeBundleStore) GetActiveBundlesByCompartment(ctx context.Context, compartmentID uuid.UUID) ([]*entities.FridgeBundle, error) {
	return nil, nil
}

func (f *fakeBundleStore) SoftDeleteBundle(ctx context.Context, bundleID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeBundleStore) CreateItem(ctx context.Context, item *entities.FridgeItem) error {
	return nil
}

func (f *fakeBundleStore) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.FridgeItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBundleStore) SaveItem(ctx context.Context, item *entities.FridgeItem) error { return nil }

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

type fakeLabelAllocator struct {
	next      int
	allocated int
}

func (f *fakeLabelAllocator) WithTx(tx *gorm.DB) label.LabelAllocator { return f }

func (f *fakeLabelAllocator) Allocate(ctx context.Context, compartmentID uuid.UUID) (int, error) {
	f.allocated++
	f.next++
	return f.next, nil
}

func (f *fakeLabelAllocator) Release(ctx context.Context, compartmentID uuid.UUID, number int) error {
	return nil
}

func createService(bundles *fakeBundleStore, compartments *fakeCompartmentStore, allocator *fakeLabelAllocator) *bundleService {
	return &bundleService{
		runTx:            func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		bundleRepository: bundles,
		fridgeRepository: compartments,
		lockGuard:        fridge.NewLockGuard(compartments),
		labelAllocator:   allocator,
		now:              time.Now,
	}
}

func writableCompartment(max int) *entities.FridgeCompartment {
	return &entities.FridgeCompartment{
		ID:              uuid.New(),
		SlotIndex:       0,
		CompartmentType: entities.CompartmentTypeShared,
		MaxBundleCount:  max,
		IsActive:        true,
	}
}

func oneItemRequest(compartmentID uuid.UUID) domain.CreateBundleRequest {
	return domain.CreateBundleRequest{
		CompartmentID: compartmentID.String(),
		Items: []domain.BundleItemRequest{
			{Name: "milk", Quantity: 1, UnitMeasure: "carton", ExpiryDate: "2025-06-20"},
		},
	}
}

func TestCreateBundleAllocatesLabel(t *testing.T) {
	bundles := newFakeBundleStore()
	compartments := newFakeCompartmentStore()
	compartment := writableCompartment(10)
	compartments.compartments[compartment.ID] = compartment
	allocator := &fakeLabelAllocator{}

	s := createService(bundles, compartments, allocator)
	res, err := s.CreateBundle(context.Background(), oneItemRequest(compartment.ID), uuid.New().String())
	if err != nil {
		t.Fatalf("CreateBundle: %v", err)
	}

	if res.LabelNumber != 1 {
		t.Errorf("label number = %d, want 1", res.LabelNumber)
	}
	if res.Label != "A001" {
		t.Errorf("label = %q, want A001", res.Label)
	}
	if len(res.Items) != 1 {
		t.Errorf("items = %d, want 1", len(res.Items))
	}
	if len(bundles.bundles) != 1 {
		t.Errorf("persisted bundles = %d, want 1", len(bundles.bundles))
	}
}

func TestCreateBundleAtCapacity(t *testing.T) {
	bundles := newFakeBundleStore()
	compartments := newFakeCompartmentStore()
	compartment := writableCompartment(2)
	compartments.compartments[compartment.ID] = compartment
	compartments.activeCount = 2
	allocator := &fakeLabelAllocator{}

	s := createService(bundles, compartments, allocator)
	_, err := s.CreateBundle(context.Background(), oneItemRequest(compartment.ID), uuid.New().String())
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("CreateBundle = %v, want ErrCapacityExceeded", err)
	}
	if allocator.allocated != 0 {
		t.Errorf("label allocated for a rejected bundle")
	}
}

func TestCreateBundleLockedCompartment(t *testing.T) {
	bundles := newFakeBundleStore()
	compartments := newFakeCompartmentStore()
	compartment := writableCompartment(10)
	compartment.IsLocked = true
	compartments.compartments[compartment.ID] = compartment

	s := createService(bundles, compartments, &fakeLabelAllocator{})
	_, err := s.CreateBundle(context.Background(), oneItemRequest(compartment.ID), uuid.New().String())
	if !errors.Is(err, domain.ErrCompartmentLocked) {
		t.Fatalf("CreateBundle = %v, want ErrCompartmentLocked", err)
	}
}

func TestCreateBundleDuplicateLabelRace(t *testing.T) {
	bundles := newFakeBundleStore()
	bundles.createErr = gorm.ErrDuplicatedKey
	compartments := newFakeCompartmentStore()
	compartment := writableCompartment(10)
	compartments.compartments[compartment.ID] = compartment

	s := createService(bundles, compartments, &fakeLabelAllocator{})
	_, err := s.CreateBundle(context.Background(), oneItemRequest(compartment.ID), uuid.New().String())
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("CreateBundle = %v, want ErrCapacityExceeded on duplicate key", err)
	}
}
