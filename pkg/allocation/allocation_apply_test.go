package allocation

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

type fakeFloorStore struct {
	rooms        []*entities.Room
	compartments []*entities.FridgeCompartment
	units        map[uuid.UUID]*entities.FridgeUnit
	inspecting   map[uuid.UUID]bool
}

func (f *fakeFloorStore) WithTx(tx *gorm.DB) fridge.FridgeRepository { return f }

func (f *fakeFloorStore) CreateFridgeUnit(ctx context.Context, unit *entities.FridgeUnit) error {
	return nil
}

func (f *fakeFloorStore) GetFridgeUnitByID(ctx context.Context, id uuid.UUID) (*entities.FridgeUnit, error) {
	unit, ok := f.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return unit, nil
}

func (f *fakeFloorStore) GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]*entities.FridgeUnit, error) {
	return nil, nil
}

func (f *fakeFloorStore) GetCompartmentByID(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	for _, c := range f.compartments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFloorStore) GetCompartmentForUpdate(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	return f.GetCompartmentByID(ctx, id)
}

func (f *fakeFloorStore) GetCompartmentsByFloor(ctx context.Context, floor int) ([]*entities.FridgeCompartment, error) {
	return f.compartments, nil
}

func (f *fakeFloorStore) SaveCompartment(ctx context.Context, compartment *entities.FridgeCompartment) error {
	return nil
}

func (f *fakeFloorStore) HasInProgressInspection(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	return f.inspecting[compartmentID], nil
}

func (f *fakeFloorStore) CountActiveBundles(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeFloorStore) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeFloorStore) CreateRoom(ctx context.Context, room *entities.Room) error { return nil }

func (f *fakeFloorStore) GetRoomsByFloor(ctx context.Context, floor int) ([]*entities.Room, error) {
	return f.rooms, nil
}

type fakeAccessRepository struct {
	active  map[uuid.UUID][]uuid.UUID
	created []*entities.CompartmentRoomAccess
}

func newFakeAccessRepository() *fakeAccessRepository {
	return &fakeAccessRepository{active: make(map[uuid.UUID][]uuid.UUID)}
}

func (f *fakeAccessRepository) WithTx(tx *gorm.DB) AllocationRepository { return f }

func (f *fakeAccessRepository) GetActiveRoomIDs(ctx context.Context, compartmentID uuid.UUID) ([]uuid.UUID, error) {
	return f.active[compartmentID], nil
}

func (f *fakeAccessRepository) ReleaseActiveAccess(ctx context.Context, compartmentID uuid.UUID, at time.Time) (int64, error) {
	released := int64(len(f.active[compartmentID]))
	delete(f.active, compartmentID)
	return released, nil
}

func (f *fakeAccessRepository) CreateAccessRows(ctx context.Context, rows []*entities.CompartmentRoomAccess) error {
	f.created = append(f.created, rows...)
	for _, row := range rows {
		f.active[row.CompartmentID] = append(f.active[row.CompartmentID], row.RoomID)
	}
	return nil
}

// applyFixture builds one active unit on the floor with k exclusive
// compartments and n rooms.
func applyFixture(floor, rooms, compartments int) *fakeFloorStore {
	store := &fakeFloorStore{
		units:      make(map[uuid.UUID]*entities.FridgeUnit),
		inspecting: make(map[uuid.UUID]bool),
	}
	unit := &entities.FridgeUnit{ID: uuid.New(), Floor: floor, IsActive: true}
	store.units[unit.ID] = unit

	for i := 0; i < rooms; i++ {
		store.rooms = append(store.rooms, &entities.Room{ID: uuid.New(), Floor: floor})
	}
	for i := 0; i < compartments; i++ {
		store.compartments = append(store.compartments, &entities.FridgeCompartment{
			ID:              uuid.New(),
			FridgeUnitID:    unit.ID,
			SlotIndex:       i,
			CompartmentType: entities.CompartmentTypeExclusive,
			IsActive:        true,
		})
	}
	return store
}

func applyService(store *fakeFloorStore, access *fakeAccessRepository, at time.Time) *allocationService {
	return &allocationService{
		runTx:                func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		allocationRepository: access,
		fridgeRepository:     store,
		now:                  func() time.Time { return at },
	}
}

func roomStrings(rooms []*entities.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.ID.String())
	}
	return out
}

func TestApplyRedistributesRooms(t *testing.T) {
	store := applyFixture(2, 4, 2)
	access := newFakeAccessRepository()
	s := applyService(store, access, time.Now())

	rooms := roomStrings(store.rooms)
	res, err := s.Apply(context.Background(), 2, domain.ApplyAllocationRequest{
		Allocations: []domain.CompartmentAllocation{
			{CompartmentID: store.compartments[0].ID.String(), RoomIDs: rooms[:2]},
			{CompartmentID: store.compartments[1].ID.String(), RoomIDs: rooms[2:]},
		},
	}, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if res.CompartmentsTouched != 2 {
		t.Errorf("compartments touched = %d, want 2", res.CompartmentsTouched)
	}
	if res.RowsCreated != 4 {
		t.Errorf("rows created = %d, want 4", res.RowsCreated)
	}
	if len(access.active[store.compartments[0].ID]) != 2 {
		t.Errorf("first compartment holds %d rooms, want 2", len(access.active[store.compartments[0].ID]))
	}
}

func TestApplyRejectsIncompleteCoverage(t *testing.T) {
	store := applyFixture(2, 4, 2)
	s := applyService(store, newFakeAccessRepository(), time.Now())

	rooms := roomStrings(store.rooms)
	_, err := s.Apply(context.Background(), 2, domain.ApplyAllocationRequest{
		Allocations: []domain.CompartmentAllocation{
			{CompartmentID: store.compartments[0].ID.String(), RoomIDs: rooms[:2]},
			{CompartmentID: store.compartments[1].ID.String(), RoomIDs: rooms[2:3]}, // one room missing
		},
	}, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrRoomCoverageIncomplete) {
		t.Fatalf("Apply = %v, want ErrRoomCoverageIncomplete", err)
	}
}

func TestApplyRejectsImbalancedDistribution(t *testing.T) {
	store := applyFixture(2, 4, 2)
	s := applyService(store, newFakeAccessRepository(), time.Now())

	rooms := roomStrings(store.rooms)
	_, err := s.Apply(context.Background(), 2, domain.ApplyAllocationRequest{
		Allocations: []domain.CompartmentAllocation{
			{CompartmentID: store.compartments[0].ID.String(), RoomIDs: rooms[:1]},
			{CompartmentID: store.compartments[1].ID.String(), RoomIDs: rooms[1:]},
		},
	}, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrDistributionImbalanced) {
		t.Fatalf("Apply = %v, want ErrDistributionImbalanced", err)
	}
}

func TestApplyRejectsLockedCompartment(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := applyFixture(2, 2, 1)
	until := now.Add(time.Hour)
	store.compartments[0].IsLocked = true
	store.compartments[0].LockedUntil = &until

	s := applyService(store, newFakeAccessRepository(), now)
	_, err := s.Apply(context.Background(), 2, domain.ApplyAllocationRequest{
		Allocations: []domain.CompartmentAllocation{
			{CompartmentID: store.compartments[0].ID.String(), RoomIDs: roomStrings(store.rooms)},
		},
	}, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrCompartmentInUse) {
		t.Fatalf("Apply = %v, want ErrCompartmentInUse", err)
	}
}

func TestApplyAllowsExpiredLock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := applyFixture(2, 2, 1)
	until := now.Add(-time.Hour) // lapsed but not yet swept
	store.compartments[0].IsLocked = true
	store.compartments[0].LockedUntil = &until

	access := newFakeAccessRepository()
	s := applyService(store, access, now)
	res, err := s.Apply(context.Background(), 2, domain.ApplyAllocationRequest{
		Allocations: []domain.CompartmentAllocation{
			{CompartmentID: store.compartments[0].ID.String(), RoomIDs: roomStrings(store.rooms)},
		},
	}, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Apply with lapsed lock: %v", err)
	}
	if res.RowsCreated != 2 {
		t.Errorf("rows created = %d, want 2", res.RowsCreated)
	}
}
