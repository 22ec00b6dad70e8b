package allocation

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/fridge"
	"Fridge-Management-Backend/pkg/label"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	AllocationService interface {
		Preview(ctx context.Context, floor int) (domain.AllocationPreviewResponse, error)
		Apply(ctx context.Context, floor int, req domain.ApplyAllocationRequest, role string) (domain.ApplyAllocationResponse, error)
	}

	allocationService struct {
		runTx                func(fn func(tx *gorm.DB) error) error
		allocationRepository AllocationRepository
		fridgeRepository     fridge.FridgeRepository
		now                  func() time.Time
	}
)

func NewAllocationService(db *gorm.DB, allocationRepository AllocationRepository, fridgeRepository fridge.FridgeRepository) AllocationService {
	return &allocationService{
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
		allocationRepository: allocationRepository,
		fridgeRepository:     fridgeRepository,
		now:                  time.Now,
	}
}

// SplitRooms partitions roomIDs into k contiguous groups. Sizes are
// floor(n/k), with the first n mod k groups taking one room more, so the same
// input always yields the same split.
func SplitRooms(roomIDs []uuid.UUID, k int) [][]uuid.UUID {
	if k <= 0 {
		return nil
	}

	base := len(roomIDs) / k
	remainder := len(roomIDs) % k

	groups := make([][]uuid.UUID, 0, k)
	offset := 0
	for i := 0; i < k; i++ {
		size := base
		if i < remainder {
			size++
		}
		groups = append(groups, roomIDs[offset:offset+size])
		offset += size
	}
	return groups
}

// GroupSizes returns the per-group size targets of SplitRooms without
// materializing the groups; Apply validates client payloads against it.
func GroupSizes(totalRooms, k int) []int {
	if k <= 0 {
		return nil
	}
	sizes := make([]int, k)
	base := totalRooms / k
	remainder := totalRooms % k
	for i := range sizes {
		sizes[i] = base
		if i < remainder {
			sizes[i]++
		}
	}
	return sizes
}

func (s *allocationService) Preview(ctx context.Context, floor int) (domain.AllocationPreviewResponse, error) {
	rooms, err := s.fridgeRepository.GetRoomsByFloor(ctx, floor)
	if err != nil {
		return domain.AllocationPreviewResponse{}, err
	}
	if len(rooms) == 0 {
		return domain.AllocationPreviewResponse{}, domain.ErrNoRoomsOnFloor
	}

	compartments, err := s.fridgeRepository.GetCompartmentsByFloor(ctx, floor)
	if err != nil {
		return domain.AllocationPreviewResponse{}, err
	}
	if len(compartments) == 0 {
		return domain.AllocationPreviewResponse{}, domain.ErrNoCompartmentsOnFloor
	}

	roomIDs := make([]uuid.UUID, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	activeExclusive := filterActiveExclusive(compartments)
	groups := SplitRooms(roomIDs, len(activeExclusive))
	groupByCompartment := make(map[uuid.UUID][]uuid.UUID, len(activeExclusive))
	for i, c := range activeExclusive {
		groupByCompartment[c.ID] = groups[i]
	}

	now := s.now()
	res := domain.AllocationPreviewResponse{
		Floor:      floor,
		TotalRooms: len(rooms),
	}

	for _, c := range compartments {
		preview := domain.CompartmentAllocationPreview{
			CompartmentID:   c.ID.String(),
			SlotIndex:       c.SlotIndex,
			SlotLetter:      label.SlotLetter(c.SlotIndex),
			CompartmentType: c.CompartmentType,
			IsActive:        c.IsActive,
		}

		current, err := s.allocationRepository.GetActiveRoomIDs(ctx, c.ID)
		if err != nil {
			return domain.AllocationPreviewResponse{}, err
		}
		preview.CurrentRooms = idStrings(current)

		switch {
		case !c.IsActive:
			preview.RecommendedRooms = []string{}
		case c.IsExclusive():
			preview.RecommendedRooms = idStrings(groupByCompartment[c.ID])
		default:
			preview.RecommendedRooms = idStrings(roomIDs)
		}

		if !c.IsActive {
			preview.Warnings = append(preview.Warnings, domain.WarningInactiveCompartment)
		}
		if c.LockActive(now) {
			preview.Warnings = append(preview.Warnings, domain.WarningCompartmentLocked)
		}
		underInspection, err := s.fridgeRepository.HasInProgressInspection(ctx, c.ID)
		if err != nil {
			return domain.AllocationPreviewResponse{}, err
		}
		if underInspection {
			preview.Warnings = append(preview.Warnings, domain.WarningInspectionInProgress)
		}

		res.Compartments = append(res.Compartments, preview)
	}

	return res, nil
}

// Apply revalidates the full partition server-side and swaps access rows in
// one transaction. Targeted compartments are locked for update first so a
// concurrent reallocation or lock acquisition cannot interleave.
func (s *allocationService) Apply(ctx context.Context, floor int, req domain.ApplyAllocationRequest, role string) (domain.ApplyAllocationResponse, error) {
	if !domain.IsElevated(role) {
		return domain.ApplyAllocationResponse{}, domain.ErrElevatedRoleRequired
	}

	var res domain.ApplyAllocationResponse
	err := s.runTx(func(tx *gorm.DB) error {
		fridgeRepo := s.fridgeRepository.WithTx(tx)
		allocationRepo := s.allocationRepository.WithTx(tx)

		rooms, err := fridgeRepo.GetRoomsByFloor(ctx, floor)
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			return domain.ErrNoRoomsOnFloor
		}

		floorRooms := make(map[uuid.UUID]bool, len(rooms))
		for _, room := range rooms {
			floorRooms[room.ID] = true
		}

		floorCompartments, err := fridgeRepo.GetCompartmentsByFloor(ctx, floor)
		if err != nil {
			return err
		}
		activeExclusiveCount := len(filterActiveExclusive(floorCompartments))

		type target struct {
			compartment *entities.FridgeCompartment
			roomIDs     []uuid.UUID
		}
		targets := make([]target, 0, len(req.Allocations))
		now := s.now()

		for _, alloc := range req.Allocations {
			compartmentID, err := uuid.Parse(alloc.CompartmentID)
			if err != nil {
				return domain.ErrParseUUID
			}

			compartment, err := fridgeRepo.GetCompartmentForUpdate(ctx, compartmentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrCompartmentNotFound
				}
				return err
			}

			unit, err := fridgeRepo.GetFridgeUnitByID(ctx, compartment.FridgeUnitID)
			if err != nil {
				return err
			}
			if unit.Floor != floor {
				return domain.ErrCompartmentNotOnFloor
			}
			if !unit.IsActive {
				return domain.ErrFridgeUnitInactive
			}

			if compartment.LockActive(now) {
				return domain.ErrCompartmentInUse
			}
			underInspection, err := fridgeRepo.HasInProgressInspection(ctx, compartment.ID)
			if err != nil {
				return err
			}
			if underInspection {
				return domain.ErrCompartmentInUse
			}

			roomIDs := make([]uuid.UUID, 0, len(alloc.RoomIDs))
			seen := make(map[uuid.UUID]bool, len(alloc.RoomIDs))
			for _, raw := range alloc.RoomIDs {
				roomID, err := uuid.Parse(raw)
				if err != nil {
					return domain.ErrParseUUID
				}
				if seen[roomID] {
					return domain.ErrDuplicateRoom
				}
				seen[roomID] = true
				if !floorRooms[roomID] {
					return domain.ErrRoomNotOnFloor
				}
				roomIDs = append(roomIDs, roomID)
			}

			if !compartment.IsActive && len(roomIDs) > 0 {
				return domain.NewError(400, "INACTIVE_COMPARTMENT", "inactive compartment cannot be assigned rooms")
			}
			if compartment.IsActive && compartment.IsExclusive() && len(roomIDs) == 0 {
				return domain.ErrEmptyRoomAssignment
			}
			if compartment.IsActive && !compartment.IsExclusive() && len(roomIDs) != len(rooms) {
				return domain.ErrSharedSetMismatch
			}

			targets = append(targets, target{compartment: compartment, roomIDs: roomIDs})
		}

		// Partition invariant over the active exclusive targets: every floor
		// room exactly once.
		covered := make(map[uuid.UUID]bool, len(rooms))
		exclusiveTargets := make([]target, 0, len(targets))
		for _, t := range targets {
			if !t.compartment.IsActive || !t.compartment.IsExclusive() {
				continue
			}
			exclusiveTargets = append(exclusiveTargets, t)
			for _, roomID := range t.roomIDs {
				if covered[roomID] {
					return domain.ErrRoomCoverageIncomplete
				}
				covered[roomID] = true
			}
		}
		if len(covered) != len(rooms) {
			return domain.ErrRoomCoverageIncomplete
		}

		// Balance against targets recomputed from the current active exclusive
		// compartment count, not whatever the client previewed.
		sort.Slice(exclusiveTargets, func(i, j int) bool {
			return exclusiveTargets[i].compartment.SlotIndex < exclusiveTargets[j].compartment.SlotIndex
		})
		sizes := GroupSizes(len(rooms), activeExclusiveCount)
		if len(exclusiveTargets) != len(sizes) {
			return domain.ErrDistributionImbalanced
		}
		for i, t := range exclusiveTargets {
			if len(t.roomIDs) != sizes[i] {
				return domain.ErrDistributionImbalanced
			}
		}

		for _, t := range targets {
			released, err := allocationRepo.ReleaseActiveAccess(ctx, t.compartment.ID, now)
			if err != nil {
				return err
			}

			rows := make([]*entities.CompartmentRoomAccess, 0, len(t.roomIDs))
			for _, roomID := range t.roomIDs {
				rows = append(rows, &entities.CompartmentRoomAccess{
					ID:            uuid.New(),
					CompartmentID: t.compartment.ID,
					RoomID:        roomID,
					AssignedAt:    now,
				})
			}
			if err := allocationRepo.CreateAccessRows(ctx, rows); err != nil {
				return err
			}

			res.CompartmentsTouched++
			res.RowsReleased += int(released)
			res.RowsCreated += len(rows)
		}

		return nil
	})
	if err != nil {
		return domain.ApplyAllocationResponse{}, err
	}
	return res, nil
}

func filterActiveExclusive(compartments []*entities.FridgeCompartment) []*entities.FridgeCompartment {
	active := make([]*entities.FridgeCompartment, 0, len(compartments))
	for _, c := range compartments {
		if c.IsActive && c.IsExclusive() {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].SlotIndex < active[j].SlotIndex
	})
	return active
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
