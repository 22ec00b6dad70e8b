package fridge

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/label"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	FridgeService interface {
		CreateFridgeUnit(ctx context.Context, req domain.CreateFridgeUnitRequest, role string) (domain.FridgeUnitResponse, error)
		GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]domain.FridgeUnitResponse, error)
		LockCompartment(ctx context.Context, compartmentID string, req domain.LockCompartmentRequest, role string) error
		UnlockCompartment(ctx context.Context, compartmentID string, role string) error
		CreateRoom(ctx context.Context, req domain.CreateRoomRequest, role string) (domain.RoomResponse, error)
		GetRoomsByFloor(ctx context.Context, floor int) ([]domain.RoomResponse, error)
	}

	fridgeService struct {
		fridgeRepository FridgeRepository
		now              func() time.Time
	}
)

func NewFridgeService(fridgeRepository FridgeRepository) FridgeService {
	return &fridgeService{
		fridgeRepository: fridgeRepository,
		now:              time.Now,
	}
}

func (s *fridgeService) CreateFridgeUnit(ctx context.Context, req domain.CreateFridgeUnitRequest, role string) (domain.FridgeUnitResponse, error) {
	if !domain.IsElevated(role) {
		return domain.FridgeUnitResponse{}, domain.ErrElevatedRoleRequired
	}

	seen := make(map[int]bool, len(req.Compartments))
	for _, c := range req.Compartments {
		if seen[c.SlotIndex] {
			return domain.FridgeUnitResponse{}, domain.NewError(409, "DUPLICATE_SLOT_INDEX", "slot index used twice in one unit")
		}
		seen[c.SlotIndex] = true
	}

	unit := &entities.FridgeUnit{
		ID:       uuid.New(),
		Floor:    req.Floor,
		Name:     req.Name,
		IsActive: true,
	}
	for _, c := range req.Compartments {
		unit.Compartments = append(unit.Compartments, &entities.FridgeCompartment{
			ID:              uuid.New(),
			FridgeUnitID:    unit.ID,
			SlotIndex:       c.SlotIndex,
			CompartmentType: c.CompartmentType,
			MaxBundleCount:  c.MaxBundleCount,
			IsActive:        true,
		})
	}

	if err := s.fridgeRepository.CreateFridgeUnit(ctx, unit); err != nil {
		return domain.FridgeUnitResponse{}, err
	}

	return s.unitResponse(ctx, unit)
}

func (s *fridgeService) GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]domain.FridgeUnitResponse, error) {
	units, err := s.fridgeRepository.GetFridgeUnitsByFloor(ctx, floor)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.FridgeUnitResponse, 0, len(units))
	for _, unit := range units {
		res, err := s.unitResponse(ctx, unit)
		if err != nil {
			return nil, err
		}
		responses = append(responses, res)
	}
	return responses, nil
}

func (s *fridgeService) LockCompartment(ctx context.Context, compartmentID string, req domain.LockCompartmentRequest, role string) error {
	if !domain.IsElevated(role) {
		return domain.ErrElevatedRoleRequired
	}

	id, err := uuid.Parse(compartmentID)
	if err != nil {
		return domain.ErrParseUUID
	}

	compartment, err := s.fridgeRepository.GetCompartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCompartmentNotFound
		}
		return err
	}

	compartment.IsLocked = true
	compartment.LockedUntil = nil
	if req.LockedUntil != "" {
		until, err := time.Parse(time.RFC3339, req.LockedUntil)
		if err != nil {
			return domain.NewError(400, "INVALID_LOCK_EXPIRY", "locked_until must be RFC 3339")
		}
		if !until.After(s.now()) {
			return domain.NewError(400, "INVALID_LOCK_EXPIRY", "locked_until must be in the future")
		}
		compartment.LockedUntil = &until
	}

	return s.fridgeRepository.SaveCompartment(ctx, compartment)
}

func (s *fridgeService) UnlockCompartment(ctx context.Context, compartmentID string, role string) error {
	if !domain.IsElevated(role) {
		return domain.ErrElevatedRoleRequired
	}

	id, err := uuid.Parse(compartmentID)
	if err != nil {
		return domain.ErrParseUUID
	}

	compartment, err := s.fridgeRepository.GetCompartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCompartmentNotFound
		}
		return err
	}

	compartment.IsLocked = false
	compartment.LockedUntil = nil
	return s.fridgeRepository.SaveCompartment(ctx, compartment)
}

func (s *fridgeService) CreateRoom(ctx context.Context, req domain.CreateRoomRequest, role string) (domain.RoomResponse, error) {
	if !domain.IsElevated(role) {
		return domain.RoomResponse{}, domain.ErrElevatedRoleRequired
	}

	room := &entities.Room{
		ID:       uuid.New(),
		Floor:    req.Floor,
		Number:   req.Number,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
	}
	if err := s.fridgeRepository.CreateRoom(ctx, room); err != nil {
		return domain.RoomResponse{}, err
	}

	return roomResponse(room), nil
}

func (s *fridgeService) GetRoomsByFloor(ctx context.Context, floor int) ([]domain.RoomResponse, error) {
	rooms, err := s.fridgeRepository.GetRoomsByFloor(ctx, floor)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, roomResponse(room))
	}
	return responses, nil
}

func (s *fridgeService) unitResponse(ctx context.Context, unit *entities.FridgeUnit) (domain.FridgeUnitResponse, error) {
	res := domain.FridgeUnitResponse{
		ID:       unit.ID.String(),
		Floor:    unit.Floor,
		Name:     unit.Name,
		IsActive: unit.IsActive,
	}

	for _, c := range unit.Compartments {
		bundleCount, err := s.fridgeRepository.CountActiveBundles(ctx, c.ID)
		if err != nil {
			return domain.FridgeUnitResponse{}, err
		}
		underInspection, err := s.fridgeRepository.HasInProgressInspection(ctx, c.ID)
		if err != nil {
			return domain.FridgeUnitResponse{}, err
		}

		res.Compartments = append(res.Compartments, domain.CompartmentResponse{
			ID:                c.ID.String(),
			FridgeUnitID:      c.FridgeUnitID.String(),
			SlotIndex:         c.SlotIndex,
			SlotLetter:        label.SlotLetter(c.SlotIndex),
			CompartmentType:   c.CompartmentType,
			MaxBundleCount:    c.MaxBundleCount,
			ActiveBundleCount: int(bundleCount),
			IsActive:          c.IsActive,
			IsLocked:          c.IsLocked,
			LockedUntil:       c.LockedUntil,
			UnderInspection:   underInspection,
		})
	}
	return res, nil
}

func roomResponse(room *entities.Room) domain.RoomResponse {
	return domain.RoomResponse{
		ID:       room.ID.String(),
		Floor:    room.Floor,
		Number:   room.Number,
		Capacity: room.Capacity,
		RoomType: room.RoomType,
	}
}
