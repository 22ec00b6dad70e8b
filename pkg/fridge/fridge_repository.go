package fridge

import (
	"Fridge-Management-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	FridgeRepository interface {
		WithTx(tx *gorm.DB) FridgeRepository

		CreateFridgeUnit(ctx context.Context, unit *entities.FridgeUnit) error
		GetFridgeUnitByID(ctx context.Context, id uuid.UUID) (*entities.FridgeUnit, error)
		GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]*entities.FridgeUnit, error)

		GetCompartmentByID(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error)
		// GetCompartmentForUpdate loads the compartment under an exclusive row
		// lock; capacity checks and label allocation serialize on it.
		GetCompartmentForUpdate(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error)
		GetCompartmentsByFloor(ctx context.Context, floor int) ([]*entities.FridgeCompartment, error)
		SaveCompartment(ctx context.Context, compartment *entities.FridgeCompartment) error

		HasInProgressInspection(ctx context.Context, compartmentID uuid.UUID) (bool, error)
		CountActiveBundles(ctx context.Context, compartmentID uuid.UUID) (int64, error)
		ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error)

		CreateRoom(ctx context.Context, room *entities.Room) error
		GetRoomsByFloor(ctx context.Context, floor int) ([]*entities.Room, error)
	}

	fridgeRepository struct {
		db *gorm.DB
	}
)

func NewFridgeRepository(db *gorm.DB) FridgeRepository {
	return &fridgeRepository{db: db}
}

func (r *fridgeRepository) WithTx(tx *gorm.DB) FridgeRepository {
	return &fridgeRepository{db: tx}
}

func (r *fridgeRepository) CreateFridgeUnit(ctx context.Context, unit *entities.FridgeUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *fridgeRepository) GetFridgeUnitByID(ctx context.Context, id uuid.UUID) (*entities.FridgeUnit, error) {
	var unit entities.FridgeUnit
	if err := r.db.WithContext(ctx).
		Preload("Compartments", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot_index asc")
		}).
		Where("id = ?", id).
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *fridgeRepository) GetFridgeUnitsByFloor(ctx context.Context, floor int) ([]*entities.FridgeUnit, error) {
	var units []*entities.FridgeUnit
	if err := r.db.WithContext(ctx).
		Preload("Compartments", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot_index asc")
		}).
		Where("floor = ?", floor).
		Order("name asc").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *fridgeRepository) GetCompartmentByID(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	var compartment entities.FridgeCompartment
	if err := r.db.WithContext(ctx).
		Preload("FridgeUnit").
		Where("id = ?", id).
		First(&compartment).Error; err != nil {
		return nil, err
	}
	return &compartment, nil
}

func (r *fridgeRepository) GetCompartmentForUpdate(ctx context.Context, id uuid.UUID) (*entities.FridgeCompartment, error) {
	var compartment entities.FridgeCompartment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&compartment).Error; err != nil {
		return nil, err
	}
	return &compartment, nil
}

func (r *fridgeRepository) GetCompartmentsByFloor(ctx context.Context, floor int) ([]*entities.FridgeCompartment, error) {
	var compartments []*entities.FridgeCompartment
	if err := r.db.WithContext(ctx).
		Joins("JOIN fridge_units ON fridge_units.id = fridge_compartments.fridge_unit_id").
		Where("fridge_units.floor = ?", floor).
		Order("fridge_compartments.slot_index asc").
		Preload("FridgeUnit").
		Find(&compartments).Error; err != nil {
		return nil, err
	}
	return compartments, nil
}

func (r *fridgeRepository) SaveCompartment(ctx context.Context, compartment *entities.FridgeCompartment) error {
	return r.db.WithContext(ctx).Save(compartment).Error
}

func (r *fridgeRepository) HasInProgressInspection(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.InspectionSession{}).
		Where("compartment_id = ? AND status = ?", compartmentID, entities.SessionStatusInProgress).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *fridgeRepository) CountActiveBundles(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.FridgeBundle{}).
		Where("compartment_id = ? AND status = ?", compartmentID, entities.BundleStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *fridgeRepository) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.FridgeCompartment{}).
		Where("is_locked = ? AND locked_until IS NOT NULL AND locked_until < ?", true, now).
		Updates(map[string]interface{}{"is_locked": false, "locked_until": nil})
	return result.RowsAffected, result.Error
}

func (r *fridgeRepository) CreateRoom(ctx context.Context, room *entities.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *fridgeRepository) GetRoomsByFloor(ctx context.Context, floor int) ([]*entities.Room, error) {
	var rooms []*entities.Room
	if err := r.db.WithContext(ctx).
		Where("floor = ?", floor).
		Order("number asc").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
