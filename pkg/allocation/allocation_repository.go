package allocation

import (
	"Fridge-Management-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	AllocationRepository interface {
		WithTx(tx *gorm.DB) AllocationRepository

		// GetActiveRoomIDs returns the rooms currently assigned to the
		// compartment, i.e. access rows with a null released_at.
		GetActiveRoomIDs(ctx context.Context, compartmentID uuid.UUID) ([]uuid.UUID, error)
		// ReleaseActiveAccess stamps released_at on every active row of the
		// compartment and reports how many rows it touched.
		ReleaseActiveAccess(ctx context.Context, compartmentID uuid.UUID, at time.Time) (int64, error)
		CreateAccessRows(ctx context.Context, rows []*entities.CompartmentRoomAccess) error
	}

	allocationRepository struct {
		db *gorm.DB
	}
)

func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) WithTx(tx *gorm.DB) AllocationRepository {
	return &allocationRepository{db: tx}
}

func (r *allocationRepository) GetActiveRoomIDs(ctx context.Context, compartmentID uuid.UUID) ([]uuid.UUID, error) {
	var roomIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.CompartmentRoomAccess{}).
		Where("compartment_id = ? AND released_at IS NULL", compartmentID).
		Order("assigned_at asc").
		Pluck("room_id", &roomIDs).Error; err != nil {
		return nil, err
	}
	return roomIDs, nil
}

func (r *allocationRepository) ReleaseActiveAccess(ctx context.Context, compartmentID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.CompartmentRoomAccess{}).
		Where("compartment_id = ? AND released_at IS NULL", compartmentID).
		Update("released_at", at)
	return result.RowsAffected, result.Error
}

func (r *allocationRepository) CreateAccessRows(ctx context.Context, rows []*entities.CompartmentRoomAccess) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}
