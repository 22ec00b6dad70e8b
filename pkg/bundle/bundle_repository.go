package bundle

import (
	"Fridge-Management-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	BundleRepository interface {
		WithTx(tx *gorm.DB) BundleRepository

		CreateBundle(ctx context.Context, bundle *entities.FridgeBundle) error
		GetBundleByID(ctx context.Context, id uuid.UUID) (*entities.FridgeBundle, error)
		GetBundlesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.FridgeBundle, error)
		GetActiveBundlesByCompartment(ctx context.Context, compartmentID uuid.UUID) ([]*entities.FridgeBundle, error)
		// SoftDeleteBundle moves the bundle and all of its active items to
		// DELETED with the one shared timestamp.
		SoftDeleteBundle(ctx context.Context, bundleID uuid.UUID, at time.Time) error

		CreateItem(ctx context.Context, item *entities.FridgeItem) error
		GetItemByID(ctx context.Context, id uuid.UUID) (*entities.FridgeItem, error)
		SaveItem(ctx context.Context, item *entities.FridgeItem) error
	}

	bundleRepository struct {
		db *gorm.DB
	}
)

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) WithTx(tx *gorm.DB) BundleRepository {
	return &bundleRepository{db: tx}
}

func (r *bundleRepository) CreateBundle(ctx context.Context, bundle *entities.FridgeBundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

func (r *bundleRepository) GetBundleByID(ctx context.Context, id uuid.UUID) (*entities.FridgeBundle, error) {
	var bundle entities.FridgeBundle
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Compartment").
		Where("id = ?", id).
		First(&bundle).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) GetBundlesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.FridgeBundle, error) {
	var bundles []*entities.FridgeBundle
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Compartment").
		Where("owner_id = ? AND status = ?", ownerID, entities.BundleStatusActive).
		Order("created_at asc").
		Find(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepository) GetActiveBundlesByCompartment(ctx context.Context, compartmentID uuid.UUID) ([]*entities.FridgeBundle, error) {
	var bundles []*entities.FridgeBundle
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Compartment").
		Where("compartment_id = ? AND status = ?", compartmentID, entities.BundleStatusActive).
		Order("label_number asc").
		Find(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepository) SoftDeleteBundle(ctx context.Context, bundleID uuid.UUID, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.FridgeBundle{}).
		Where("id = ?", bundleID).
		Updates(map[string]interface{}{
			"status":     entities.BundleStatusDeleted,
			"deleted_at": at,
		}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&entities.FridgeItem{}).
		Where("bundle_id = ? AND status = ?", bundleID, entities.ItemStatusActive).
		Updates(map[string]interface{}{
			"status":     entities.ItemStatusDeleted,
			"deleted_at": at,
		}).Error
}

func (r *bundleRepository) CreateItem(ctx context.Context, item *entities.FridgeItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *bundleRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.FridgeItem, error) {
	var item entities.FridgeItem
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *bundleRepository) SaveItem(ctx context.Context, item *entities.FridgeItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
