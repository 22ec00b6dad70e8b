package label

import (
	"Fridge-Management-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	LabelRepository interface {
		// WithTx rebinds the repository to a running transaction so label
		// bookkeeping commits or rolls back with its caller.
		WithTx(tx *gorm.DB) LabelRepository

		// GetOrCreateSequence takes an exclusive row lock on the sequence row,
		// creating it lazily on first use.
		GetOrCreateSequence(ctx context.Context, compartmentID uuid.UUID) (*entities.BundleLabelSequence, error)
		SaveSequence(ctx context.Context, seq *entities.BundleLabelSequence) error
		ActiveLabelNumbers(ctx context.Context, compartmentID uuid.UUID) (map[int]bool, error)
	}

	labelRepository struct {
		db *gorm.DB
	}
)

func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) WithTx(tx *gorm.DB) LabelRepository {
	return &labelRepository{db: tx}
}

func (r *labelRepository) GetOrCreateSequence(ctx context.Context, compartmentID uuid.UUID) (*entities.BundleLabelSequence, error) {
	var seq entities.BundleLabelSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("compartment_id = ?", compartmentID).
		First(&seq).Error
	if err == nil {
		return &seq, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seq = entities.BundleLabelSequence{
		ID:            uuid.New(),
		CompartmentID: compartmentID,
		NextLabel:     1,
		RecycledPool:  "[]",
	}
	if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
		return nil, err
	}
	return &seq, nil
}

func (r *labelRepository) SaveSequence(ctx context.Context, seq *entities.BundleLabelSequence) error {
	return r.db.WithContext(ctx).Save(seq).Error
}

func (r *labelRepository) ActiveLabelNumbers(ctx context.Context, compartmentID uuid.UUID) (map[int]bool, error) {
	var numbers []int
	if err := r.db.WithContext(ctx).
		Model(&entities.FridgeBundle{}).
		Where("compartment_id = ? AND status = ?", compartmentID, entities.BundleStatusActive).
		Pluck("label_number", &numbers).Error; err != nil {
		return nil, err
	}

	active := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		active[n] = true
	}
	return active, nil
}
