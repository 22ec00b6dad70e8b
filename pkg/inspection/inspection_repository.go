package inspection

import (
	"Fridge-Management-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	InspectionRepository interface {
		WithTx(tx *gorm.DB) InspectionRepository

		CreateSession(ctx context.Context, session *entities.InspectionSession) error
		GetSessionByID(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error)
		// GetSessionForUpdate locks the session row so submit, cancel and
		// record calls on the same session serialize.
		GetSessionForUpdate(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error)
		HasInProgressSession(ctx context.Context, compartmentID uuid.UUID) (bool, error)
		SaveSession(ctx context.Context, session *entities.InspectionSession) error

		CreateActions(ctx context.Context, actions []*entities.InspectionAction) error
		GetActionsBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.InspectionAction, error)
	}

	inspectionRepository struct {
		db *gorm.DB
	}
)

func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) WithTx(tx *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: tx}
}

func (r *inspectionRepository) CreateSession(ctx context.Context, session *entities.InspectionSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *inspectionRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error) {
	var session entities.InspectionSession
	if err := r.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at asc")
		}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *inspectionRepository) GetSessionForUpdate(ctx context.Context, id uuid.UUID) (*entities.InspectionSession, error) {
	var session entities.InspectionSession
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *inspectionRepository) HasInProgressSession(ctx context.Context, compartmentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.InspectionSession{}).
		Where("compartment_id = ? AND status = ?", compartmentID, entities.SessionStatusInProgress).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *inspectionRepository) SaveSession(ctx context.Context, session *entities.InspectionSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *inspectionRepository) CreateActions(ctx context.Context, actions []*entities.InspectionAction) error {
	if len(actions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(actions).Error
}

func (r *inspectionRepository) GetActionsBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.InspectionAction, error) {
	var actions []*entities.InspectionAction
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("recorded_at asc").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
