package fridge

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	// LockGuard decides whether a compartment currently accepts writes. Every
	// bundle or item mutation calls it before any other validation.
	LockGuard interface {
		WithTx(tx *gorm.DB) LockGuard
		EnsureWritable(ctx context.Context, compartment *entities.FridgeCompartment) error
	}

	lockGuard struct {
		fridgeRepository FridgeRepository
		now              func() time.Time
	}
)

func NewLockGuard(fridgeRepository FridgeRepository) LockGuard {
	return &lockGuard{
		fridgeRepository: fridgeRepository,
		now:              time.Now,
	}
}

func (g *lockGuard) WithTx(tx *gorm.DB) LockGuard {
	return &lockGuard{
		fridgeRepository: g.fridgeRepository.WithTx(tx),
		now:              g.now,
	}
}

// EnsureWritable clears an expired time-bound lock in place (lazy expiry; the
// periodic sweep covers compartments nobody touches) and then rejects writes
// while the compartment is locked or has an inspection in progress.
func (g *lockGuard) EnsureWritable(ctx context.Context, compartment *entities.FridgeCompartment) error {
	now := g.now()

	if compartment.LockedUntil != nil && !compartment.LockedUntil.After(now) {
		compartment.IsLocked = false
		compartment.LockedUntil = nil
		if err := g.fridgeRepository.SaveCompartment(ctx, compartment); err != nil {
			return err
		}
	}

	if compartment.LockActive(now) {
		return domain.ErrCompartmentLocked
	}

	underInspection, err := g.fridgeRepository.HasInProgressInspection(ctx, compartment.ID)
	if err != nil {
		return err
	}
	if underInspection {
		return domain.ErrCompartmentUnderInspection
	}

	return nil
}
