package bundle

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"Fridge-Management-Backend/pkg/fridge"
	"Fridge-Management-Backend/pkg/label"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const expiringWindowDays = 3

type (
	BundleService interface {
		CreateBundle(ctx context.Context, req domain.CreateBundleRequest, userID string) (domain.BundleResponse, error)
		GetBundleByID(ctx context.Context, bundleID string, userID string, role string) (domain.BundleResponse, error)
		GetMyBundles(ctx context.Context, userID string) ([]domain.BundleResponse, error)
		GetBundlesByCompartment(ctx context.Context, compartmentID string) ([]domain.BundleResponse, error)
		DeleteBundle(ctx context.Context, bundleID string, userID string, role string) error
		AddItem(ctx context.Context, bundleID string, req domain.BundleItemRequest, userID string, role string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, itemID string, req domain.UpdateItemRequest, userID string, role string) error
		RemoveItem(ctx context.Context, itemID string, userID string, role string) error
	}

	bundleService struct {
		runTx            func(fn func(tx *gorm.DB) error) error
		bundleRepository BundleRepository
		fridgeRepository fridge.FridgeRepository
		lockGuard        fridge.LockGuard
		labelAllocator   label.LabelAllocator
		now              func() time.Time
	}
)

func NewBundleService(
	db *gorm.DB,
	bundleRepository BundleRepository,
	fridgeRepository fridge.FridgeRepository,
	lockGuard fridge.LockGuard,
	labelAllocator label.LabelAllocator,
) BundleService {
	return &bundleService{
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
		bundleRepository: bundleRepository,
		fridgeRepository: fridgeRepository,
		lockGuard:        lockGuard,
		labelAllocator:   labelAllocator,
		now:              time.Now,
	}
}

// CreateBundle locks the compartment row, checks the guard and the capacity
// bound, allocates a label and persists bundle plus items in one transaction.
// A concurrent create racing past the count is stopped by the unique index on
// (compartment, active label) and reported as the same capacity conflict.
func (s *bundleService) CreateBundle(ctx context.Context, req domain.CreateBundleRequest, userID string) (domain.BundleResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return domain.BundleResponse{}, domain.ErrParseUUID
	}
	compartmentID, err := uuid.Parse(req.CompartmentID)
	if err != nil {
		return domain.BundleResponse{}, domain.ErrParseUUID
	}

	items := make([]*entities.FridgeItem, 0, len(req.Items))
	now := s.now()
	for _, itemReq := range req.Items {
		item, err := s.buildItem(itemReq)
		if err != nil {
			return domain.BundleResponse{}, err
		}
		items = append(items, item)
	}

	var res domain.BundleResponse
	err = s.runTx(func(tx *gorm.DB) error {
		fridgeRepo := s.fridgeRepository.WithTx(tx)
		bundleRepo := s.bundleRepository.WithTx(tx)

		compartment, err := fridgeRepo.GetCompartmentForUpdate(ctx, compartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCompartmentNotFound
			}
			return err
		}

		if err := s.lockGuard.WithTx(tx).EnsureWritable(ctx, compartment); err != nil {
			return err
		}

		activeCount, err := fridgeRepo.CountActiveBundles(ctx, compartment.ID)
		if err != nil {
			return err
		}
		if activeCount >= int64(compartment.MaxBundleCount) {
			return domain.ErrCapacityExceeded
		}

		number, err := s.labelAllocator.WithTx(tx).Allocate(ctx, compartment.ID)
		if err != nil {
			return err
		}

		bundle := &entities.FridgeBundle{
			ID:            uuid.New(),
			OwnerID:       ownerID,
			CompartmentID: compartment.ID,
			LabelNumber:   number,
			Status:        entities.BundleStatusActive,
		}
		for _, item := range items {
			item.BundleID = bundle.ID
		}
		bundle.Items = items

		if err := bundleRepo.CreateBundle(ctx, bundle); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrCapacityExceeded
			}
			return err
		}

		res = s.bundleResponse(bundle, compartment.SlotIndex, now)
		return nil
	})
	if err != nil {
		return domain.BundleResponse{}, err
	}
	return res, nil
}

func (s *bundleService) GetBundleByID(ctx context.Context, bundleID string, userID string, role string) (domain.BundleResponse, error) {
	bundle, err := s.loadBundle(ctx, s.bundleRepository, bundleID)
	if err != nil {
		return domain.BundleResponse{}, err
	}
	if bundle.OwnerID.String() != userID && !domain.IsElevated(role) {
		return domain.BundleResponse{}, domain.ErrNotBundleOwner
	}
	return s.bundleResponse(bundle, s.slotIndexOf(bundle), s.now()), nil
}

func (s *bundleService) GetMyBundles(ctx context.Context, userID string) ([]domain.BundleResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	bundles, err := s.bundleRepository.GetBundlesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.bundleResponses(bundles), nil
}

func (s *bundleService) GetBundlesByCompartment(ctx context.Context, compartmentID string) ([]domain.BundleResponse, error) {
	id, err := uuid.Parse(compartmentID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	bundles, err := s.bundleRepository.GetActiveBundlesByCompartment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.bundleResponses(bundles), nil
}

// DeleteBundle soft-deletes the bundle and all its items with one shared
// timestamp and returns the label number to the recycle pool.
func (s *bundleService) DeleteBundle(ctx context.Context, bundleID string, userID string, role string) error {
	return s.runTx(func(tx *gorm.DB) error {
		bundleRepo := s.bundleRepository.WithTx(tx)
		fridgeRepo := s.fridgeRepository.WithTx(tx)

		bundle, err := s.loadBundle(ctx, bundleRepo, bundleID)
		if err != nil {
			return err
		}
		if bundle.OwnerID.String() != userID && !domain.IsElevated(role) {
			return domain.ErrNotBundleOwner
		}
		if !bundle.IsActive() {
			return domain.ErrBundleNotActive
		}

		compartment, err := fridgeRepo.GetCompartmentForUpdate(ctx, bundle.CompartmentID)
		if err != nil {
			return err
		}
		if err := s.lockGuard.WithTx(tx).EnsureWritable(ctx, compartment); err != nil {
			return err
		}

		if err := bundleRepo.SoftDeleteBundle(ctx, bundle.ID, s.now()); err != nil {
			return err
		}
		return s.labelAllocator.WithTx(tx).Release(ctx, compartment.ID, bundle.LabelNumber)
	})
}

func (s *bundleService) AddItem(ctx context.Context, bundleID string, req domain.BundleItemRequest, userID string, role string) (domain.ItemResponse, error) {
	item, err := s.buildItem(req)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	err = s.runTx(func(tx *gorm.DB) error {
		bundleRepo := s.bundleRepository.WithTx(tx)

		bundle, err := s.loadBundle(ctx, bundleRepo, bundleID)
		if err != nil {
			return err
		}
		if bundle.OwnerID.String() != userID && !domain.IsElevated(role) {
			return domain.ErrNotBundleOwner
		}
		if !bundle.IsActive() {
			return domain.ErrBundleNotActive
		}

		if err := s.guardCompartment(ctx, tx, bundle.CompartmentID); err != nil {
			return err
		}

		item.BundleID = bundle.ID
		return bundleRepo.CreateItem(ctx, item)
	})
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return s.itemResponse(item, s.now()), nil
}

func (s *bundleService) UpdateItem(ctx context.Context, itemID string, req domain.UpdateItemRequest, userID string, role string) error {
	return s.runTx(func(tx *gorm.DB) error {
		bundleRepo := s.bundleRepository.WithTx(tx)

		item, bundle, err := s.loadItemWithBundle(ctx, bundleRepo, itemID)
		if err != nil {
			return err
		}
		if bundle.OwnerID.String() != userID && !domain.IsElevated(role) {
			return domain.ErrNotBundleOwner
		}
		if !bundle.IsActive() {
			return domain.ErrBundleNotActive
		}
		if !item.IsActive() {
			return domain.ErrItemNotActive
		}

		if err := s.guardCompartment(ctx, tx, bundle.CompartmentID); err != nil {
			return err
		}

		if req.Name != "" {
			if strings.TrimSpace(req.Name) == "" {
				return domain.ErrBlankItemName
			}
			item.Name = req.Name
		}
		if req.Quantity != 0 {
			if req.Quantity < 1 {
				return domain.ErrInvalidQuantity
			}
			item.Quantity = req.Quantity
		}
		if req.UnitMeasure != "" {
			item.UnitMeasure = req.UnitMeasure
		}
		if req.ExpiryDate != "" {
			expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
			if err != nil {
				return domain.ErrInvalidExpiryDate
			}
			item.ExpiryDate = expiry
		}

		return bundleRepo.SaveItem(ctx, item)
	})
}

func (s *bundleService) RemoveItem(ctx context.Context, itemID string, userID string, role string) error {
	return s.runTx(func(tx *gorm.DB) error {
		bundleRepo := s.bundleRepository.WithTx(tx)

		item, bundle, err := s.loadItemWithBundle(ctx, bundleRepo, itemID)
		if err != nil {
			return err
		}
		if bundle.OwnerID.String() != userID && !domain.IsElevated(role) {
			return domain.ErrNotBundleOwner
		}
		if !bundle.IsActive() {
			return domain.ErrBundleNotActive
		}
		if !item.IsActive() {
			return domain.ErrItemNotActive
		}

		if err := s.guardCompartment(ctx, tx, bundle.CompartmentID); err != nil {
			return err
		}

		now := s.now()
		item.Status = entities.ItemStatusDeleted
		item.DeletedAt = &now
		return bundleRepo.SaveItem(ctx, item)
	})
}

func (s *bundleService) guardCompartment(ctx context.Context, tx *gorm.DB, compartmentID uuid.UUID) error {
	compartment, err := s.fridgeRepository.WithTx(tx).GetCompartmentForUpdate(ctx, compartmentID)
	if err != nil {
		return err
	}
	return s.lockGuard.WithTx(tx).EnsureWritable(ctx, compartment)
}

func (s *bundleService) loadBundle(ctx context.Context, repo BundleRepository, bundleID string) (*entities.FridgeBundle, error) {
	id, err := uuid.Parse(bundleID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	bundle, err := repo.GetBundleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBundleNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *bundleService) loadItemWithBundle(ctx context.Context, repo BundleRepository, itemID string) (*entities.FridgeItem, *entities.FridgeBundle, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, nil, domain.ErrParseUUID
	}
	item, err := repo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrItemNotFound
		}
		return nil, nil, err
	}
	bundle, err := repo.GetBundleByID(ctx, item.BundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrBundleNotFound
		}
		return nil, nil, err
	}
	return item, bundle, nil
}

func (s *bundleService) buildItem(req domain.BundleItemRequest) (*entities.FridgeItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrBlankItemName
	}
	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, domain.ErrInvalidExpiryDate
	}

	return &entities.FridgeItem{
		ID:          uuid.New(),
		Name:        req.Name,
		Quantity:    req.Quantity,
		UnitMeasure: req.UnitMeasure,
		ExpiryDate:  expiry,
		Status:      entities.ItemStatusActive,
	}, nil
}

func (s *bundleService) slotIndexOf(bundle *entities.FridgeBundle) int {
	if bundle.Compartment != nil {
		return bundle.Compartment.SlotIndex
	}
	return 0
}

func (s *bundleService) bundleResponses(bundles []*entities.FridgeBundle) []domain.BundleResponse {
	now := s.now()
	responses := make([]domain.BundleResponse, 0, len(bundles))
	for _, b := range bundles {
		responses = append(responses, s.bundleResponse(b, s.slotIndexOf(b), now))
	}
	return responses
}

func (s *bundleService) bundleResponse(bundle *entities.FridgeBundle, slotIndex int, now time.Time) domain.BundleResponse {
	res := domain.BundleResponse{
		ID:            bundle.ID.String(),
		OwnerID:       bundle.OwnerID.String(),
		CompartmentID: bundle.CompartmentID.String(),
		Label:         label.FormatLabel(slotIndex, bundle.LabelNumber),
		LabelNumber:   bundle.LabelNumber,
		Status:        bundle.Status,
		CreatedAt:     bundle.CreatedAt,
	}
	for _, item := range bundle.Items {
		res.Items = append(res.Items, s.itemResponse(item, now))
	}
	return res
}

func (s *bundleService) itemResponse(item *entities.FridgeItem, now time.Time) domain.ItemResponse {
	return domain.ItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Quantity:    item.Quantity,
		UnitMeasure: item.UnitMeasure,
		ExpiryDate:  item.ExpiryDate,
		Freshness:   freshnessOf(item.ExpiryDate, now),
		Status:      item.Status,
	}
}

// freshnessOf is derived at read time, never stored.
func freshnessOf(expiry, now time.Time) string {
	if expiry.Before(now) {
		return entities.FreshnessExpired
	}
	if expiry.Before(now.AddDate(0, 0, expiringWindowDays)) {
		return entities.FreshnessExpiring
	}
	return entities.FreshnessOK
}
