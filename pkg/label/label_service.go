package label

import (
	"Fridge-Management-Backend/domain"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxLabel bounds label numbers to three display digits; allocation wraps back
// to 1 once the counter passes it.
const MaxLabel = 999

type (
	LabelAllocator interface {
		WithTx(tx *gorm.DB) LabelAllocator
		Allocate(ctx context.Context, compartmentID uuid.UUID) (int, error)
		Release(ctx context.Context, compartmentID uuid.UUID, number int) error
	}

	labelAllocator struct {
		labelRepository LabelRepository
	}
)

func NewLabelAllocator(labelRepository LabelRepository) LabelAllocator {
	return &labelAllocator{labelRepository: labelRepository}
}

func (a *labelAllocator) WithTx(tx *gorm.DB) LabelAllocator {
	return &labelAllocator{labelRepository: a.labelRepository.WithTx(tx)}
}

// Allocate returns the smallest recycled number when one exists, otherwise the
// first free number scanning forward from the sequence cursor. Callers must
// run it inside the transaction that also persists the bundle.
func (a *labelAllocator) Allocate(ctx context.Context, compartmentID uuid.UUID) (int, error) {
	seq, err := a.labelRepository.GetOrCreateSequence(ctx, compartmentID)
	if err != nil {
		return 0, err
	}

	pool, err := decodePool(seq.RecycledPool)
	if err != nil {
		return 0, err
	}

	if len(pool) > 0 {
		number := pool[0]
		seq.RecycledPool, err = encodePool(pool[1:])
		if err != nil {
			return 0, err
		}
		if err := a.labelRepository.SaveSequence(ctx, seq); err != nil {
			return 0, err
		}
		return number, nil
	}

	active, err := a.labelRepository.ActiveLabelNumbers(ctx, compartmentID)
	if err != nil {
		return 0, err
	}

	candidate := seq.NextLabel
	if candidate < 1 || candidate > MaxLabel {
		candidate = 1
	}
	for i := 0; i < MaxLabel; i++ {
		if !active[candidate] {
			seq.NextLabel = wrap(candidate + 1)
			if err := a.labelRepository.SaveSequence(ctx, seq); err != nil {
				return 0, err
			}
			return candidate, nil
		}
		candidate = wrap(candidate + 1)
	}

	return 0, domain.ErrLabelPoolExhausted
}

// Release returns a freed number to the recycle pool, keeping it sorted and
// deduplicated so the next allocation reuses the smallest number first.
func (a *labelAllocator) Release(ctx context.Context, compartmentID uuid.UUID, number int) error {
	if number < 1 || number > MaxLabel {
		return domain.ErrLabelPoolExhausted
	}

	seq, err := a.labelRepository.GetOrCreateSequence(ctx, compartmentID)
	if err != nil {
		return err
	}

	pool, err := decodePool(seq.RecycledPool)
	if err != nil {
		return err
	}

	for _, n := range pool {
		if n == number {
			return nil
		}
	}

	pool = append(pool, number)
	sort.Ints(pool)

	seq.RecycledPool, err = encodePool(pool)
	if err != nil {
		return err
	}
	return a.labelRepository.SaveSequence(ctx, seq)
}

func wrap(n int) int {
	if n > MaxLabel {
		return 1
	}
	return n
}

// SlotLetter derives the compartment letter from its 0-based slot index in
// bijective base 26: 0 is A, 25 is Z, 26 is AA.
func SlotLetter(slotIndex int) string {
	n := slotIndex + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

// FormatLabel renders the display label residents see on the bundle, e.g.
// slot 0 with number 7 becomes "A007".
func FormatLabel(slotIndex, number int) string {
	return fmt.Sprintf("%s%03d", SlotLetter(slotIndex), number)
}

func decodePool(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var pool []int
	if err := json.Unmarshal([]byte(raw), &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func encodePool(pool []int) (string, error) {
	if pool == nil {
		pool = []int{}
	}
	raw, err := json.Marshal(pool)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
