package fridge

import (
	"context"
	"log"
	"sync"
	"time"
)

// LockSweeper periodically clears compartment locks whose expiry has passed.
// It complements the lazy expiry in LockGuard: a compartment nobody writes to
// would otherwise stay flagged as locked forever.
type LockSweeper struct {
	fridgeRepository FridgeRepository
	interval         time.Duration
	now              func() time.Time
	ticker           *time.Ticker
	stopCh           chan struct{}
	stopOnce         sync.Once
	running          bool
	mu               sync.Mutex
}

func NewLockSweeper(fridgeRepository FridgeRepository, interval time.Duration) *LockSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LockSweeper{
		fridgeRepository: fridgeRepository,
		interval:         interval,
		now:              time.Now,
		stopCh:           make(chan struct{}),
	}
}

func (s *LockSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()

	log.Printf("[LockSweeper] started, interval %v", s.interval)
	go s.run()
}

func (s *LockSweeper) run() {
	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stopCh:
			log.Printf("[LockSweeper] stopped")
			return
		}
	}
}

func (s *LockSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleared, err := s.fridgeRepository.ClearExpiredLocks(ctx, s.now())
	if err != nil {
		log.Printf("[LockSweeper] sweep failed: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("[LockSweeper] cleared %d expired compartment locks", cleared)
	}
}

func (s *LockSweeper) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.running = false
	})
}
