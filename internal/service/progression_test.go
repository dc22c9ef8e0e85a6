package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/repository"
)

// slowLoadRepo holds every Load until release is closed, simulating a slow
// state store right after a restart.
type slowLoadRepo struct {
	repository.StateRepository
	release chan struct{}
}

func (r *slowLoadRepo) Load(ctx context.Context, key string) (*domain.GameState, error) {
	<-r.release
	return r.StateRepository.Load(ctx, key)
}

func TestLedgerAccessWaitsForSnapshotLoad(t *testing.T) {
	mem := repository.NewMemoryStateRepository()
	seeded := domain.NewInitialState()
	seeded.Currency.TON = 50
	if err := mem.Save(context.Background(), StateKey(7), seeded); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	repo := &slowLoadRepo{StateRepository: mem, release: make(chan struct{})}
	svc := NewProgressionService(repo, nil)

	// two concurrent first accesses: one reads, one mutates
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Ledger(context.Background(), 7).GetState()
	}()
	go func() {
		defer wg.Done()
		svc.Ledger(context.Background(), 7).AddCurrency(context.Background(), domain.CurrencyDogeCoin, 25)
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	// neither access may complete against defaults while the load is pending
	select {
	case <-done:
		t.Fatal("ledger handed out before the snapshot finished loading")
	case <-time.After(50 * time.Millisecond):
	}

	close(repo.release)
	<-done

	s := svc.Ledger(context.Background(), 7).GetState()
	if s.Currency.TON != 50 {
		t.Fatalf("seeded ton = %d, want 50 to survive the concurrent first access", s.Currency.TON)
	}
	if want := seeded.Currency.DogeCoin + 25; s.Currency.DogeCoin != want {
		t.Fatalf("dogeCoin = %d, want %d (mutation applied on top of the snapshot)", s.Currency.DogeCoin, want)
	}

	persisted, err := mem.Load(context.Background(), StateKey(7))
	if err != nil {
		t.Fatalf("reload persisted snapshot: %v", err)
	}
	if persisted.Currency.TON != 50 {
		t.Fatalf("persisted ton = %d, progression was overwritten", persisted.Currency.TON)
	}
}

// countingRepo counts Load calls.
type countingRepo struct {
	repository.StateRepository
	mu    sync.Mutex
	loads int
}

func (r *countingRepo) Load(ctx context.Context, key string) (*domain.GameState, error) {
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
	return r.StateRepository.Load(ctx, key)
}

func TestLedgerLoadsOnlyOnce(t *testing.T) {
	repo := &countingRepo{StateRepository: repository.NewMemoryStateRepository()}
	svc := NewProgressionService(repo, nil)
	ctx := context.Background()

	svc.Ledger(ctx, 3).AddCurrency(ctx, domain.CurrencyTON, 10)
	svc.Bus(ctx, 3)
	if got := svc.Ledger(ctx, 3).GetState().Currency.TON; got != 10 {
		t.Fatalf("ton = %d, want 10 after repeat access", got)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.loads != 1 {
		t.Fatalf("snapshot loaded %d times, want exactly once", repo.loads)
	}
}
