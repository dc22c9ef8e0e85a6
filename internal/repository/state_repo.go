package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"doge_heroes/internal/domain"
)

// ErrStateNotFound - снапшот для данного ключа еще не сохранялся
var ErrStateNotFound = errors.New("game state not found")

// StateRepository persists the full progression snapshot as one JSON document
// under a fixed per-player key. Implementations: Redis (default), Postgres,
// in-memory (tests and dev).
type StateRepository interface {
	Load(ctx context.Context, key string) (*domain.GameState, error)
	Save(ctx context.Context, key string, state *domain.GameState) error
}

// EncodeState serializes a snapshot for storage. Date fields become RFC 3339
// strings, matching the layout the web client historically wrote.
func EncodeState(state *domain.GameState) ([]byte, error) {
	return json.Marshal(state)
}

// DecodeState merges a raw snapshot over the defaults and revives serialized
// date values. A snapshot written by an older shape only overrides the fields
// it carries; everything else keeps its default.
func DecodeState(raw []byte) (*domain.GameState, error) {
	state := domain.NewInitialState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	normalizeState(state)
	return state, nil
}

// normalizeState re-establishes invariants that raw snapshots may violate:
// isStaking == (stakingStartDate != nil), stakedAmount == 0 when idle, and
// the fixed milestone table is never empty.
func normalizeState(state *domain.GameState) {
	if state.UnlockedFeatures == nil {
		state.UnlockedFeatures = domain.NewInitialState().UnlockedFeatures
	}
	for _, f := range domain.AllFeatures {
		if _, ok := state.UnlockedFeatures[f]; !ok {
			state.UnlockedFeatures[f] = false
		}
	}
	if len(state.DonationMilestones) == 0 {
		state.DonationMilestones = append([]int64(nil), domain.DonationMilestones...)
	}
	if state.Level < 1 {
		state.Level = 1
	}
	if state.StakingInfo.RewardsRate == 0 {
		state.StakingInfo.RewardsRate = domain.StakingRewardsRate
	}
	if state.StakingInfo.StakingStartDate == nil {
		state.StakingInfo.IsStaking = false
		state.StakingInfo.StakedAmount = 0
	} else {
		state.StakingInfo.IsStaking = true
	}
	if state.Characters == nil {
		state.Characters = []domain.Character{}
	}
}

// MemoryStateRepository - хранилище в памяти для тестов и DEV_MODE
type MemoryStateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{data: make(map[string][]byte)}
}

func (r *MemoryStateRepository) Load(ctx context.Context, key string) (*domain.GameState, error) {
	r.mu.RLock()
	raw, ok := r.data[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return DecodeState(raw)
}

func (r *MemoryStateRepository) Save(ctx context.Context, key string, state *domain.GameState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[key] = raw
	r.mu.Unlock()
	return nil
}
