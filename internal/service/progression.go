package service

import (
	"context"
	"fmt"
	"sync"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/game"
	"doge_heroes/internal/logger"
	"doge_heroes/internal/pubsub"
	"doge_heroes/internal/repository"
)

// MilestoneNotifyFunc получает уведомление о пересеченном пороге доната
// (используется ботом для поздравительных сообщений).
type MilestoneNotifyFunc func(userID int64, ev game.MilestoneEvent)

// ProgressionService keeps one Ledger per player. Ledgers are created lazily
// on first access and loaded from the shared state repository; after that the
// in-memory ledger is authoritative and every mutation writes back through it.
type ProgressionService struct {
	repo      repository.StateRepository
	auditRepo *repository.AuditRepository // optional

	mu      sync.Mutex
	players map[int64]*playerEntry

	notifyMu        sync.RWMutex
	milestoneNotify MilestoneNotifyFunc
}

type playerEntry struct {
	ledger *game.Ledger
	bus    *pubsub.Bus

	// loaded gates first use: the snapshot must be in the ledger before any
	// accessor can hand it out, otherwise a concurrent mutation runs against
	// defaults and its commit overwrites the persisted progression.
	loaded sync.Once
}

func NewProgressionService(repo repository.StateRepository, auditRepo *repository.AuditRepository) *ProgressionService {
	return &ProgressionService{
		repo:      repo,
		auditRepo: auditRepo,
		players:   make(map[int64]*playerEntry),
	}
}

// SetMilestoneNotifyCallback wires the notification bot. May be nil.
func (s *ProgressionService) SetMilestoneNotifyCallback(fn MilestoneNotifyFunc) {
	s.notifyMu.Lock()
	s.milestoneNotify = fn
	s.notifyMu.Unlock()
}

// StateKey returns the storage key for a player's snapshot.
func StateKey(userID int64) string {
	return fmt.Sprintf("doge_game_state:%d", userID)
}

// Ledger returns the player's ledger, creating and loading it on first use.
func (s *ProgressionService) Ledger(ctx context.Context, userID int64) *game.Ledger {
	return s.entry(ctx, userID).ledger
}

// Bus returns the player's state bus for push subscribers (websockets).
func (s *ProgressionService) Bus(ctx context.Context, userID int64) *pubsub.Bus {
	return s.entry(ctx, userID).bus
}

func (s *ProgressionService) entry(ctx context.Context, userID int64) *playerEntry {
	s.mu.Lock()
	e, ok := s.players[userID]
	if !ok {
		bus := pubsub.NewBus()
		ledger := game.NewLedger(StateKey(userID), s.repo, bus)
		ledger.OnMilestone = func(ev game.MilestoneEvent) {
			s.notifyMu.RLock()
			fn := s.milestoneNotify
			s.notifyMu.RUnlock()
			if fn != nil {
				fn(userID, ev)
			}
		}
		e = &playerEntry{ledger: ledger, bus: bus}
		s.players[userID] = e
	}
	s.mu.Unlock()

	// the first caller loads the snapshot, everyone else blocks here until
	// it lands; the load runs outside the registry lock so a slow store for
	// one player never stalls the others
	e.loaded.Do(func() { e.ledger.Load(ctx) })
	return e
}

// Audit records a progression action best-effort; storage errors are logged
// and never surface to the caller.
func (s *ProgressionService) Audit(ctx context.Context, userID int64, action domain.AuditAction, details map[string]interface{}) {
	if s.auditRepo == nil {
		return
	}
	err := s.auditRepo.Create(ctx, &domain.AuditLog{
		StateKey: StateKey(userID),
		Action:   action,
		Details:  details,
	})
	if err != nil {
		logger.Warn("failed to write audit log", "user_id", userID, "action", action, "error", err)
	}
}

// AuditTrail returns the player's recent audit entries, newest first.
func (s *ProgressionService) AuditTrail(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	if s.auditRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.auditRepo.GetByStateKey(ctx, StateKey(userID), limit)
}
