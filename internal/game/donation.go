package game

import (
	"context"

	"doge_heroes/internal/domain"
)

// NextUnlock - ближайший недостигнутый порог доната и сколько TON не хватает.
type NextUnlock struct {
	Character      *domain.Character `json:"character"`
	DonationNeeded int64             `json:"donationNeeded"`
}

// recordDonation accumulates the cumulative donation total and unlocks the
// character behind every milestone crossed by this credit. Crossing is
// evaluated against cumulative totals: one credit can cross several
// milestones at once. Assumes l.mu is held.
func (l *Ledger) recordDonation(amount int64) {
	prev := l.state.TotalDonations
	newTotal := prev + amount

	l.state.TotalDonations = newTotal
	now := l.now()
	l.state.LastDonationDate = &now

	for _, m := range l.state.DonationMilestones {
		if prev < m && newTotal >= m {
			characterID, ok := domain.MilestoneCharacters[m]
			if !ok || characterID == 0 {
				continue
			}
			if c, newly, err := l.unlockCharacter(characterID); err == nil && newly {
				l.milestone(MilestoneEvent{Milestone: m, Character: *c})
			}
		}
	}
}

// DonateToUnlock unlocks a donation-track character when the current TON
// balance already meets its milestone. It never debits anything — it only
// checks the accumulated balance.
func (l *Ledger) DonateToUnlock(ctx context.Context, characterID int) bool {
	l.mu.Lock()

	if l.state.OwnsCharacter(characterID) {
		l.mu.Unlock()
		return false
	}

	milestone := domain.CharacterMilestone(characterID)
	if milestone == 0 {
		l.mu.Unlock()
		return false
	}

	if l.state.Currency.TON < milestone {
		l.mu.Unlock()
		return false
	}

	if _, newly, err := l.unlockCharacter(characterID); err != nil || !newly {
		l.mu.Unlock()
		return false
	}
	l.finish(ctx)
	return true
}

// GetNextUnlockableCharacter scans the milestone table in ascending order for
// the first milestone above the current TON balance whose character is still
// locked, plus the shortfall. Nil character means nothing is left to chase.
func (l *Ledger) GetNextUnlockableCharacter() NextUnlock {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.state.Currency.TON
	for _, m := range l.state.DonationMilestones {
		if balance >= m {
			continue
		}
		characterID, ok := domain.MilestoneCharacters[m]
		if !ok || characterID == 0 {
			continue
		}
		if l.state.OwnsCharacter(characterID) {
			continue
		}
		if c := domain.CharacterByID(characterID); c != nil {
			return NextUnlock{Character: c, DonationNeeded: m - balance}
		}
	}

	return NextUnlock{Character: nil, DonationNeeded: 0}
}

// GetDonationTiers returns the fixed milestone table.
func (l *Ledger) GetDonationTiers() []domain.DonationTier {
	return domain.DonationTiers()
}
