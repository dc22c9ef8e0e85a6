package game

import (
	"context"
	"math"
	"time"

	"doge_heroes/internal/domain"
)

const hoursPerDay = 24

// StartStaking locks TON into staking at the fixed 5% annual rate and opens
// the staking feature. Starting a new stake while one is active is not
// guarded here; claim-before-restake is a UX rule, not a ledger rule.
func (l *Ledger) StartStaking(ctx context.Context, amount int64) error {
	l.mu.Lock()

	if l.state.Currency.TON < amount {
		l.abort()
		return ErrInsufficientFunds
	}

	l.addCurrency(domain.CurrencyTON, -amount)

	now := l.now()
	l.state.StakingInfo = domain.StakingInfo{
		IsStaking:        true,
		StakedAmount:     amount,
		StakingStartDate: &now,
		RewardsRate:      domain.StakingRewardsRate,
	}
	l.unlockFeature(domain.FeatureStaking)
	l.cue(CueSuccess)

	l.finish(ctx)
	return nil
}

// ClaimStakingRewards commits the accrued reward into the TON balance (which
// counts toward donation milestones — staking feeds the same unlock economy)
// and restarts the accrual clock. A zero reward leaves the clock untouched so
// unclaimed time is not lost; a positive claim discards any sub-unit
// fractional accrual (floor-and-reset).
func (l *Ledger) ClaimStakingRewards(ctx context.Context) (int64, error) {
	l.mu.Lock()

	if !l.state.StakingInfo.IsStaking || l.state.StakingInfo.StakingStartDate == nil {
		l.abort()
		return 0, ErrNoActiveStaking
	}

	now := l.now()
	reward := stakingReward(l.state.StakingInfo, now)
	if reward <= 0 {
		// недостаточно времени прошло; дата старта не сбрасывается
		l.mu.Unlock()
		return 0, nil
	}

	l.addCurrency(domain.CurrencyTON, reward)
	l.state.StakingInfo.StakingStartDate = &now
	l.cue(CueSuccess)

	l.finish(ctx)
	return reward, nil
}

// StakingProjection is the read-only estimate for presentation pollers: the
// reward that ClaimStakingRewards would commit right now, plus the elapsed
// accrual time. Never mutates.
func (l *Ledger) StakingProjection() (reward int64, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info := l.state.StakingInfo
	if !info.IsStaking || info.StakingStartDate == nil {
		return 0, 0
	}
	now := l.now()
	return stakingReward(info, now), now.Sub(*info.StakingStartDate)
}

// stakingReward = floor(staked * rate/365 * elapsedDays), real wall-clock
// fractional days.
func stakingReward(info domain.StakingInfo, now time.Time) int64 {
	elapsedDays := now.Sub(*info.StakingStartDate).Hours() / hoursPerDay
	dailyRate := info.RewardsRate / 365
	return int64(math.Floor(float64(info.StakedAmount) * dailyRate * elapsedDays))
}
