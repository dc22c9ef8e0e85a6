package repository

import (
	"context"
	"testing"
	"time"

	"doge_heroes/internal/domain"
)

func TestMemoryRoundTrip(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	if _, err := repo.Load(ctx, "missing"); err != ErrStateNotFound {
		t.Fatalf("load of missing key = %v, want ErrStateNotFound", err)
	}

	state := domain.NewInitialState()
	state.Currency.TON = 37
	state.TotalDonations = 37
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state.StakingInfo = domain.StakingInfo{
		IsStaking:        true,
		StakedAmount:     20,
		StakingStartDate: &start,
		RewardsRate:      domain.StakingRewardsRate,
	}
	state.Characters = append(state.Characters, *domain.CharacterByID(3))

	if err := repo.Save(ctx, "player:1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "player:1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Currency.TON != 37 {
		t.Fatalf("ton = %d, want 37", got.Currency.TON)
	}
	if got.StakingInfo.StakingStartDate == nil || !got.StakingInfo.StakingStartDate.Equal(start) {
		t.Fatalf("staking start date not revived: %v", got.StakingInfo.StakingStartDate)
	}
	if len(got.Characters) != 1 || got.Characters[0].ID != 3 {
		t.Fatalf("characters not round-tripped: %+v", got.Characters)
	}
}

func TestDecodeRevivesDatesFromRawJSON(t *testing.T) {
	// snapshot as the web client historically wrote it: ISO date strings
	raw := []byte(`{
		"currency": {"ton": 12, "dogeCoin": 300},
		"stakingInfo": {"isStaking": true, "stakedAmount": 10,
			"stakingStartDate": "2026-01-15T08:30:00Z", "rewardsRate": 0.05},
		"lastDonationDate": "2026-01-10T00:00:00Z",
		"gameEvents": [{"id": "e1", "name": "Launch",
			"startDate": "2026-02-01T00:00:00Z", "endDate": "2026-02-07T00:00:00Z"}]
	}`)

	state, err := DecodeState(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if state.StakingInfo.StakingStartDate == nil {
		t.Fatal("stakingStartDate not revived")
	}
	if state.StakingInfo.StakingStartDate.Year() != 2026 || state.StakingInfo.StakingStartDate.Hour() != 8 {
		t.Fatalf("stakingStartDate wrong: %v", state.StakingInfo.StakingStartDate)
	}
	if state.LastDonationDate == nil || state.LastDonationDate.Day() != 10 {
		t.Fatalf("lastDonationDate wrong: %v", state.LastDonationDate)
	}
	if len(state.GameEvents) != 1 || state.GameEvents[0].EndDate.Day() != 7 {
		t.Fatalf("gameEvents dates wrong: %+v", state.GameEvents)
	}

	// fields absent from the snapshot keep their defaults (shallow merge)
	if !state.UnlockedFeatures[domain.FeatureGacha] {
		t.Fatal("default gacha unlock lost during merge")
	}
	if state.Level != 1 {
		t.Fatalf("level = %d, want default 1", state.Level)
	}
	if len(state.DonationMilestones) != 5 {
		t.Fatalf("milestones not defaulted: %v", state.DonationMilestones)
	}
}

func TestDecodeNormalizesStakingInvariant(t *testing.T) {
	// isStaking=true without a start date is an invalid snapshot; the loader
	// must settle it back to idle
	raw := []byte(`{"stakingInfo": {"isStaking": true, "stakedAmount": 50, "stakingStartDate": null}}`)

	state, err := DecodeState(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.StakingInfo.IsStaking {
		t.Fatal("isStaking should be false without a start date")
	}
	if state.StakingInfo.StakedAmount != 0 {
		t.Fatalf("stakedAmount = %d, want 0 when idle", state.StakingInfo.StakedAmount)
	}
	if state.StakingInfo.RewardsRate != domain.StakingRewardsRate {
		t.Fatalf("rewardsRate = %v, want default", state.StakingInfo.RewardsRate)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeState([]byte(`{broken`)); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}
