package domain

import "time"

// FeatureName - флаг игровой подсистемы
type FeatureName string

const (
	FeatureGacha       FeatureName = "gacha"
	FeatureStaking     FeatureName = "staking"
	FeatureBattle      FeatureName = "battle"
	FeatureMarketplace FeatureName = "marketplace"
	FeatureMissions    FeatureName = "missions"
	FeatureEvents      FeatureName = "events"
	FeatureFactions    FeatureName = "factions"
	FeatureNFTRewards  FeatureName = "nftRewards"
)

// AllFeatures lists every known feature flag.
var AllFeatures = []FeatureName{
	FeatureGacha,
	FeatureStaking,
	FeatureBattle,
	FeatureMarketplace,
	FeatureMissions,
	FeatureEvents,
	FeatureFactions,
	FeatureNFTRewards,
}

// CurrencyType - тип валюты игрока
type CurrencyType string

const (
	CurrencyTON      CurrencyType = "ton"
	CurrencyDogeCoin CurrencyType = "dogeCoin"
)

type Currency struct {
	TON      int64 `json:"ton"`
	DogeCoin int64 `json:"dogeCoin"`
}

// Get returns the balance for the given currency type.
func (c Currency) Get(t CurrencyType) int64 {
	if t == CurrencyTON {
		return c.TON
	}
	return c.DogeCoin
}

// Add applies a delta (possibly negative) to the given currency type.
// Sufficiency checks are the caller's responsibility.
func (c *Currency) Add(t CurrencyType, amount int64) {
	if t == CurrencyTON {
		c.TON += amount
		return
	}
	c.DogeCoin += amount
}

type StakingInfo struct {
	IsStaking        bool       `json:"isStaking"`
	StakedAmount     int64      `json:"stakedAmount"`
	StakingStartDate *time.Time `json:"stakingStartDate"`
	RewardsRate      float64    `json:"rewardsRate"`
}

type GameEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Completed bool      `json:"completed"`
}

// GameState - полное состояние прогресса игрока. Владеет им исключительно
// game.Ledger; наружу уходят только копии (см. Clone).
type GameState struct {
	UnlockedFeatures   map[FeatureName]bool `json:"unlockedFeatures"`
	Currency           Currency             `json:"currency"`
	Characters         []Character          `json:"characters"`
	SelectedDeck       []int                `json:"selectedDeck"`
	Level              int                  `json:"level"`
	Experience         int                  `json:"experience"`
	Faction            Faction              `json:"faction"`
	CompletedMissions  []string             `json:"completedMissions"`
	GameEvents         []GameEvent          `json:"gameEvents"`
	StakingInfo        StakingInfo          `json:"stakingInfo"`
	WalletConnected    bool                 `json:"walletConnected"`
	WalletAddress      string               `json:"walletAddress"`
	TelegramLinked     bool                 `json:"telegramLinked"`
	LastDonationDate   *time.Time           `json:"lastDonationDate"`
	TotalDonations     int64                `json:"totalDonations"`
	DonationMilestones []int64              `json:"donationMilestones"`
}

// NewInitialState returns the default progression snapshot: gacha available,
// 100 doge coins, everything else locked and empty.
func NewInitialState() *GameState {
	return &GameState{
		UnlockedFeatures: map[FeatureName]bool{
			FeatureGacha:       true,
			FeatureStaking:     false,
			FeatureBattle:      false,
			FeatureMarketplace: false,
			FeatureMissions:    false,
			FeatureEvents:      false,
			FeatureFactions:    false,
			FeatureNFTRewards:  false,
		},
		Currency:           Currency{TON: 0, DogeCoin: 100},
		Characters:         []Character{},
		SelectedDeck:       []int{},
		Level:              1,
		Experience:         0,
		Faction:            FactionNone,
		CompletedMissions:  []string{},
		GameEvents:         []GameEvent{},
		StakingInfo:        StakingInfo{RewardsRate: StakingRewardsRate},
		TotalDonations:     0,
		DonationMilestones: append([]int64(nil), DonationMilestones...),
	}
}

// Clone returns a snapshot copy safe to hand to subscribers: maps and slices
// are copied so consumers cannot feed mutation back into the ledger.
func (s *GameState) Clone() *GameState {
	out := *s

	out.UnlockedFeatures = make(map[FeatureName]bool, len(s.UnlockedFeatures))
	for k, v := range s.UnlockedFeatures {
		out.UnlockedFeatures[k] = v
	}

	out.Characters = make([]Character, len(s.Characters))
	for i := range s.Characters {
		out.Characters[i] = s.Characters[i].Clone()
	}

	out.SelectedDeck = append([]int(nil), s.SelectedDeck...)
	out.CompletedMissions = append([]string(nil), s.CompletedMissions...)
	out.GameEvents = append([]GameEvent(nil), s.GameEvents...)
	out.DonationMilestones = append([]int64(nil), s.DonationMilestones...)

	if s.StakingInfo.StakingStartDate != nil {
		d := *s.StakingInfo.StakingStartDate
		out.StakingInfo.StakingStartDate = &d
	}
	if s.LastDonationDate != nil {
		d := *s.LastDonationDate
		out.LastDonationDate = &d
	}

	return &out
}

// OwnsCharacter reports whether a character id is already in the collection.
func (s *GameState) OwnsCharacter(id int) bool {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return true
		}
	}
	return false
}

// CharacterIndex returns the collection index of a character id, or -1.
func (s *GameState) CharacterIndex(id int) int {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return i
		}
	}
	return -1
}
