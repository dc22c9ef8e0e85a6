// Package game implements the progression ledger: the single authoritative
// owner of a player's GameState and the rule engine for currency, unlocks,
// leveling, gacha and staking. All mutation goes through Ledger methods;
// persistence and notification collaborators only ever see snapshot copies.
package game

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"time"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/logger"
	"doge_heroes/internal/pubsub"
	"doge_heroes/internal/repository"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoActiveStaking   = errors.New("no active staking")
	ErrCharacterNotFound = errors.New("character not found")
	ErrUnknownFaction    = errors.New("unknown faction")
)

// MilestoneEvent сообщает хукам о пересеченном пороге доната.
type MilestoneEvent struct {
	Milestone int64
	Character domain.Character
}

// Ledger owns one player's progression state. Construct with NewLedger, then
// call Load once; after that every mutation persists a snapshot and notifies
// the bus. Safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	state *domain.GameState

	key  string
	repo repository.StateRepository
	bus  *pubsub.Bus

	now       func() time.Time
	randFloat func() float64
	randIntn  func(n int) int

	pendingCues       []string
	pendingMilestones []MilestoneEvent

	// OnCue receives a symbolic sound/toast cue after each mutation commit.
	OnCue func(cue string)
	// OnMilestone fires for every donation milestone crossed.
	OnMilestone func(ev MilestoneEvent)
}

func NewLedger(key string, repo repository.StateRepository, bus *pubsub.Bus) *Ledger {
	return &Ledger{
		state:     domain.NewInitialState(),
		key:       key,
		repo:      repo,
		bus:       bus,
		now:       time.Now,
		randFloat: cryptoRandFloat,
		randIntn:  cryptoRandIntn,
	}
}

// SetClock replaces the wall clock. Tests only; not safe after first use.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// SetRand replaces the random sources. Tests only; not safe after first use.
func (l *Ledger) SetRand(randFloat func() float64, randIntn func(n int) int) {
	l.randFloat = randFloat
	l.randIntn = randIntn
}

// Load reads the persisted snapshot and merges it over defaults. Any read or
// parse failure falls back to defaults and never propagates.
func (l *Ledger) Load(ctx context.Context) {
	state, err := l.repo.Load(ctx, l.key)
	if err != nil {
		if !errors.Is(err, repository.ErrStateNotFound) {
			logger.Warn("failed to load game state, using defaults", "key", l.key, "error", err)
		}
		return
	}
	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
}

// GetState returns a snapshot copy of the current state.
func (l *Ledger) GetState() *domain.GameState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// IsGameUnlocked reports whether the player owns at least one character.
func (l *Ledger) IsGameUnlocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state.Characters) > 0
}

// GetCharacterByID returns a copy of the catalog entry, or nil.
func (l *Ledger) GetCharacterByID(id int) *domain.Character {
	return domain.CharacterByID(id)
}

// ConnectWallet mirrors the external wallet collaborator's connection into
// the state. The first-ever connection while the TON balance is zero grants
// a one-time welcome bonus; re-connecting just replaces the address.
func (l *Ledger) ConnectWallet(ctx context.Context, address string) {
	l.mu.Lock()
	l.state.WalletConnected = true
	l.state.WalletAddress = address

	if l.state.Currency.TON == 0 {
		l.addCurrency(domain.CurrencyTON, domain.WalletWelcomeBonusTON)
	}
	l.finish(ctx)
}

func (l *Ledger) DisconnectWallet(ctx context.Context) {
	l.mu.Lock()
	l.state.WalletConnected = false
	l.state.WalletAddress = ""
	l.finish(ctx)
}

// LinkTelegram is idempotent; the first link also opens the factions feature.
func (l *Ledger) LinkTelegram(ctx context.Context) {
	l.mu.Lock()
	l.state.TelegramLinked = true
	if !l.state.UnlockedFeatures[domain.FeatureFactions] {
		l.unlockFeature(domain.FeatureFactions)
	}
	l.finish(ctx)
}

// AddCurrency applies a delta to a balance. Negative amounts are debits; the
// primitive performs no floor check — callers verify sufficiency first.
// Positive TON credits count as donations and may cross unlock milestones.
func (l *Ledger) AddCurrency(ctx context.Context, t domain.CurrencyType, amount int64) {
	l.mu.Lock()
	l.addCurrency(t, amount)
	l.finish(ctx)
}

// SelectFaction records the faction choice, opens the factions feature and
// grants the faction's one-time bonus. There is deliberately no repeat-call
// guard: calling again re-grants the bonus (kept as shipped).
func (l *Ledger) SelectFaction(ctx context.Context, faction domain.Faction) error {
	if faction != domain.FactionMafia && faction != domain.FactionRescuers {
		return ErrUnknownFaction
	}

	l.mu.Lock()
	l.state.Faction = faction
	l.unlockFeature(domain.FeatureFactions)
	l.cue(CueSuccess)

	if faction == domain.FactionMafia {
		l.addCurrency(domain.CurrencyDogeCoin, domain.MafiaBonusDogeCoin)
	} else {
		l.addCurrency(domain.CurrencyDogeCoin, domain.RescuersBonusDogeCoin)
		l.unlockCharacter(domain.RescuersBonusCharacterID)
	}
	l.finish(ctx)
	return nil
}

// UnlockCharacter adds a catalog character to the collection. Already owned
// is a soft no-op (the owned copy is returned with newly=false); an id
// missing from the catalog is an error.
func (l *Ledger) UnlockCharacter(ctx context.Context, characterID int) (c *domain.Character, newly bool, err error) {
	l.mu.Lock()
	c, newly, err = l.unlockCharacter(characterID)
	if err != nil || !newly {
		l.mu.Unlock()
		return c, newly, err
	}
	l.finish(ctx)
	return c, true, nil
}

// UnlockFeature marks a feature flag true; unknown names and repeat calls are
// no-ops. Unlocks may cascade into level-gated secondary unlocks.
func (l *Ledger) UnlockFeature(ctx context.Context, f domain.FeatureName) {
	known := false
	for _, name := range domain.AllFeatures {
		if name == f {
			known = true
			break
		}
	}
	if !known {
		logger.Warn("unlock of unknown feature ignored", "feature", f)
		return
	}

	l.mu.Lock()
	if l.state.UnlockedFeatures[f] {
		l.mu.Unlock()
		return
	}
	l.unlockFeature(f)
	l.finish(ctx)
}

// AddExperience credits XP and converts overflow into level-ups, applying
// level unlocks and every-5th-level bonuses. Returns the number of levels
// gained by this call (cascaded grants included).
func (l *Ledger) AddExperience(ctx context.Context, amount int) int {
	l.mu.Lock()
	before := l.state.Level
	l.addExperience(amount)
	gained := l.state.Level - before
	l.finish(ctx)
	return gained
}

// ResetGameState replaces everything with the initial defaults. Total and
// irreversible.
func (l *Ledger) ResetGameState(ctx context.Context) {
	l.mu.Lock()
	l.state = domain.NewInitialState()
	l.finish(ctx)
}

// --- internals; every method below assumes l.mu is held ---

func (l *Ledger) addCurrency(t domain.CurrencyType, amount int64) {
	l.state.Currency.Add(t, amount)

	if t == domain.CurrencyTON && amount > 0 {
		l.recordDonation(amount)
	}
	if amount > 0 {
		l.cue(CueCoin)
	}
}

func (l *Ledger) unlockCharacter(characterID int) (*domain.Character, bool, error) {
	if idx := l.state.CharacterIndex(characterID); idx != -1 {
		owned := l.state.Characters[idx].Clone()
		logger.Debug("character already unlocked", "id", characterID, "name", owned.Name)
		return &owned, false, nil
	}

	tmpl := domain.CharacterByID(characterID)
	if tmpl == nil {
		logger.Error("character not found in catalog", "id", characterID)
		return nil, false, ErrCharacterNotFound
	}

	c := l.addCharacter(*tmpl)
	l.addExperience(c.Rarity.ExperienceReward())
	return c, true, nil
}

// addCharacter inserts an unlocked copy into the collection and applies the
// battle-at-2 rule. Returns a copy of the owned record.
func (l *Ledger) addCharacter(tmpl domain.Character) *domain.Character {
	owned := tmpl.Clone()
	owned.Unlocked = true
	l.state.Characters = append(l.state.Characters, owned)
	l.cue(CueUnlock)

	if len(l.state.Characters) >= 2 && !l.state.UnlockedFeatures[domain.FeatureBattle] {
		l.unlockFeature(domain.FeatureBattle)
	}

	out := owned.Clone()
	return &out
}

func (l *Ledger) unlockFeature(f domain.FeatureName) {
	if l.state.UnlockedFeatures[f] {
		return
	}
	l.state.UnlockedFeatures[f] = true
	l.cue(CueUnlock)

	// Одноразовый каскад level-gated анлоков. Таблица сознательно расходится
	// с таблицей addExperience; см. тест TestUnlockTablesDiverge.
	switch {
	case f == domain.FeatureBattle && l.state.Level >= 3:
		l.unlockFeature(domain.FeatureMarketplace)
	case f == domain.FeatureMarketplace && l.state.Level >= 5:
		l.unlockFeature(domain.FeatureMissions)
	case f == domain.FeatureMissions && l.state.Level >= 8:
		l.unlockFeature(domain.FeatureEvents)
	case f == domain.FeatureEvents && l.state.Level >= 10:
		l.unlockFeature(domain.FeatureNFTRewards)
	}
}

func (l *Ledger) addExperience(amount int) {
	l.state.Experience += amount

	// overflow converts into level-ups; the threshold grows with each level
	for l.state.Experience >= l.state.Level*100 {
		l.state.Experience -= l.state.Level * 100
		l.state.Level++
		l.cue(CueLevelUp)

		switch l.state.Level {
		case 3:
			l.unlockFeature(domain.FeatureStaking)
		case 5:
			l.unlockFeature(domain.FeatureMarketplace)
		case 8:
			l.unlockFeature(domain.FeatureMissions)
		}
		if l.state.Level >= 10 {
			l.unlockFeature(domain.FeatureEvents)
		}
		if l.state.Level >= 15 {
			l.unlockFeature(domain.FeatureNFTRewards)
		}

		if l.state.Level%5 == 0 {
			l.addCurrency(domain.CurrencyTON, int64(l.state.Level))
			l.addCurrency(domain.CurrencyDogeCoin, int64(l.state.Level*10))
		}
	}
}

func (l *Ledger) cue(name string) {
	l.pendingCues = append(l.pendingCues, name)
}

func (l *Ledger) milestone(ev MilestoneEvent) {
	l.pendingMilestones = append(l.pendingMilestones, ev)
}

// finish commits a mutation: snapshot, persist, release the lock, then
// notify subscribers and fire hooks. Persist failures only cost durability
// for this write; they are logged and swallowed.
func (l *Ledger) finish(ctx context.Context) {
	snap := l.state.Clone()
	cues := l.pendingCues
	milestones := l.pendingMilestones
	l.pendingCues = nil
	l.pendingMilestones = nil
	l.mu.Unlock()

	if l.repo != nil {
		if err := l.repo.Save(ctx, l.key, snap); err != nil {
			logger.Warn("failed to persist game state", "key", l.key, "error", err)
		}
	}
	if l.bus != nil {
		l.bus.Publish(snap)
	}
	if l.OnCue != nil {
		for _, c := range cues {
			l.OnCue(c)
		}
	}
	if l.OnMilestone != nil {
		for _, ev := range milestones {
			l.OnMilestone(ev)
		}
	}
}

// abort drops pending events after a precondition failure: no persist, no
// notify, only an error cue for the caller's toast/sound surface.
func (l *Ledger) abort() {
	l.pendingCues = nil
	l.pendingMilestones = nil
	l.mu.Unlock()

	if l.OnCue != nil {
		l.OnCue(CueError)
	}
}

func cryptoRandFloat() float64 {
	max := big.NewInt(1000000) // 0.000001 precision
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		n = big.NewInt(500000)
	}
	return float64(n.Int64()) / 1000000.0
}

func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
