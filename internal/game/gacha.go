package game

import (
	"context"
	"math"

	"doge_heroes/internal/domain"
)

// PullResult - исход гача-пулла
type PullResult struct {
	Character domain.Character `json:"character"`
	Rarity    domain.Rarity    `json:"rarity"`
	// LeveledUp is true when the whole catalog is owned and the pull
	// converted into a duplicate level-up instead of a new character.
	LeveledUp bool `json:"leveledUp"`
}

// PullGacha exchanges TON for a weighted-random character. The debit happens
// only on success; an insufficient balance mutates nothing.
func (l *Ledger) PullGacha(ctx context.Context, tonAmount int64) (*PullResult, error) {
	l.mu.Lock()

	if l.state.Currency.TON < tonAmount {
		l.abort()
		return nil, ErrInsufficientFunds
	}

	l.addCurrency(domain.CurrencyTON, -tonAmount)

	rarity := l.rollRarity(tonAmount)
	result := l.resolvePull(rarity)

	l.finish(ctx)
	return result, nil
}

// rollRarity draws a rarity tier with a cumulative walk over the odds table
// in its fixed order. Assumes l.mu is held.
func (l *Ledger) rollRarity(tonAmount int64) domain.Rarity {
	odds := gachaOdds(tonAmount)
	r := l.randFloat()

	selected := domain.RarityCommon
	cumulative := 0.0
	for _, o := range odds {
		cumulative += o.prob
		if r <= cumulative {
			selected = o.rarity
			break
		}
	}
	return selected
}

// resolvePull turns a drawn rarity into an owned character: a uniform pick
// among unowned of that rarity, the fixed fallback chain when the tier is
// exhausted, or a duplicate level-up once the whole catalog is owned.
// Assumes l.mu is held.
func (l *Ledger) resolvePull(rarity domain.Rarity) *PullResult {
	if c := l.pickUnowned(rarity); c != nil {
		owned := l.addCharacter(*c)
		return &PullResult{Character: *owned, Rarity: rarity}
	}

	// выпавшая редкость исчерпана - ищем первую редкость с неоткрытым
	// персонажем (legendary в цепочке нет намеренно)
	for _, fallback := range gachaFallbackOrder {
		if c := l.pickUnowned(fallback); c != nil {
			owned := l.addCharacter(*c)
			return &PullResult{Character: *owned, Rarity: fallback}
		}
	}

	// весь каталог открыт: дубликат конвертируется в level-up
	idx := l.randIntn(len(domain.CharacterCatalog))
	id := domain.CharacterCatalog[idx].ID
	ownedIdx := l.state.CharacterIndex(id)
	if ownedIdx == -1 {
		// цепочка fallback пропускает legendary, поэтому дубликатный ролл
		// может попасть на еще не открытую легендарку - выдаем ее как нового
		// персонажа, а не как пустой level-up
		owned := l.addCharacter(domain.CharacterCatalog[idx])
		return &PullResult{Character: *owned, Rarity: owned.Rarity}
	}

	c := &l.state.Characters[ownedIdx]
	c.Level++
	c.Power = int(math.Floor(float64(c.Power) * 1.1))
	l.cue(CueLevelUp)

	out := c.Clone()
	return &PullResult{Character: out, Rarity: out.Rarity, LeveledUp: true}
}

// pickUnowned returns a uniformly random catalog character of the given
// rarity that the player does not own yet, or nil. Assumes l.mu is held.
func (l *Ledger) pickUnowned(rarity domain.Rarity) *domain.Character {
	var available []domain.Character
	for _, c := range domain.CharacterCatalog {
		if c.Rarity == rarity && !l.state.OwnsCharacter(c.ID) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return nil
	}
	c := available[l.randIntn(len(available))].Clone()
	return &c
}
