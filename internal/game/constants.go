package game

import "doge_heroes/internal/domain"

// Звуковые/тостовые подсказки для презентационного слоя. Ledger только
// сообщает какая мутация произошла; проигрывание - забота фронта.
const (
	CueCoin    = "coin"
	CueUnlock  = "unlock"
	CueLevelUp = "levelup"
	CueSuccess = "success"
	CueError   = "error"
)

// Пороги бонусных шансов гачи (сумма пулла в TON)
const (
	gachaBulkTier1 = 20 // ~5 пуллов
	gachaBulkTier2 = 35 // ~10 пуллов
)

type rarityOdds struct {
	rarity domain.Rarity
	prob   float64
}

// gachaOdds returns the rarity probability table for a pull of the given
// size, in the fixed draw order legendary -> epic -> rare -> uncommon ->
// common. Bulk pulls raise legendary/epic without renormalizing the rest:
// the total mass may exceed 1, which implicitly shrinks the common share
// because the cumulative walk exits early. That skew matches the shipped
// odds and must not be "fixed".
func gachaOdds(tonAmount int64) []rarityOdds {
	odds := []rarityOdds{
		{domain.RarityLegendary, 0.01},
		{domain.RarityEpic, 0.05},
		{domain.RarityRare, 0.15},
		{domain.RarityUncommon, 0.30},
		{domain.RarityCommon, 0.49},
	}

	switch {
	case tonAmount >= gachaBulkTier2:
		odds[0].prob = 0.03
		odds[1].prob = 0.10
	case tonAmount >= gachaBulkTier1:
		odds[0].prob = 0.02
		odds[1].prob = 0.07
	}

	return odds
}

// gachaFallbackOrder - порядок перебора редкостей, когда в выпавшей редкости
// не осталось неоткрытых персонажей. Legendary намеренно отсутствует.
var gachaFallbackOrder = []domain.Rarity{
	domain.RarityEpic,
	domain.RarityRare,
	domain.RarityUncommon,
	domain.RarityCommon,
}
