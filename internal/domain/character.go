package domain

// Rarity - редкость персонажа
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Faction - игровая фракция
type Faction string

const (
	FactionMafia    Faction = "Mafia"
	FactionRescuers Faction = "Rescuers"
	// FactionNone - фракция еще не выбрана
	FactionNone Faction = ""
)

type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnlockLevel int    `json:"unlockLevel"`
}

// Character - карточка персонажа. Записи каталога неизменяемы; при открытии
// персонажа копия с Unlocked=true попадает в коллекцию игрока.
type Character struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Rarity   Rarity  `json:"rarity"`
	Level    int     `json:"level"`
	Faction  Faction `json:"faction"`
	Power    int     `json:"power"`
	Unlocked bool    `json:"unlocked"`
	ImageURL string  `json:"imageUrl"`
	Skills   []Skill `json:"skills"`
}

// Clone returns an independent copy of the character.
func (c Character) Clone() Character {
	out := c
	out.Skills = make([]Skill, len(c.Skills))
	copy(out.Skills, c.Skills)
	return out
}

// ExperienceReward returns the XP granted for unlocking a character of this rarity.
func (r Rarity) ExperienceReward() int {
	switch r {
	case RarityLegendary:
		return 50
	case RarityEpic:
		return 30
	case RarityRare:
		return 20
	default:
		return 10
	}
}
