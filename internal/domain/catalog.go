package domain

// Экономика прогрессии: константы вынесены сюда, чтобы тесты и хендлеры
// ссылались на одни и те же значения.
const (
	// StakingRewardsRate - годовая ставка стейкинга (5% APR)
	StakingRewardsRate = 0.05

	// WalletWelcomeBonusTON - разовый бонус за первое подключение кошелька
	WalletWelcomeBonusTON = 5

	// Бонусы за выбор фракции
	MafiaBonusDogeCoin    = 200
	RescuersBonusDogeCoin = 100
	// RescuersBonusCharacterID - Rescue Hound, выдается сразу при выборе Rescuers
	RescuersBonusCharacterID = 3
)

// DonationMilestones - фиксированные пороги накопленных донатов (в TON).
var DonationMilestones = []int64{10, 25, 50, 100, 200}

// MilestoneCharacters maps a donation milestone to the character it unlocks.
var MilestoneCharacters = map[int64]int{
	10:  3, // Rescue Hound
	25:  2, // Shadow Greyhound
	50:  5, // Yakuza Pug
	100: 1, // Akita Boss
	200: 4, // Samurai Shiba
}

// CharacterMilestone returns the donation milestone gating a character, or 0
// if the character is not part of the donation track.
func CharacterMilestone(characterID int) int64 {
	for m, id := range MilestoneCharacters {
		if id == characterID {
			return m
		}
	}
	return 0
}

// DonationTier описывает одну ступень доната для витрины.
type DonationTier struct {
	Amount      int64  `json:"amount"`
	CharacterID int    `json:"characterId"`
	Name        string `json:"name"`
}

// DonationTiers returns the fixed donation tier table in ascending order.
func DonationTiers() []DonationTier {
	tiers := make([]DonationTier, 0, len(DonationMilestones))
	for _, m := range DonationMilestones {
		id := MilestoneCharacters[m]
		name := ""
		if c := CharacterByID(id); c != nil {
			name = c.Name
		}
		tiers = append(tiers, DonationTier{Amount: m, CharacterID: id, Name: name})
	}
	return tiers
}

// CharacterByID returns a copy of the catalog entry, or nil if unknown.
func CharacterByID(id int) *Character {
	for i := range CharacterCatalog {
		if CharacterCatalog[i].ID == id {
			c := CharacterCatalog[i].Clone()
			return &c
		}
	}
	return nil
}

// CharacterCatalog - статический каталог персонажей. Записи никогда не
// мутируются; игрок получает копии.
var CharacterCatalog = []Character{
	{
		ID:       1,
		Name:     "Akita Boss",
		Rarity:   RarityEpic,
		Level:    1,
		Faction:  FactionMafia,
		Power:    450,
		ImageURL: "/lovable-uploads/e01a4cf8-fade-4973-a943-82cab1bad514.png",
		Skills: []Skill{
			{Name: "Mafia Command", Description: "Order lower rank members to attack", UnlockLevel: 1},
			{Name: "Protection Racket", Description: "Extort local businesses for resources", UnlockLevel: 3},
			{Name: "Godfather's Blessing", Description: "Increase all Mafia allies' power", UnlockLevel: 5},
		},
	},
	{
		ID:       2,
		Name:     "Shadow Greyhound",
		Rarity:   RarityRare,
		Level:    1,
		Faction:  FactionMafia,
		Power:    320,
		ImageURL: "/lovable-uploads/5e94d4ae-e50a-4330-9c4d-3036b0aec7fa.png",
		Skills: []Skill{
			{Name: "Silent Strike", Description: "Attack without being detected", UnlockLevel: 1},
			{Name: "Escape Artist", Description: "High chance to escape danger", UnlockLevel: 4},
		},
	},
	{
		ID:       3,
		Name:     "Rescue Hound",
		Rarity:   RarityRare,
		Level:    1,
		Faction:  FactionRescuers,
		Power:    310,
		ImageURL: "/lovable-uploads/3b85fedc-243a-4a05-b130-6c8e729e88ec.png",
		Skills: []Skill{
			{Name: "Healing Touch", Description: "Restore health to an ally", UnlockLevel: 1},
			{Name: "Guardian's Shield", Description: "Protect allies from damage", UnlockLevel: 3},
		},
	},
	{
		ID:       4,
		Name:     "Samurai Shiba",
		Rarity:   RarityLegendary,
		Level:    1,
		Faction:  FactionRescuers,
		Power:    550,
		ImageURL: "/lovable-uploads/2c606d71-9212-4ee3-be4e-61a137ec6e1b.png",
		Skills: []Skill{
			{Name: "Katana Slash", Description: "Powerful cutting attack", UnlockLevel: 1},
			{Name: "Bushido Code", Description: "Gain strength when defending allies", UnlockLevel: 2},
			{Name: "Honor Bound", Description: "Ultimate sacrifice that deals massive damage", UnlockLevel: 5},
		},
	},
	{
		ID:       5,
		Name:     "Yakuza Pug",
		Rarity:   RarityEpic,
		Level:    1,
		Faction:  FactionMafia,
		Power:    430,
		ImageURL: "/lovable-uploads/8a5d0761-a398-48a4-a22b-6389e80280b7.png",
		Skills: []Skill{
			{Name: "Tattooed Fury", Description: "Intimidate enemies, reducing their power", UnlockLevel: 1},
			{Name: "Underground Connections", Description: "Call for reinforcements", UnlockLevel: 4},
		},
	},
}
