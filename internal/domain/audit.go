package domain

import "time"

// AuditAction - тип мутации в журнале прогрессии
type AuditAction string

const (
	AuditWalletConnect    AuditAction = "wallet_connect"
	AuditWalletDisconnect AuditAction = "wallet_disconnect"
	AuditTelegramLink     AuditAction = "telegram_link"
	AuditFactionSelect    AuditAction = "faction_select"
	AuditCurrencyAdd      AuditAction = "currency_add"
	AuditGachaPull        AuditAction = "gacha_pull"
	AuditCharacterUnlock  AuditAction = "character_unlock"
	AuditStakingStart     AuditAction = "staking_start"
	AuditStakingClaim     AuditAction = "staking_claim"
	AuditFeatureUnlock    AuditAction = "feature_unlock"
	AuditExperienceAdd    AuditAction = "experience_add"
	AuditStateReset       AuditAction = "state_reset"
)

// AuditLog - запись журнала мутаций прогрессии (best-effort, пишется только
// при настроенном Postgres)
type AuditLog struct {
	ID        int64                  `json:"id"`
	StateKey  string                 `json:"state_key"`
	Action    AuditAction            `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
