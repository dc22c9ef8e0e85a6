package ton

import "time"

const (
	// NanoTON is the smallest TON unit (1 TON = 10^9 nanoTON)
	NanoTON = 1_000_000_000

	// ProofTTL is how long a TON Connect proof is valid
	ProofTTL = 15 * time.Minute
)

// Network represents TON network type
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// TON API endpoints
const (
	TonAPIMainnet = "https://tonapi.io/v2"
	TonAPITestnet = "https://testnet.tonapi.io/v2"
)

// TONToNano converts TON to nanoTON
func TONToNano(ton float64) int64 {
	return int64(ton * NanoTON)
}

// NanoToTON converts nanoTON to TON
func NanoToTON(nano int64) float64 {
	return float64(nano) / NanoTON
}
