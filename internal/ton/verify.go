package ton

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

// TON Connect proof verification
// Based on: https://docs.ton.org/develop/dapps/ton-connect/sign

// ConnectProof represents the proof sent by TON Connect
type ConnectProof struct {
	Timestamp int64  `json:"timestamp"`
	Domain    Domain `json:"domain"`
	Signature string `json:"signature"`
	Payload   string `json:"payload"`
}

// Domain represents the domain part of the proof
type Domain struct {
	LengthBytes int    `json:"lengthBytes"`
	Value       string `json:"value"`
}

// WalletAccount represents wallet account info from TON Connect
type WalletAccount struct {
	Address   string `json:"address"`
	Chain     string `json:"chain"`
	PublicKey string `json:"publicKey"`
}

// VerifyProof verifies TON Connect wallet ownership proof
func VerifyProof(account WalletAccount, proof ConnectProof, allowedDomain string) error {
	// 1. Check timestamp (proof should be recent)
	proofTime := time.Unix(proof.Timestamp, 0)
	if time.Since(proofTime) > ProofTTL {
		return errors.New("proof expired")
	}

	// 2. Check domain
	if proof.Domain.Value != allowedDomain {
		return fmt.Errorf("domain mismatch: expected %s, got %s", allowedDomain, proof.Domain.Value)
	}

	// 3. Decode public key
	pubKeyBytes, err := hex.DecodeString(account.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid public key format: %w", err)
	}

	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return errors.New("invalid public key size")
	}

	// 4. Decode signature
	signatureBytes, err := base64.StdEncoding.DecodeString(proof.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature format: %w", err)
	}

	// 5. Build message to verify
	message := buildProofMessage(account.Address, proof)

	// 6. Verify signature
	if !ed25519.Verify(pubKeyBytes, message, signatureBytes) {
		return errors.New("invalid signature")
	}

	return nil
}

// buildProofMessage constructs the message that was signed
func buildProofMessage(addr string, proof ConnectProof) []byte {
	// Message format:
	// "ton-proof-item-v2/" + address + domain_len (4 bytes) + domain
	// + timestamp (8 bytes) + payload, then double-hashed with the
	// "ton-connect" prefix

	var message []byte

	message = append(message, []byte("ton-proof-item-v2/")...)
	message = append(message, []byte(addr)...)

	// Domain length (4 bytes, little endian)
	domainLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(domainLen, uint32(proof.Domain.LengthBytes))
	message = append(message, domainLen...)

	message = append(message, []byte(proof.Domain.Value)...)

	// Timestamp (8 bytes, little endian)
	timestamp := make([]byte, 8)
	binary.LittleEndian.PutUint64(timestamp, uint64(proof.Timestamp))
	message = append(message, timestamp...)

	message = append(message, []byte(proof.Payload)...)

	hash := sha256.Sum256(message)

	finalMessage := append([]byte("ton-connect"), hash[:]...)
	finalHash := sha256.Sum256(finalMessage)

	return finalHash[:]
}

// GeneratePayload generates a random payload for TON Connect
func GeneratePayload() string {
	// This should be unique per session to prevent replay attacks
	timestamp := time.Now().Unix()
	payload := fmt.Sprintf("%d-%x", timestamp, sha256.Sum256([]byte(fmt.Sprintf("%d", timestamp))))
	return payload[:32]
}

// ValidateAddress checks if the TON address format is valid
func ValidateAddress(addr string) bool {
	// TON addresses are typically:
	// - Raw: 0:hex (workchain:hash)
	// - User-friendly: Base64 encoded (48 chars with bounceable/non-bounceable flag)

	if len(addr) == 0 {
		return false
	}

	// Raw format (0:hex or -1:hex)
	if len(addr) >= 66 && (addr[0:2] == "0:" || addr[0:3] == "-1:") {
		_, err := hex.DecodeString(addr[strings.Index(addr, ":")+1:])
		return err == nil
	}

	// User-friendly format (48 chars)
	if len(addr) == 48 {
		_, err := address.ParseAddr(addr)
		return err == nil
	}

	return false
}

// NormalizeAddress converts address to raw format
func NormalizeAddress(addr string) (string, error) {
	// Already raw format
	if len(addr) >= 66 && (addr[0:2] == "0:" || addr[0:3] == "-1:") {
		return addr, nil
	}

	// User-friendly format is 36 bytes once decoded:
	// 1 byte flags + 1 byte workchain + 32 bytes hash + 2 bytes CRC
	if len(addr) == 48 {
		if _, err := address.ParseAddr(addr); err != nil {
			return "", fmt.Errorf("invalid address format: %w", err)
		}

		decoded, err := base64.URLEncoding.DecodeString(addr)
		if err != nil {
			decoded, err = base64.StdEncoding.DecodeString(addr)
			if err != nil {
				return "", fmt.Errorf("invalid address format: %w", err)
			}
		}
		if len(decoded) != 36 {
			return "", errors.New("invalid address length")
		}

		workchain := int8(decoded[1])
		hash := decoded[2:34]

		return fmt.Sprintf("%d:%s", workchain, hex.EncodeToString(hash)), nil
	}

	return "", errors.New("unknown address format")
}
