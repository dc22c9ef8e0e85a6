package ton

import (
	"strings"
	"testing"
	"time"
)

func TestValidateAddress_Raw(t *testing.T) {
	raw := "0:" + strings.Repeat("ab", 32)
	if !ValidateAddress(raw) {
		t.Fatalf("expected raw address to be valid")
	}
	if ValidateAddress("") {
		t.Fatalf("expected empty address to be invalid")
	}
	if ValidateAddress("0:zz") {
		t.Fatalf("expected short raw address to be invalid")
	}
	if ValidateAddress(strings.Repeat("!", 48)) {
		t.Fatalf("expected garbage user-friendly address to be invalid")
	}
}

func TestNormalizeAddress_RawPassthrough(t *testing.T) {
	raw := "0:" + strings.Repeat("cd", 32)
	got, err := NormalizeAddress(raw)
	if err != nil {
		t.Fatalf("normalize raw: %v", err)
	}
	if got != raw {
		t.Fatalf("expected passthrough, got %s", got)
	}

	if _, err := NormalizeAddress("short"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestVerifyProof_Expired(t *testing.T) {
	proof := ConnectProof{
		Timestamp: time.Now().Add(-2 * ProofTTL).Unix(),
		Domain:    Domain{LengthBytes: 11, Value: "example.com"},
	}
	err := VerifyProof(WalletAccount{}, proof, "example.com")
	if err == nil {
		t.Fatalf("expected expired proof to fail")
	}
}

func TestVerifyProof_DomainMismatch(t *testing.T) {
	proof := ConnectProof{
		Timestamp: time.Now().Unix(),
		Domain:    Domain{LengthBytes: 8, Value: "evil.com"},
	}
	err := VerifyProof(WalletAccount{}, proof, "example.com")
	if err == nil {
		t.Fatalf("expected domain mismatch to fail")
	}
}
