package service

import (
	"testing"
	"time"

	"prism-api/internal/domain"
)

func TestMemoryRefreshTokenStore(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", time.Hour); err != nil {
		t.Fatalf("Store: %v", err)
	}
	ok, err := store.Exists("jti-1")
	if err != nil || !ok {
		t.Fatalf("Exists after store: ok=%v err=%v", ok, err)
	}

	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("Exists after revoke: ok=%v err=%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_Expiry(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", -time.Second); err != nil {
		t.Fatalf("Store: %v", err)
	}
	ok, err := store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expired jti should not exist: ok=%v err=%v", ok, err)
	}
}

func TestSelectionCacheKeyIsOrderInsensitive(t *testing.T) {
	a := SelectionCacheKey("quick", []string{"prism", "four_axis"}, "abc")
	b := SelectionCacheKey("quick", []string{"four_axis", "prism"}, "abc")
	if a != b {
		t.Fatalf("keys differ for same framework set: %q vs %q", a, b)
	}
	c := SelectionCacheKey("standard", []string{"prism", "four_axis"}, "abc")
	if a == c {
		t.Fatal("different tiers should produce different keys")
	}
}

func TestBankFingerprint(t *testing.T) {
	bank := []domain.Item{
		ratingItem("q1", domain.DimOpenness, false, "prism"),
		ratingItem("q2", domain.DimExtraversion, false, "prism"),
		ratingItem("q3", domain.DimResilience, false, "prism"),
	}
	shuffled := []domain.Item{bank[2], bank[0], bank[1]}
	if BankFingerprint(bank) != BankFingerprint(shuffled) {
		t.Fatal("fingerprint should ignore bank order")
	}
	if BankFingerprint(bank) == BankFingerprint(bank[:2]) {
		t.Fatal("different banks should fingerprint differently")
	}
}

// Editar un item sin cambiar ids (peso, tags, reverse) también tiene que
// invalidar el cache de selección.
func TestBankFingerprintTracksItemContent(t *testing.T) {
	bank := []domain.Item{
		ratingItem("q1", domain.DimOpenness, false, "prism"),
		ratingItem("q2", domain.DimExtraversion, false, "prism"),
	}
	base := BankFingerprint(bank)

	reweighted := []domain.Item{bank[0], bank[1]}
	reweighted[1].Weight = 1.4
	if BankFingerprint(reweighted) == base {
		t.Fatal("weight change should alter the fingerprint")
	}

	retagged := []domain.Item{bank[0], bank[1]}
	retagged[1].Frameworks = append([]string{domain.AxisTag("energy")}, retagged[1].Frameworks...)
	if BankFingerprint(retagged) == base {
		t.Fatal("tag change should alter the fingerprint")
	}

	reversed := []domain.Item{bank[0], bank[1]}
	reversed[1].ReverseScored = true
	if BankFingerprint(reversed) == base {
		t.Fatal("reverse flag change should alter the fingerprint")
	}
}
