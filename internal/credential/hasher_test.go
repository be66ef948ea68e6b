package credential

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewHasher()

	hash, err := h.Hash("4321")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(hash) == "4321" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !h.Verify("4321", hash) {
		t.Fatal("expected matching PIN to verify")
	}
	if h.Verify("0000", hash) {
		t.Fatal("expected wrong PIN to fail verification")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("4321")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("4321")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(first) == string(second) {
		t.Fatal("expected distinct salts for repeated hashes")
	}
}
