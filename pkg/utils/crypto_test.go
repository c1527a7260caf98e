package utils

import "testing"

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt([]byte("an oauth access token"), testKey)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encrypted == "an oauth access token" {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, testKey)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != "an oauth access token" {
		t.Errorf("decrypted %q", decrypted)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), testKey)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	otherKey := []byte("ffffffffffffffffffffffffffffffff")
	if _, err := Decrypt(encrypted, otherKey); err == nil {
		t.Error("expected error with wrong key")
	}
}

func TestDecryptTruncatedData(t *testing.T) {
	if _, err := Decrypt("AAAA", testKey); err == nil {
		t.Error("expected error for data shorter than nonce")
	}
}

func TestEncryptBadKeySize(t *testing.T) {
	if _, err := Encrypt([]byte("secret"), []byte("short")); err == nil {
		t.Error("expected error for invalid key size")
	}
}
