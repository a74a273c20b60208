package push

import (
	"encoding/base64"
	"testing"
)

func TestConfigured(t *testing.T) {
	if NewService("", "").Configured() {
		t.Error("empty keys should not be configured")
	}
	if NewService("pub", "").Configured() {
		t.Error("missing private key should not be configured")
	}
	if !NewService("pub", "priv").Configured() {
		t.Error("both keys should be configured")
	}
}

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("GenerateVAPIDKeys: %v", err)
	}

	pubRaw, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("public key not base64url: %v", err)
	}
	// Uncompressed P-256 point: 0x04 prefix + two 32-byte coordinates.
	if len(pubRaw) != 65 || pubRaw[0] != 0x04 {
		t.Errorf("public key length = %d, first byte = %#x", len(pubRaw), pubRaw[0])
	}

	privRaw, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("private key not base64url: %v", err)
	}
	if len(privRaw) != 32 {
		t.Errorf("private key length = %d, want 32", len(privRaw))
	}

	pub2, _, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("second GenerateVAPIDKeys: %v", err)
	}
	if pub2 == pub {
		t.Error("key generation should not repeat")
	}
}

func TestVAPIDPublicKey(t *testing.T) {
	s := NewService("the-public-key", "the-private-key")
	if s.VAPIDPublicKey() != "the-public-key" {
		t.Errorf("VAPIDPublicKey = %q", s.VAPIDPublicKey())
	}
}
