package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	addr, err := NewAddress(SpotPrefix, raw)
	if err != nil {
		t.Fatalf("new address: %v", err)
	}
	encoded := addr.String()
	if !strings.HasPrefix(encoded, string(SpotPrefix)+"1") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), raw) {
		t.Fatalf("round trip mismatch: %x != %x", decoded.Bytes(), raw)
	}
	if decoded.Prefix() != SpotPrefix {
		t.Fatalf("prefix = %q", decoded.Prefix())
	}
}

func TestNewAddressRejectsBadLength(t *testing.T) {
	if _, err := NewAddress(SpotPrefix, make([]byte, 19)); err == nil {
		t.Fatalf("expected length error")
	}
	if _, err := NewAddress(SpotPrefix, nil); err == nil {
		t.Fatalf("expected length error for nil")
	}
}

func TestKeyDerivesAddress(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	if len(addr.Bytes()) != 20 {
		t.Fatalf("address length = %d", len(addr.Bytes()))
	}
	if addr.Prefix() != SpotPrefix {
		t.Fatalf("prefix = %q", addr.Prefix())
	}
}
