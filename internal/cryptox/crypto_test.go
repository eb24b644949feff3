package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// snapshot of argon2id(t=1, m=64MiB, p=4, len=32)
	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
	assert.Len(t, key1, KeySize)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("p"), []byte("salt"))

	s, err := Seal("gsk_live_123", key)
	require.NoError(t, err)
	assert.NotContains(t, string(s.Ciphertext), "gsk_live_123")

	var got string
	require.NoError(t, Open(s, key, &got))
	assert.Equal(t, "gsk_live_123", got)
}

func TestSeal_FreshNonce(t *testing.T) {
	key := DeriveKey([]byte("p"), []byte("salt"))
	a, err := Seal("x", key)
	require.NoError(t, err)
	b, err := Seal("x", key)
	require.NoError(t, err)
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestOpen_WrongKey(t *testing.T) {
	s, err := Seal("x", DeriveKey([]byte("a"), []byte("salt")))
	require.NoError(t, err)

	var got string
	require.Error(t, Open(s, DeriveKey([]byte("b"), []byte("salt")), &got))
}

func TestOpen_Tampered(t *testing.T) {
	key := DeriveKey([]byte("a"), []byte("salt"))
	s, err := Seal("x", key)
	require.NoError(t, err)
	s.Ciphertext[0] ^= 0xff

	var got string
	require.Error(t, Open(s, key, &got))

	s.Nonce = s.Nonce[:4]
	require.Error(t, Open(s, key, &got))
}

func TestSeal_BadKeySize(t *testing.T) {
	_, err := Seal("x", []byte("short"))
	require.Error(t, err)
}
