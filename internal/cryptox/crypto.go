// Package cryptox seals small secrets at rest with AES-GCM under a key
// derived from a passphrase with argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/vid2blog/internal/common"
	"golang.org/x/crypto/argon2"
)

const KeySize = 32

// DeriveKey stretches passphrase into a 256-bit key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Sealed is an encrypted value together with its nonce.
type Sealed struct {
	Ciphertext []byte
	Nonce      []byte
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal serializes v to JSON and encrypts it with AES-GCM. The key must be
// 16, 24 or 32 bytes long. A fresh random nonce is used every time.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("passphrase"), salt)
//	s, err := cryptox.Seal("groq-api-key", key)
//	...
//	var apiKey string
//	err = cryptox.Open(s, key, &apiKey)
func Seal(v any, key []byte) (Sealed, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return Sealed{}, err
	}
	defer common.WipeByteArray(plaintext)

	aead, err := newGCM(key)
	if err != nil {
		return Sealed{}, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return Sealed{Ciphertext: aead.Seal(nil, nonce, plaintext, nil), Nonce: nonce}, nil
}

// Open decrypts s with key and unmarshals the JSON into v.
func Open(s Sealed, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(s.Nonce) != aead.NonceSize() {
		return errors.New("cryptox: bad nonce size")
	}

	plaintext, err := aead.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}
