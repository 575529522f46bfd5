// Package sealer encrypts values kept in the durable session slot.
package sealer

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrOpen is returned when a sealed value cannot be authenticated
var ErrOpen = errors.New("sealed value cannot be opened")

const info = "bankloan-web session slot v1"

// Sealer wraps an XChaCha20-Poly1305 AEAD keyed from a passphrase
type Sealer struct {
	aead cipher.AEAD
}

// New derives a 256-bit key from passphrase with HKDF-SHA256
func New(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("sealer: empty passphrase")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(info))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plain and returns base64(nonce || ciphertext)
func (s *Sealer) Seal(plain string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal
func (s *Sealer) Open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(data) < s.aead.NonceSize() {
		return "", ErrOpen
	}
	nonce, ct := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrOpen
	}
	return string(plain), nil
}
