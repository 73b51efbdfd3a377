// Package crypto seals integration credentials at rest.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrOpen is returned when a sealed payload cannot be authenticated.
var ErrOpen = errors.New("unable to open sealed payload")

// Sealer encrypts and authenticates small payloads with NaCl secretbox.
type Sealer struct {
	key [keySize]byte
}

// NewSealer builds a Sealer from a 32-byte key, given as hex or standard base64.
func NewSealer(encodedKey string) (*Sealer, error) {
	raw, err := decodeKey(encodedKey)
	if err != nil {
		return nil, err
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("credentials key must be %d bytes, got %d", keySize, len(raw))
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

func decodeKey(encoded string) ([]byte, error) {
	if raw, err := hex.DecodeString(encoded); err == nil {
		return raw, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("credentials key is neither hex nor base64: %w", err)
	}
	return raw, nil
}

// Seal returns nonce||box.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &s.key), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	out, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrOpen
	}
	return out, nil
}

// GenerateKey returns a fresh hex-encoded key suitable for NewSealer.
func GenerateKey() (string, error) {
	b := make([]byte, keySize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
