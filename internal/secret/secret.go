package secret

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the size of the encryption key (32 bytes for NaCl secretbox).
	KeySize = 32
	// NonceSize is the size of the nonce (24 bytes for NaCl secretbox).
	NonceSize = 24

	// Prefix marks a stored value as an encrypted envelope. The check is a
	// plain string sniff so callers can decide whether to decrypt without
	// touching the key.
	Prefix = "$OTV1$"
)

// ErrDecrypt is returned when a token cannot be decrypted with the current
// key or is structurally broken. Callers treat it as recoverable per value.
var ErrDecrypt = errors.New("value cannot be decrypted with this key")

// Box encrypts and decrypts individual string values with a single symmetric
// key. The key never rotates within one deployment.
type Box struct {
	key *[KeySize]byte
}

// NewBox wraps an existing 32-byte key.
func NewBox(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	var k [KeySize]byte
	copy(k[:], key)
	return &Box{key: &k}, nil
}

// Encrypt seals plaintext into a prefix-marked, timestamped token:
//
//	$OTV1$ + base64url(nonce || unix-seconds(8, big-endian) || ciphertext)
//
// The nonce is random, so two encryptions of the same plaintext differ.
func (b *Box) Encrypt(plaintext string) (string, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	payload := make([]byte, 8+len(plaintext))
	binary.BigEndian.PutUint64(payload[:8], uint64(time.Now().Unix()))
	copy(payload[8:], plaintext)

	sealed := secretbox.Seal(nonce[:], payload, &nonce, b.key)
	return Prefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Any malformation (missing
// prefix, bad base64, truncation) or a wrong key yields ErrDecrypt.
func (b *Box) Decrypt(token string) (string, error) {
	raw, ok := strings.CutPrefix(token, Prefix)
	if !ok {
		return "", ErrDecrypt
	}
	sealed, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(sealed) < NonceSize+8 {
		return "", ErrDecrypt
	}

	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])
	payload, ok := secretbox.Open(nil, sealed[NonceSize:], &nonce, b.key)
	if !ok || len(payload) < 8 {
		return "", ErrDecrypt
	}
	// First 8 bytes are the seal timestamp; decoding ignores it.
	return string(payload[8:]), nil
}

// IsEncrypted reports whether a stored value carries the envelope prefix.
// It is a cheap sniff, not a cryptographic check.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// SealedAt extracts the timestamp embedded in a token.
// Informational only; decryption does not expire tokens.
func (b *Box) SealedAt(token string) (time.Time, error) {
	raw, ok := strings.CutPrefix(token, Prefix)
	if !ok {
		return time.Time{}, ErrDecrypt
	}
	sealed, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(sealed) < NonceSize+8 {
		return time.Time{}, ErrDecrypt
	}
	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])
	payload, ok := secretbox.Open(nil, sealed[NonceSize:], &nonce, b.key)
	if !ok || len(payload) < 8 {
		return time.Time{}, ErrDecrypt
	}
	sec := int64(binary.BigEndian.Uint64(payload[:8]))
	return time.Unix(sec, 0), nil
}
