package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open loads the key file at path, or generates a fresh key and persists it
// on first use. The key file is a single base64 line, plain text, 0600.
//
// The returned bool is true when a new key was generated.
func Open(path string) (*Box, bool, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, derr := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if derr != nil {
			return nil, false, fmt.Errorf("key file %s is not valid base64: %w", path, derr)
		}
		box, berr := NewBox(key)
		if berr != nil {
			return nil, false, fmt.Errorf("key file %s: %w", path, berr)
		}
		return box, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read key file: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate key: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, false, fmt.Errorf("create key directory: %w", err)
		}
	}
	encoded := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, false, fmt.Errorf("write key file: %w", err)
	}

	box, err := NewBox(key)
	if err != nil {
		return nil, false, err
	}
	return box, true, nil
}
