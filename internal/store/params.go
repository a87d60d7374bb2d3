package store

import (
	"fmt"
	"sort"

	"gopkg.in/ini.v1"

	"opstab/internal/secret"
	logx "opstab/pkg/logx"
)

// GetParam returns a parameter value, or "" if the key does not exist.
// Encrypted values are decrypted when decrypt is true and redacted
// otherwise; the raw envelope is never returned.
func (s *Store) GetParam(key string, decrypt bool) (string, error) {
	value := s.snapshot().Section(paramSection).Key(key).String()
	if !secret.IsEncrypted(value) {
		return value, nil
	}
	if !decrypt {
		return Redacted, nil
	}
	plain, err := s.box.Decrypt(value)
	if err != nil {
		s.log.Error("parameter decrypt failed", logx.String("key", key), logx.Err(err))
		return "", fmt.Errorf("parameter %q: %w", key, err)
	}
	return plain, nil
}

// HasParam reports whether a parameter exists.
func (s *Store) HasParam(key string) bool {
	return s.snapshot().Section(paramSection).HasKey(key)
}

// SetParam stores a parameter, encrypting when asked to or when the
// existing value is already encrypted. Encryption is sticky: once a key
// holds an envelope, every later write re-encrypts even if the caller did
// not request it.
func (s *Store) SetParam(key, value string, encrypt bool) error {
	err := s.mutate("set_param", "param", key, func(doc *ini.File) error {
		sec := doc.Section(paramSection)
		prev := sec.Key(key).String()
		if encrypt || secret.IsEncrypted(prev) {
			token, err := s.box.Encrypt(value)
			if err != nil {
				return fmt.Errorf("encrypt parameter %q: %w", key, err)
			}
			value = token
		}
		sec.Key(key).SetValue(value)
		return nil
	})
	if err != nil {
		s.log.Error("set parameter failed", logx.String("key", key), logx.Err(err))
		return err
	}
	s.log.Info("parameter set", logx.String("key", key), logx.Bool("encrypted", encrypt))
	return nil
}

// DeleteParam removes a parameter.
func (s *Store) DeleteParam(key string) error {
	err := s.mutate("delete_param", "param", key, func(doc *ini.File) error {
		sec := doc.Section(paramSection)
		if !sec.HasKey(key) {
			return fmt.Errorf("parameter %q %w", key, ErrNotFound)
		}
		sec.DeleteKey(key)
		return nil
	})
	if err != nil {
		s.log.Error("delete parameter failed", logx.String("key", key), logx.Err(err))
		return err
	}
	s.log.Info("parameter deleted", logx.String("key", key))
	return nil
}

// Params returns all parameter keys in sorted order. Sorting is part of the
// contract: listings stay deterministic for display and diffing.
func (s *Store) Params() []string {
	keys := s.snapshot().Section(paramSection).KeyStrings()
	sort.Strings(keys)
	return keys
}
