package store

import (
	"fmt"
	"net"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	logx "opstab/pkg/logx"
)

// MaxPort bounds the accepted port range (1..MaxPort). The original
// deployments never used ports above this and the file format relies on it.
const MaxPort = 32767

// Server is a remote connection profile. Password is plaintext here; it is
// only ever stored encrypted.
type Server struct {
	Address  string
	Port     int
	User     string
	Password string
	Type     string
}

// ServerUpdate carries a partial update: nil fields mean "leave as is".
type ServerUpdate struct {
	Address  *string
	Port     *int
	User     *string
	Password *string
	Type     *string
}

var serverTypes = map[string]bool{
	"oracle": true,
	"mssql":  true,
	"api":    true,
}

// RFC 1123 host labels, dot-separated.
var reHostname = regexp.MustCompile(
	`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*$`)

// GetServer returns a server profile with the password decrypted. A stored
// password that cannot be decrypted with the current key surfaces
// secret.ErrDecrypt for this record only; other records stay readable.
func (s *Store) GetServer(id string) (Server, error) {
	id = normalizeID(id)
	sec, err := s.snapshot().GetSection(serverPrefix + id)
	if err != nil {
		return Server{}, fmt.Errorf("server %q %w", id, ErrNotFound)
	}

	port, err := sec.Key("port").Int()
	if err != nil {
		return Server{}, fmt.Errorf("server %q has a malformed port %q", id, sec.Key("port").String())
	}
	password, err := s.box.Decrypt(sec.Key("password").String())
	if err != nil {
		s.log.Error("server password decrypt failed", logx.String("server", id), logx.Err(err))
		return Server{}, fmt.Errorf("server %q password: %w", id, err)
	}

	return Server{
		Address:  sec.Key("address").String(),
		Port:     port,
		User:     sec.Key("user").String(),
		Password: password,
		Type:     strings.ToLower(sec.Key("type").String()),
	}, nil
}

// ServerExists reports whether a server is defined.
func (s *Store) ServerExists(id string) bool {
	_, err := s.snapshot().GetSection(serverPrefix + normalizeID(id))
	return err == nil
}

// SetServer creates or partially updates a server profile. Only non-nil
// fields are written; the password always goes through the envelope. All
// supplied fields are validated before anything touches the file.
func (s *Store) SetServer(id string, upd ServerUpdate) error {
	id = normalizeID(id)

	if upd.Address != nil {
		if err := validateAddress(*upd.Address); err != nil {
			s.log.Error("set server rejected", logx.String("server", id), logx.Err(err))
			return err
		}
	}
	if upd.Port != nil {
		if err := validatePort(*upd.Port); err != nil {
			s.log.Error("set server rejected", logx.String("server", id), logx.Err(err))
			return err
		}
	}
	var typeValue string
	if upd.Type != nil {
		typeValue = strings.ToLower(strings.TrimSpace(*upd.Type))
		if !serverTypes[typeValue] {
			err := &ValidationError{
				Field:  "type",
				Reason: fmt.Sprintf("%q is not one of oracle, mssql, api", *upd.Type),
			}
			s.log.Error("set server rejected", logx.String("server", id), logx.Err(err))
			return err
		}
	}

	err := s.mutate("set_server", "server", id, func(doc *ini.File) error {
		sec := doc.Section(serverPrefix + id)
		if upd.Address != nil {
			sec.Key("address").SetValue(*upd.Address)
		}
		if upd.Port != nil {
			sec.Key("port").SetValue(strconv.Itoa(*upd.Port))
		}
		if upd.User != nil {
			sec.Key("user").SetValue(*upd.User)
		}
		if upd.Password != nil {
			token, err := s.box.Encrypt(*upd.Password)
			if err != nil {
				return fmt.Errorf("encrypt server %q password: %w", id, err)
			}
			sec.Key("password").SetValue(token)
		}
		if upd.Type != nil {
			sec.Key("type").SetValue(typeValue)
		}
		return nil
	})
	if err != nil {
		s.log.Error("set server failed", logx.String("server", id), logx.Err(err))
		return err
	}
	s.log.Info("server set", logx.String("server", id))
	return nil
}

// DeleteServer removes the whole server record.
func (s *Store) DeleteServer(id string) error {
	id = normalizeID(id)
	err := s.mutate("delete_server", "server", id, func(doc *ini.File) error {
		if _, err := doc.GetSection(serverPrefix + id); err != nil {
			return fmt.Errorf("server %q %w", id, ErrNotFound)
		}
		doc.DeleteSection(serverPrefix + id)
		return nil
	})
	if err != nil {
		s.log.Error("delete server failed", logx.String("server", id), logx.Err(err))
		return err
	}
	s.log.Info("server deleted", logx.String("server", id))
	return nil
}

// Servers returns all server IDs in sorted order.
func (s *Store) Servers() []string {
	ids := sectionIDs(s.snapshot(), serverPrefix)
	sort.Strings(ids)
	return ids
}

func validateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return &ValidationError{Field: "address", Reason: "address is empty"}
	}
	if ip := net.ParseIP(addr); ip != nil {
		if ip.To4() == nil {
			return &ValidationError{Field: "address", Reason: fmt.Sprintf("%q is not an IPv4 address", addr)}
		}
		return nil
	}
	if len(addr) > 253 || !reHostname.MatchString(addr) {
		return &ValidationError{Field: "address", Reason: fmt.Sprintf("%q is not a hostname or IPv4 address", addr)}
	}
	return nil
}

func validatePort(port int) error {
	if port < 1 || port > MaxPort {
		return &ValidationError{Field: "port", Reason: fmt.Sprintf("%d out of range 1-%d", port, MaxPort)}
	}
	return nil
}

// ParsePort converts a textual port, rejecting non-numeric input and
// out-of-range values with the same taxonomy the store uses.
func ParsePort(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: "port", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if err := validatePort(n); err != nil {
		return 0, err
	}
	return n, nil
}
