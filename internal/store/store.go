package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/ini.v1"

	"opstab/internal/secret"
	"opstab/internal/storage"
	logx "opstab/pkg/logx"
)

const (
	paramSection = "CONFIG"
	jobPrefix    = "JOB:"
	serverPrefix = "SERVER:"

	timeLayout = "2006-01-02 15:04:05"
)

// Redacted is returned for encrypted parameters read without decryption.
// The raw envelope never leaves the store.
const Redacted = "<encrypted>"

// Store is the single owner of the operations table: parameters, jobs and
// servers in one INI file. Every mutating operation performs a full
// read-modify-write cycle against the file (no write buffering); reads are
// served from the snapshot of the last load.
//
// The store does no cross-process locking. Concurrent writers must be
// serialized externally; that is an accepted limitation, not a guarantee.
type Store struct {
	path  string
	box   *secret.Box
	log   logx.Logger
	audit storage.Store
	now   func() time.Time

	mu  sync.RWMutex
	doc *ini.File
}

// Options configures Open. Box and Path are required; zero Log disables
// logging, nil Audit disables the audit trail, nil Now means time.Now.
type Options struct {
	Path  string
	Box   *secret.Box
	Log   logx.Logger
	Audit storage.Store
	Now   func() time.Time
}

// Open loads the table at Path, creating it (with an empty parameter
// section) if it does not exist yet.
func Open(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("store path is required")
	}
	if opts.Box == nil {
		return nil, errors.New("secret box is required")
	}
	if opts.Log.IsZero() {
		opts.Log = logx.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		path:  opts.Path,
		box:   opts.Box,
		log:   opts.Log,
		audit: opts.Audit,
		now:   opts.Now,
	}

	doc, err := loadDocument(s.path)
	if err != nil {
		return nil, err
	}
	if _, err := doc.GetSection(paramSection); err != nil {
		doc.Section(paramSection)
		if err := saveDocument(doc, s.path); err != nil {
			return nil, err
		}
	}
	s.doc = doc

	s.log.Debug("operations table loaded",
		logx.String("path", s.path),
		logx.Int("jobs", len(sectionIDs(doc, jobPrefix))),
		logx.Int("servers", len(sectionIDs(doc, serverPrefix))),
	)
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func loadDocument(path string) (*ini.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ini.Empty(), nil
	}
	doc, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// saveDocument rewrites the whole file atomically (tmp + rename) so a crash
// mid-write never leaves a truncated table behind. Comments and keys this
// store does not model round-trip untouched; the file stays hand-editable.
func saveDocument(doc *ini.File, path string) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return fmt.Errorf("serialize table: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// mutate runs one read-modify-write cycle: fresh load, apply fn, atomic
// rewrite, snapshot swap, audit entry. A fn error (validation, not-found)
// aborts before anything touches the disk.
func (s *Store) mutate(op, kind, target string, fn func(doc *ini.File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		doc, err := loadDocument(s.path)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		if err := saveDocument(doc, s.path); err != nil {
			return err
		}
		s.doc = doc
		return nil
	}()

	s.appendAudit(op, kind, target, err)
	return err
}

func (s *Store) appendAudit(op, kind, target string, opErr error) {
	if s.audit == nil {
		return
	}
	e := storage.AuditEntry{
		At:     s.now(),
		Op:     op,
		Kind:   kind,
		Target: target,
		OK:     opErr == nil,
	}
	if opErr != nil {
		e.Error = opErr.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.audit.AppendAudit(ctx, e); err != nil {
		// Best effort: audit failures never fail the operation.
		s.log.Warn("audit append failed", logx.String("op", op), logx.Err(err))
	}
}

// snapshot returns the current in-memory document for reads.
func (s *Store) snapshot() *ini.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func sectionIDs(doc *ini.File, prefix string) []string {
	var out []string
	for _, name := range doc.SectionStrings() {
		if id, ok := strings.CutPrefix(name, prefix); ok {
			out = append(out, id)
		}
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Watch reloads the in-memory snapshot when the backing file changes on
// disk, so long-lived callers observe hand edits. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	file := filepath.Base(s.path)
	if err := w.Add(dir); err != nil {
		return err
	}
	s.log.Debug("watching operations table", logx.String("dir", dir), logx.String("file", file))

	// Debounce to avoid reloading partial editor writes.
	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(250*time.Millisecond, s.reload)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Compare by basename (robust across absolute/relative paths).
			if strings.EqualFold(filepath.Base(ev.Name), file) {
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					debounce()
				}
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if werr != nil {
				s.log.Warn("table watch error", logx.Err(werr))
			}
		}
	}
}

func (s *Store) reload() {
	doc, err := loadDocument(s.path)
	if err != nil {
		s.log.Warn("table reload failed", logx.String("path", s.path), logx.Err(err))
		return
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.log.Debug("table reloaded", logx.String("path", s.path))
}
