package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"opstab/internal/storage"
	logx "opstab/pkg/logx"
)

func TestMutationsAppendAuditEntries(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.jsonl")

	audit, err := storage.Open(storage.Config{Driver: "file", Path: auditPath}, logx.Nop())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer audit.Close()

	clk := &testClock{t: time.Date(2026, 6, 20, 12, 0, 0, 0, time.Local)}
	s, err := Open(Options{
		Path:  filepath.Join(dir, "opstab.ini"),
		Box:   testBox(t),
		Audit: audit,
		Now:   clk.now,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := s.SetParam("site", "head office", false); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if err := s.DeleteJob("ghost"); err == nil {
		t.Fatalf("expected error deleting a missing job")
	}

	f, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	var entries []storage.AuditEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e storage.AuditEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal audit line: %v", err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan audit file: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].Op != "set_param" || entries[0].Kind != "param" || entries[0].Target != "site" || !entries[0].OK {
		t.Fatalf("first entry: %+v", entries[0])
	}
	if entries[1].Op != "delete_job" || entries[1].OK || entries[1].Error == "" {
		t.Fatalf("second entry: %+v", entries[1])
	}
	if !entries[0].At.Equal(clk.t) {
		t.Fatalf("entry timestamp %v, want %v", entries[0].At, clk.t)
	}
}
