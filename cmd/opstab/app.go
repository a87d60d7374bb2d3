package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"opstab/internal/config"
	"opstab/internal/secret"
	"opstab/internal/storage"
	"opstab/internal/store"
	logx "opstab/pkg/logx"
)

// app bundles everything a subcommand needs: settings, logging, the secret
// box and the opened table. Built lazily per invocation so `--help` and
// argument errors never touch the key file or the table.
type app struct {
	cfg    *config.Config
	logSvc *logx.Service
	log    logx.Logger
	audit  storage.Store
	store  *store.Store
}

func openApp(cmd *cobra.Command) (*app, error) {
	settingsPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	box, created, err := secret.Open(cfg.KeyFile)
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("key file %s: %w", cfg.KeyFile, err)
	}
	if created {
		log.Info("encryption key generated", logx.String("path", cfg.KeyFile))
	}

	var audit storage.Store
	if cfg.Audit != nil {
		audit, err = storage.Open(storage.Config{
			Driver: cfg.Audit.Driver,
			Path:   cfg.Audit.Path,
		}, log)
		if err != nil {
			logSvc.Close()
			return nil, err
		}
	}

	st, err := store.Open(store.Options{
		Path:  cfg.ConfigFile,
		Box:   box,
		Log:   log,
		Audit: audit,
	})
	if err != nil {
		if audit != nil {
			audit.Close()
		}
		logSvc.Close()
		return nil, err
	}

	return &app{cfg: cfg, logSvc: logSvc, log: log, audit: audit, store: st}, nil
}

func (a *app) close() {
	if a.audit != nil {
		_ = a.audit.Close()
	}
	_ = a.logSvc.Close()
}

// matchPrefix filters list output the way the tool always has: the pattern
// gets an implicit trailing "*", so "DB" matches DB, DB1 and DB_PROD.
func matchPrefix(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern+"*", name)
	return err == nil && ok
}

func upperPattern(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(args[0]))
}
