// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command respond walks one respondent through the questionnaire in a
// terminal and submits the answers to a facility-vision server.
package main

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/facility-vision/autosave"
	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/cliparse"
	"github.com/danielhkuo/facility-vision/notify"
	"github.com/danielhkuo/facility-vision/session"
	"github.com/danielhkuo/facility-vision/submission"
)

func main() {
	// Keep the prompt readable; only problems go to stderr
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	cfg, err := cliparse.ParseClientFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}

	kv, closeKV, err := openAutosave(cfg)
	if err != nil {
		slog.Error("autosave setup failed", "error", err)
		os.Exit(1)
	}
	defer closeKV()

	saver := autosave.NewSaver(autosave.NewProgress(kv, cat), autosave.DefaultQuietPeriod)
	sink := notify.NewHTTP(cfg.ServerURL, &http.Client{Timeout: cfg.Timeout})
	m := session.New(cat, submission.NewPipeline(sink, cfg.Timeout), saver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// Reading stdin blocks, so save and leave from here on Ctrl-C
		<-ctx.Done()
		m.Close()
		closeKV()
		os.Exit(130)
	}()

	u := newUI(m, cat, bufio.NewScanner(os.Stdin), os.Stdout)
	err = u.run(ctx)
	m.Close()
	if err != nil {
		slog.Error("session ended", "error", err)
		closeKV()
		os.Exit(1)
	}
}

// openAutosave picks SQLite for a .db path and a directory of JSON files
// otherwise.
func openAutosave(cfg cliparse.ClientConfig) (autosave.Store, func(), error) {
	if cfg.AutosaveSQLite() {
		s, err := autosave.OpenSQLiteStore(cfg.AutosavePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	s, err := autosave.NewFileStore(cfg.AutosavePath)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}
