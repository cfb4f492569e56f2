package main

import (
	"context"
	"fmt"
	"os"

	inhttp "cad-ui-bridge/internal/adapters/input/http"
	"cad-ui-bridge/internal/adapters/output/accounts"
	"cad-ui-bridge/internal/adapters/output/host"
	"cad-ui-bridge/internal/adapters/output/persistence"
	"cad-ui-bridge/internal/adapters/output/process"
	"cad-ui-bridge/internal/adapters/output/webview"
	"cad-ui-bridge/internal/adapters/output/window"
	"cad-ui-bridge/internal/config"
	"cad-ui-bridge/internal/domain/service"
	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func run(ctx context.Context, cfg config.Config) error {
	logx.Configure(cfg.LogLevel)
	logx.Log.Info().Str("document", cfg.Document.Path).Str("host", cfg.Host.Name).Msg("starting cad bridge")

	accountRepo, err := accounts.Open(cfg.Accounts.DB)
	if err != nil {
		return fmt.Errorf("open accounts: %w", err)
	}
	defer accountRepo.Close()

	token := uuid.NewString()
	hub := webview.NewHub(cfg.UI.OriginPatterns, token)
	defer hub.Close()

	thread := window.NewThread()
	defer thread.Close()
	win := window.New(ctx, cfg.Host.Name, thread, window.NewPromptDialog(os.Stdin, os.Stderr, accountRepo))

	notifier := service.NewNotifier()
	standalone, err := host.Open(cfg.Host.Name, cfg.Document.Path, persistence.NewJSONClientRepository(cfg.Document.ClientsPath), notifier)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	bindings := service.NewBindings(standalone, notifier, accountRepo, process.NewLauncher())
	if err := bindings.Attach(hub, win); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	srv := inhttp.NewServer(bindings, hub.Handler(), inhttp.Options{
		Listen:         cfg.Listen,
		OriginPatterns: cfg.UI.OriginPatterns,
		Token:          token,
		Gatherer:       reg,
	})
	return srv.ListenAndServe(ctx, cfg.Listen)
}
