package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
	"github.com/yanqian/birthchart/internal/infra/chartapi"
	"github.com/yanqian/birthchart/internal/infra/config"
	"github.com/yanqian/birthchart/internal/infra/viewstore"
)

func provideChartClient(cfg *config.Config) *chartapi.Client {
	return chartapi.NewClient(cfg.Backend.BaseURL)
}

func provideViewStore(cfg *config.Config, logger *slog.Logger) birthchart.StateStore {
	fallback := viewstore.NewMemoryStore(cfg.Session.TTL)
	if cfg.Session.Store != config.StoreValkey {
		return fallback
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return fallback
	}
	logger.Info("valkey view store enabled", "addr", cfg.Session.Valkey.Addr)
	return viewstore.NewValkeyStore(client, cfg.Session.Valkey.Prefix, cfg.Session.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
