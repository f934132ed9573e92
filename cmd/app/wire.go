//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/birthchart/internal/bootstrap"
	"github.com/yanqian/birthchart/internal/domain/birthchart"
	"github.com/yanqian/birthchart/internal/infra/chartapi"
	"github.com/yanqian/birthchart/internal/infra/config"
	httpiface "github.com/yanqian/birthchart/internal/interface/http"
	"github.com/yanqian/birthchart/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChartClient,
		provideViewStore,
		birthchart.NewService,
		wire.Bind(new(birthchart.ChartClient), new(*chartapi.Client)),
		wire.Bind(new(httpiface.Pinger), new(*chartapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
