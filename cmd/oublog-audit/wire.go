//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"oublog-audit/internal/biz"
	"oublog-audit/internal/conf"
	"oublog-audit/internal/data"
	"oublog-audit/internal/i18n"
	"oublog-audit/internal/infra/eventbus"
	"oublog-audit/internal/server"
	"oublog-audit/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Site, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		eventbus.ProviderSet,
		i18n.ProviderSet,
		newPipeline,
		newApp,
	))
}
