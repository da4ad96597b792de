package main

import (
	"context"
	"errors"

	"oublog-audit/internal/biz"
	"oublog-audit/internal/domain"
	"oublog-audit/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2/log"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// pipeline owns the audit event path: outbox forwarder -> bus -> router -> handlers.
// The health status of Name follows it.
type pipeline struct {
	bus       *eventbus.EventBus
	router    *eventbus.Router
	forwarder *eventbus.Forwarder
	health    *health.Server
	log       *log.Helper
}

func newPipeline(
	bus *eventbus.EventBus,
	router *eventbus.Router,
	forwarder *eventbus.Forwarder,
	hc *health.Server,
	logs domain.LogStore,
	cache domain.ActivityCache,
	trail *biz.AuditTrailUsecase,
	logger log.Logger,
) (*pipeline, error) {
	if err := biz.RegisterEventHandlers(router, logs, cache, trail, logger); err != nil {
		return nil, err
	}
	hc.SetServingStatus(Name, healthpb.HealthCheckResponse_NOT_SERVING)
	return &pipeline{
		bus:       bus,
		router:    router,
		forwarder: forwarder,
		health:    hc,
		log:       log.NewHelper(logger),
	}, nil
}

func (p *pipeline) start(ctx context.Context) error {
	go func() {
		if err := p.router.Run(ctx); err != nil {
			p.log.Errorf("event router stopped: %v", err)
		}
	}()
	// gochannel drops messages nobody is subscribed to yet
	select {
	case <-p.router.Running():
	case <-ctx.Done():
		return ctx.Err()
	}
	p.forwarder.Start(ctx)
	p.health.SetServingStatus(Name, healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (p *pipeline) stop(context.Context) error {
	p.health.Shutdown()
	p.forwarder.Stop()
	return errors.Join(p.router.Close(), p.bus.Close())
}
