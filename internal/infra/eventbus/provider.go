package eventbus

import (
	"oublog-audit/internal/conf"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is eventbus providers.
var ProviderSet = wire.NewSet(
	NewKratosLoggerAdapter,
	NewEventBus,
	NewRouter,
	NewOutboxPublisher,
	ProvideForwarder,
)

// ProvideForwarder creates a Forwarder configured from the outbox settings.
func ProvideForwarder(db *entsql.Driver, eventBus *EventBus, c *conf.Data, logger log.Logger) *Forwarder {
	var opts []ForwarderOption
	if c != nil && c.Outbox != nil {
		opts = append(opts,
			WithPollInterval(conf.ParseDuration(c.Outbox.PollInterval, defaultPollInterval)),
			WithBatchSize(c.Outbox.BatchSize),
		)
	}
	return NewForwarder(db, eventBus.Publisher(), NewKratosLoggerAdapter(logger), opts...)
}

