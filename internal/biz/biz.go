package biz

import (
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/i18n"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	event.NewRegistry,
	NewCommentUsecase,
	NewAuditTrailUsecase,
	wire.Bind(new(Translator), new(*i18n.StringManager)),
)
