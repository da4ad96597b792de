package service

import (
	stderrors "errors"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/i18n"

	"github.com/go-kratos/kratos/v2/errors"
)

var (
	ErrMissingActor = errors.Unauthorized("MISSING_ACTOR", "X-User-Id header must carry the acting user id")
)

// toStatus maps biz and domain errors onto transport errors.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if se := new(errors.Error); stderrors.As(err, &se) {
		return se
	}

	switch {
	case stderrors.Is(err, domain.ErrInvalidID):
		return errors.BadRequest("INVALID_ARGUMENT", err.Error())
	case stderrors.Is(err, domain.ErrInvalidPage):
		return errors.BadRequest("INVALID_PAGE", err.Error())
	case stderrors.Is(err, domain.ErrCommentNotFound):
		return errors.NotFound("COMMENT_NOT_FOUND", err.Error())
	case stderrors.Is(err, domain.ErrCommentAlreadyDeleted):
		return errors.Conflict("COMMENT_ALREADY_DELETED", err.Error())
	case stderrors.Is(err, event.ErrContractViolation):
		cv, _ := event.AsContractViolation(err)
		se := errors.InternalServer("EVENT_CONTRACT_VIOLATION", err.Error())
		if cv != nil && cv.Field != "" {
			se = se.WithMetadata(map[string]string{"field": cv.Field})
		}
		return se.WithCause(err)
	case stderrors.Is(err, i18n.ErrStringNotFound):
		return errors.InternalServer("STRING_NOT_FOUND", err.Error()).WithCause(err)
	default:
		return errors.InternalServer("INTERNAL", err.Error()).WithCause(err)
	}
}
