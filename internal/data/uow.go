package data

import (
	"context"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ domain.UnitOfWork = (*unitOfWork)(nil)

// unitOfWork implements domain.UnitOfWork. Aggregate events are triggered through the
// dispatcher inside the transaction, so the outbox rows commit with the state change.
type unitOfWork struct {
	data       *Data
	dispatcher *event.Dispatcher
	log        *log.Helper
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(data *Data, dispatcher *event.Dispatcher, logger log.Logger) domain.UnitOfWork {
	return &unitOfWork{
		data:       data,
		dispatcher: dispatcher,
		log:        log.NewHelper(logger),
	}
}

// Do executes fn within a database transaction and triggers the aggregates' events before commit.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error, aggregates ...domain.AggregateRoot) error {
	tx, err := u.data.db.Tx(ctx)
	if err != nil {
		return err
	}

	// Store tx in context for repositories to use
	txCtx := context.WithValue(ctx, txKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		u.rollback(ctx, tx.Rollback)
		return err
	}

	var events []event.AuditEvent
	for _, aggregate := range aggregates {
		events = append(events, aggregate.Events()...)
	}
	if err := u.dispatcher.DispatchAll(txCtx, events); err != nil {
		u.rollback(ctx, tx.Rollback)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// Clear events after successful commit
	for _, aggregate := range aggregates {
		aggregate.ClearEvents()
	}
	return nil
}

func (u *unitOfWork) rollback(ctx context.Context, rollback func() error) {
	if err := rollback(); err != nil {
		u.log.WithContext(ctx).Errorf("rollback failed: %v", err)
	}
}
