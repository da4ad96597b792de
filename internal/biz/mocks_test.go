package biz

import (
	"context"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/i18n"

	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork runs fn and triggers the aggregates' events through a dispatcher, without a database.
type fakeUnitOfWork struct {
	dispatcher *event.Dispatcher
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{dispatcher: event.NewDispatcher()}
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error, aggregates ...domain.AggregateRoot) error {
	if err := fn(ctx); err != nil {
		return err
	}
	for _, aggregate := range aggregates {
		if err := u.dispatcher.DispatchAll(ctx, aggregate.Events()); err != nil {
			return err
		}
	}
	for _, aggregate := range aggregates {
		aggregate.ClearEvents()
	}
	return nil
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockCommentRepo) SaveDeletion(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

type mockLogStore struct {
	mock.Mock
}

func (m *mockLogStore) Append(ctx context.Context, rec event.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockLogStore) ListByContextInstance(ctx context.Context, cmID int64, offset, limit int) ([]event.Record, int, error) {
	args := m.Called(ctx, cmID, offset, limit)
	records, _ := args.Get(0).([]event.Record)
	return records, args.Int(1), args.Error(2)
}

type mockActivityCache struct {
	mock.Mock
}

func (m *mockActivityCache) Push(ctx context.Context, cmID int64, entry domain.AuditEntry) error {
	return m.Called(ctx, cmID, entry).Error(0)
}

func (m *mockActivityCache) Recent(ctx context.Context, cmID int64, limit int) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, cmID, limit)
	entries, _ := args.Get(0).([]domain.AuditEntry)
	return entries, args.Error(1)
}

func testStrings() *i18n.StringManager {
	return i18n.NewStaticStringManager("en", map[string]map[string]string{
		event.Component: {
			"event:commentdeleted": "Comment deleted",
			"auditentrysummary":    "{$a->name} by user {$a->userid}",
		},
	})
}
