package data

import (
	"context"
	"errors"
	"testing"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/suite"
)

type UnitOfWorkTestSuite struct {
	suite.Suite
	ctx  context.Context
	data *Data
	repo domain.CommentRepository
	uow  domain.UnitOfWork
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.data = newTestData(s.T())
	seedBlog(s.T(), s.data)
	s.repo = NewCommentRepo(s.data, log.DefaultLogger)
	s.uow = NewUnitOfWork(s.data, newTestDispatcher(s.data), log.DefaultLogger)
}

func (s *UnitOfWorkTestSuite) deleteComment(id, actorID int64) (*domain.Comment, error) {
	c, err := s.repo.FindByID(s.ctx, id)
	s.Require().NoError(err)
	err = s.uow.Do(s.ctx, func(ctx context.Context) error {
		if err := c.Delete(actorID); err != nil {
			return err
		}
		return s.repo.SaveDeletion(ctx, c)
	}, c)
	return c, err
}

func (s *UnitOfWorkTestSuite) TestDo_CommitsStateAndOutbox() {
	c, err := s.deleteComment(42, 7)

	s.Require().NoError(err)
	s.Empty(c.Events())
	s.Equal(1, countRows(s.T(), s.data, "event_outbox"))

	reloaded, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)
	s.True(reloaded.IsDeleted())
}

func (s *UnitOfWorkTestSuite) TestDo_RollsBackOnError() {
	boom := errors.New("boom")
	c, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)

	err = s.uow.Do(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(c.Delete(7))
		s.Require().NoError(s.repo.SaveDeletion(ctx, c))
		return boom
	}, c)

	s.ErrorIs(err, boom)
	s.Zero(countRows(s.T(), s.data, "event_outbox"))
	reloaded, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)
	s.False(reloaded.IsDeleted())
}

func (s *UnitOfWorkTestSuite) TestDo_RollsBackWhenEventAlreadyTriggered() {
	c, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)
	s.Require().NoError(c.Delete(7))
	s.Require().NoError(c.Events()[0].MarkTriggered())

	err = s.uow.Do(s.ctx, func(ctx context.Context) error {
		return s.repo.SaveDeletion(ctx, c)
	}, c)

	s.ErrorIs(err, event.ErrAlreadyTriggered)
	s.Len(c.Events(), 1)
	s.Zero(countRows(s.T(), s.data, "event_outbox"))
	reloaded, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)
	s.False(reloaded.IsDeleted())
}

func (s *UnitOfWorkTestSuite) TestDo_InvalidEventLeavesCommentUntouched() {
	// comment 44 belongs to a post that no longer exists, so no blog id resolves
	c, err := s.deleteComment(44, 7)

	s.ErrorIs(err, event.ErrContractViolation)
	s.False(c.IsDeleted())
	s.Zero(countRows(s.T(), s.data, "event_outbox"))
}

func (s *UnitOfWorkTestSuite) TestOutboxHandler_RequiresTransaction() {
	c, err := s.repo.FindByID(s.ctx, 42)
	s.Require().NoError(err)
	s.Require().NoError(c.Delete(7))

	err = NewOutboxEventHandler(nil).Handle(s.ctx, c.Events()[0])

	s.ErrorIs(err, errNoTransaction)
}
