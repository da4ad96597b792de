package data

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/suite"
)

type LogStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	data  *Data
	store domain.LogStore
}

func TestLogStoreTestSuite(t *testing.T) {
	suite.Run(t, new(LogStoreTestSuite))
}

func (s *LogStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.data = newTestData(s.T())
	s.store = NewLogStore(s.data, log.DefaultLogger)
}

func (s *LogStoreTestSuite) TestAppend_RoundTrip() {
	rec := newTestRecord(s.T(), 42, 5, postedAt)

	s.Require().NoError(s.store.Append(s.ctx, rec))

	records, total, err := s.store.ListByContextInstance(s.ctx, 5, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(records, 1)

	got := records[0]
	s.NotZero(got.ID)
	s.Equal(rec.EventID, got.EventID)
	s.Equal(event.CommentDeletedName, got.EventName)
	s.Equal(event.Component, got.Component)
	s.Equal("deleted", got.Action)
	s.Equal("comment", got.Target)
	s.Equal(event.CommentsTable, got.ObjectTable)
	s.Equal(int64(42), *got.ObjectID)
	s.Equal(event.CRUDDelete, got.CRUD)
	s.Equal(event.EduLevelOther, got.EduLevel)
	s.Equal(int64(900), got.ContextID)
	s.Equal(event.ContextModule, got.ContextLevel)
	s.Equal(int64(5), got.ContextInstanceID)
	s.Equal(int64(7), got.UserID)
	s.Equal(int64(3), got.CourseID)
	s.Nil(got.RelatedUserID)
	s.Equal(postedAt, got.TimeCreated)
	s.JSONEq(string(rec.Other), string(got.Other))

	var other event.CommentDeletedOther
	s.Require().NoError(json.Unmarshal(got.Other, &other))
	s.Equal(int64(11), *other.OublogID)
	s.Equal(int64(100), *other.PostID)
}

func (s *LogStoreTestSuite) TestAppend_Idempotent() {
	rec := newTestRecord(s.T(), 42, 5, postedAt)

	s.Require().NoError(s.store.Append(s.ctx, rec))
	s.Require().NoError(s.store.Append(s.ctx, rec))

	s.Equal(1, countRows(s.T(), s.data, LogTable))
}

func (s *LogStoreTestSuite) TestListByContextInstance_NewestFirstAndPaged() {
	for i := int64(0); i < 5; i++ {
		rec := newTestRecord(s.T(), 40+i, 5, postedAt.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.store.Append(s.ctx, rec))
	}
	s.Require().NoError(s.store.Append(s.ctx, newTestRecord(s.T(), 99, 6, postedAt)))

	page1, total, err := s.store.ListByContextInstance(s.ctx, 5, 0, 2)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(page1, 2)
	s.Equal(int64(44), *page1[0].ObjectID)
	s.Equal(int64(43), *page1[1].ObjectID)

	page3, total, err := s.store.ListByContextInstance(s.ctx, 5, 4, 2)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(page3, 1)
	s.Equal(int64(40), *page3[0].ObjectID)
}

func (s *LogStoreTestSuite) TestListByContextInstance_Empty() {
	records, total, err := s.store.ListByContextInstance(s.ctx, 123, 0, 10)

	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(records)
}
