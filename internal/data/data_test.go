package data

import (
	"context"
	"testing"
	"time"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/infra/eventbus"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var postedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestData opens a private in-memory sqlite database with the schema created.
func newTestData(t *testing.T) *Data {
	t.Helper()
	d, cleanup, err := NewData(&conf.Data{
		Database: &conf.Database{
			Driver: dialect.SQLite,
			Source: "file:" + uuid.NewString() + "?mode=memory&cache=shared&_fk=1",
		},
	}, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return d
}

func insertRow(t *testing.T, d *Data, table string, values map[string]any) {
	t.Helper()
	columns := lo.Keys(values)
	args := lo.Map(columns, func(c string, _ int) any { return values[c] })
	query, qargs := d.builder().Insert(table).Columns(columns...).Values(args...).Query()
	require.NoError(t, d.db.Exec(context.Background(), query, qargs, nil))
}

// seedBlog creates blog 11 (cm 5, context 900, course 3) with post 100 and
//   - comment 42: live
//   - comment 43: already deleted by user 2
//   - comment 44: on post 999 which does not exist
func seedBlog(t *testing.T, d *Data) {
	t.Helper()
	insertRow(t, d, OublogTable, map[string]any{"id": 11, "course": 3, "name": "Reflections", "cmid": 5, "contextid": 900})
	insertRow(t, d, PostsTable, map[string]any{"id": 100, "oublogid": 11, "userid": 8, "title": "Week 1", "timeposted": postedAt.Unix()})
	insertRow(t, d, CommentsTable, map[string]any{"id": 42, "postid": 100, "userid": 8, "message": "Nice post", "timeposted": postedAt.Unix()})
	insertRow(t, d, CommentsTable, map[string]any{
		"id": 43, "postid": 100, "userid": 8, "message": "Spam", "timeposted": postedAt.Unix(),
		"deletedby": 2, "timedeleted": postedAt.Add(time.Hour).Unix(),
	})
	insertRow(t, d, CommentsTable, map[string]any{"id": 44, "postid": 999, "userid": 8, "message": "Orphan", "timeposted": postedAt.Unix()})
}

func countRows(t *testing.T, d *Data, table string) int {
	t.Helper()
	b := d.builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(table)).Query()
	rows := &entsql.Rows{}
	require.NoError(t, d.db.Query(context.Background(), query, args, rows))
	defer rows.Close()
	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}

func newTestRecord(t *testing.T, commentID, cmID int64, at time.Time) event.Record {
	t.Helper()
	e, err := event.NewCommentDeleted(event.CommentDeletedData{
		UserID:    7,
		CommentID: lo.ToPtr(commentID),
		CourseID:  3,
		Context:   event.ModuleContext(900, cmID),
		OublogID:  lo.ToPtr(int64(11)),
		PostID:    lo.ToPtr(int64(100)),
	})
	require.NoError(t, err)
	rec, err := e.Record()
	require.NoError(t, err)
	rec.TimeCreated = at.UTC().Truncate(time.Second)
	return rec
}

func newTestDispatcher(d *Data) *event.Dispatcher {
	return NewEventDispatcher(event.NewRegistry(), eventbus.NewOutboxPublisher(d.db), log.DefaultLogger)
}
