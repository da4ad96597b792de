package eventbus

import (
	"context"
	"testing"

	"oublog-audit/internal/domain/event"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *entsql.Driver {
	t.Helper()
	drv, err := entsql.Open(dialect.SQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	m, err := schema.NewMigrate(drv)
	require.NoError(t, err)
	require.NoError(t, m.Create(context.Background(), OutboxSchema))
	drv.DB().SetMaxOpenConns(1)
	return drv
}

func newCommentDeleted(t require.TestingT, commentID int64) *event.CommentDeleted {
	e, err := event.NewCommentDeleted(event.CommentDeletedData{
		UserID:    7,
		CommentID: lo.ToPtr(commentID),
		Context:   event.ModuleContext(900, 5),
		OublogID:  lo.ToPtr(int64(11)),
		PostID:    lo.ToPtr(int64(100)),
	})
	require.NoError(t, err)
	return e
}

func countOutbox(t require.TestingT, db *entsql.Driver) int {
	b := entsql.Dialect(db.Dialect())
	query, args := b.Select(entsql.Count("*")).From(b.Table(OutboxTable)).Query()
	rows := &entsql.Rows{}
	require.NoError(t, db.Query(context.Background(), query, args, rows))
	defer rows.Close()
	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}
