package data

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"oublog-audit/internal/domain"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ domain.CommentRepository = (*commentRepo)(nil)

type commentRepo struct {
	data *Data
	log  *log.Helper
}

// NewCommentRepo creates a CommentRepository backed by the comments table.
func NewCommentRepo(data *Data, logger log.Logger) domain.CommentRepository {
	return &commentRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// FindByID loads the comment joined with its post and blog. A comment whose post
// or blog is gone is still returned, with the missing ids left zero.
func (r *commentRepo) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	b := r.data.builder()
	c := b.Table(CommentsTable).As("c")
	p := b.Table(PostsTable).As("p")
	o := b.Table(OublogTable).As("o")

	query, args := b.Select(
		c.C("id"), c.C("postid"), c.C("userid"), c.C("message"), c.C("timeposted"),
		c.C("deletedby"), c.C("timedeleted"),
		p.C("oublogid"), o.C("cmid"), o.C("contextid"), o.C("course"),
	).
		From(c).
		LeftJoin(p).On(c.C("postid"), p.C("id")).
		LeftJoin(o).On(p.C("oublogid"), o.C("id")).
		Where(entsql.EQ(c.C("id"), id)).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.conn(ctx).Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query comment %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrCommentNotFound
	}

	var (
		commentID, postID, userID, timePosted int64
		message                               string
		deletedBy, timeDeleted                stdsql.NullInt64
		oublogID, cmID, contextID, courseID   stdsql.NullInt64
	)
	if err := rows.Scan(
		&commentID, &postID, &userID, &message, &timePosted,
		&deletedBy, &timeDeleted,
		&oublogID, &cmID, &contextID, &courseID,
	); err != nil {
		return nil, fmt.Errorf("scan comment %d: %w", id, err)
	}

	var deletedAt *time.Time
	if timeDeleted.Valid {
		t := time.Unix(timeDeleted.Int64, 0).UTC()
		deletedAt = &t
	}

	return domain.ReconstructComment(
		commentID,
		domain.Location{
			PostID:    postID,
			OublogID:  oublogID.Int64,
			CMID:      cmID.Int64,
			ContextID: contextID.Int64,
			CourseID:  courseID.Int64,
		},
		userID,
		message,
		time.Unix(timePosted, 0).UTC(),
		nullableInt64(deletedBy),
		deletedAt,
	), nil
}

// SaveDeletion writes deletedby and timedeleted. It fails with
// ErrCommentAlreadyDeleted if another request deleted the comment first.
func (r *commentRepo) SaveDeletion(ctx context.Context, c *domain.Comment) error {
	if !c.IsDeleted() {
		return fmt.Errorf("comment %d is not marked deleted", c.ID())
	}

	query, args := r.data.builder().
		Update(CommentsTable).
		Set("deletedby", *c.DeletedBy()).
		Set("timedeleted", c.TimeDeleted().Unix()).
		Where(entsql.And(
			entsql.EQ("id", c.ID()),
			entsql.IsNull("timedeleted"),
		)).
		Query()

	var res stdsql.Result
	if err := r.data.conn(ctx).Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("update comment %d: %w", c.ID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		r.log.WithContext(ctx).Warnf("comment %d was deleted concurrently", c.ID())
		return domain.ErrCommentAlreadyDeleted
	}
	return nil
}

func nullableInt64(v stdsql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
