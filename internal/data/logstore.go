package data

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"time"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ domain.LogStore = (*logStore)(nil)

var logSelectColumns = []string{
	"id", "eventid", "eventname", "component", "action", "target", "objecttable", "objectid",
	"crud", "edulevel", "contextid", "contextlevel", "contextinstanceid", "userid", "courseid",
	"relateduserid", "other", "timecreated",
}

type logStore struct {
	data *Data
	log  *log.Helper
}

// NewLogStore creates a LogStore writing to the standard log table.
func NewLogStore(data *Data, logger log.Logger) domain.LogStore {
	return &logStore{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Append inserts rec unless a row with the same event id exists.
func (s *logStore) Append(ctx context.Context, rec event.Record) error {
	exists, err := s.exists(ctx, rec.EventID)
	if err != nil {
		return err
	}
	if exists {
		s.log.WithContext(ctx).Debugf("event %s already logged", rec.EventID)
		return nil
	}

	var other any
	if len(rec.Other) > 0 {
		other = string(rec.Other)
	}

	query, args := s.data.builder().
		Insert(LogTable).
		Columns(logSelectColumns[1:]...).
		Values(
			rec.EventID, rec.EventName, rec.Component, rec.Action, rec.Target, rec.ObjectTable, rec.ObjectID,
			string(rec.CRUD), int(rec.EduLevel), rec.ContextID, int(rec.ContextLevel), rec.ContextInstanceID,
			rec.UserID, rec.CourseID, rec.RelatedUserID, other, rec.TimeCreated.Unix(),
		).
		Query()

	if err := s.data.conn(ctx).Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert log %s: %w", rec.EventID, err)
	}
	return nil
}

func (s *logStore) exists(ctx context.Context, eventID string) (bool, error) {
	b := s.data.builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table(LogTable)).
		Where(entsql.EQ("eventid", eventID)).
		Query()

	n, err := s.count(ctx, query, args)
	return n > 0, err
}

func (s *logStore) count(ctx context.Context, query string, args []any) (int, error) {
	rows := &entsql.Rows{}
	if err := s.data.conn(ctx).Query(ctx, query, args, rows); err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

// ListByContextInstance returns a page of records of one course module, newest first.
func (s *logStore) ListByContextInstance(ctx context.Context, cmID int64, offset, limit int) ([]event.Record, int, error) {
	b := s.data.builder()
	where := entsql.EQ("contextinstanceid", cmID)

	countQuery, countArgs := b.Select(entsql.Count("*")).From(b.Table(LogTable)).Where(where).Query()
	total, err := s.count(ctx, countQuery, countArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("count log: %w", err)
	}

	query, args := b.Select(logSelectColumns...).
		From(b.Table(LogTable)).
		Where(entsql.EQ("contextinstanceid", cmID)).
		OrderBy(entsql.Desc("timecreated"), entsql.Desc("id")).
		Limit(limit).
		Offset(offset).
		Query()

	rows := &entsql.Rows{}
	if err := s.data.conn(ctx).Query(ctx, query, args, rows); err != nil {
		return nil, 0, fmt.Errorf("list log: %w", err)
	}
	defer rows.Close()

	var records []event.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func scanRecord(rows *entsql.Rows) (event.Record, error) {
	var (
		rec                     event.Record
		crud                    string
		eduLevel, contextLevel  int
		objectID, relatedUserID stdsql.NullInt64
		other                   stdsql.NullString
		timeCreated             int64
	)
	if err := rows.Scan(
		&rec.ID, &rec.EventID, &rec.EventName, &rec.Component, &rec.Action, &rec.Target, &rec.ObjectTable, &objectID,
		&crud, &eduLevel, &rec.ContextID, &contextLevel, &rec.ContextInstanceID, &rec.UserID, &rec.CourseID,
		&relatedUserID, &other, &timeCreated,
	); err != nil {
		return event.Record{}, fmt.Errorf("scan log: %w", err)
	}
	rec.CRUD = event.CRUD(crud)
	rec.EduLevel = event.EduLevel(eduLevel)
	rec.ContextLevel = event.ContextLevel(contextLevel)
	rec.ObjectID = nullableInt64(objectID)
	rec.RelatedUserID = nullableInt64(relatedUserID)
	if other.Valid {
		rec.Other = json.RawMessage(other.String)
	}
	rec.TimeCreated = time.Unix(timeCreated, 0).UTC()
	return rec, nil
}
