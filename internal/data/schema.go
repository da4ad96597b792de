package data

import (
	"math"

	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/infra/eventbus"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	OublogTable   = "oublog"
	PostsTable    = "oublog_posts"
	CommentsTable = event.CommentsTable
	LogTable      = "logstore_standard_log"
)

const textSize = math.MaxInt32

var (
	oublogColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "course", Type: field.TypeInt64},
		{Name: "name", Type: field.TypeString, Size: 255},
		{Name: "cmid", Type: field.TypeInt64},
		{Name: "contextid", Type: field.TypeInt64},
	}
	oublogSchema = &schema.Table{
		Name:       OublogTable,
		Columns:    oublogColumns,
		PrimaryKey: []*schema.Column{oublogColumns[0]},
		Indexes: []*schema.Index{
			{Name: "oublog_cmid", Unique: true, Columns: []*schema.Column{oublogColumns[3]}},
		},
	}

	postsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "oublogid", Type: field.TypeInt64},
		{Name: "userid", Type: field.TypeInt64},
		{Name: "title", Type: field.TypeString, Size: 255},
		{Name: "timeposted", Type: field.TypeInt64},
	}
	postsSchema = &schema.Table{
		Name:       PostsTable,
		Columns:    postsColumns,
		PrimaryKey: []*schema.Column{postsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "oublog_posts_oublogid", Columns: []*schema.Column{postsColumns[1]}},
		},
	}

	commentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "postid", Type: field.TypeInt64},
		{Name: "userid", Type: field.TypeInt64},
		{Name: "message", Type: field.TypeString, Size: textSize},
		{Name: "timeposted", Type: field.TypeInt64},
		{Name: "deletedby", Type: field.TypeInt64, Nullable: true},
		{Name: "timedeleted", Type: field.TypeInt64, Nullable: true},
	}
	commentsSchema = &schema.Table{
		Name:       CommentsTable,
		Columns:    commentsColumns,
		PrimaryKey: []*schema.Column{commentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "comments_postid", Columns: []*schema.Column{commentsColumns[1]}},
		},
	}

	logColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "eventid", Type: field.TypeString, Size: 36},
		{Name: "eventname", Type: field.TypeString, Size: 255},
		{Name: "component", Type: field.TypeString, Size: 100},
		{Name: "action", Type: field.TypeString, Size: 100},
		{Name: "target", Type: field.TypeString, Size: 100},
		{Name: "objecttable", Type: field.TypeString, Size: 50},
		{Name: "objectid", Type: field.TypeInt64, Nullable: true},
		{Name: "crud", Type: field.TypeString, Size: 1},
		{Name: "edulevel", Type: field.TypeInt},
		{Name: "contextid", Type: field.TypeInt64},
		{Name: "contextlevel", Type: field.TypeInt},
		{Name: "contextinstanceid", Type: field.TypeInt64},
		{Name: "userid", Type: field.TypeInt64},
		{Name: "courseid", Type: field.TypeInt64},
		{Name: "relateduserid", Type: field.TypeInt64, Nullable: true},
		{Name: "other", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "timecreated", Type: field.TypeInt64},
	}
	logSchema = &schema.Table{
		Name:       LogTable,
		Columns:    logColumns,
		PrimaryKey: []*schema.Column{logColumns[0]},
		Indexes: []*schema.Index{
			{Name: "logstore_eventid", Unique: true, Columns: []*schema.Column{logColumns[1]}},
			{Name: "logstore_context_time", Columns: []*schema.Column{logColumns[12], logColumns[17]}},
		},
	}

	// Tables lists every table the service owns, in creation order.
	Tables = []*schema.Table{
		oublogSchema,
		postsSchema,
		commentsSchema,
		logSchema,
		eventbus.OutboxSchema,
	}
)
