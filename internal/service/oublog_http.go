package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationOublogDeleteComment  = "/oublog.v1.Oublog/DeleteComment"
	OperationOublogListLog        = "/oublog.v1.Oublog/ListLog"
	OperationOublogRecentActivity = "/oublog.v1.Oublog/RecentActivity"
)

// ActorHeader carries the id of the user performing a request.
const ActorHeader = "X-User-Id"

// RegisterOublogHTTPServer registers the service routes on s.
func RegisterOublogHTTPServer(s *http.Server, srv *OublogService) {
	r := s.Route("/")
	r.DELETE("/oublog/comments/{id}", deleteCommentHandler(srv))
	r.GET("/oublog/{cmid}/log", listLogHandler(srv))
	r.GET("/oublog/{cmid}/activity", recentActivityHandler(srv))
}

func deleteCommentHandler(srv *OublogService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id, err := pathID(ctx, "id")
		if err != nil {
			return err
		}
		actor, err := parseID(ctx.Header().Get(ActorHeader))
		if err != nil {
			return ErrMissingActor
		}
		in := &DeleteCommentRequest{CommentID: id, ActorID: actor}

		http.SetOperation(ctx, OperationOublogDeleteComment)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.DeleteComment(ctx, req.(*DeleteCommentRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*DeleteCommentReply))
	}
}

func listLogHandler(srv *OublogService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		cmID, err := pathID(ctx, "cmid")
		if err != nil {
			return err
		}
		page, err := queryInt(ctx, "page")
		if err != nil {
			return err
		}
		size, err := queryInt(ctx, "size")
		if err != nil {
			return err
		}
		in := &ListLogRequest{CMID: cmID, Page: page, PageSize: size}

		http.SetOperation(ctx, OperationOublogListLog)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.ListLog(ctx, req.(*ListLogRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*ListLogReply))
	}
}

func recentActivityHandler(srv *OublogService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		cmID, err := pathID(ctx, "cmid")
		if err != nil {
			return err
		}
		in := &RecentActivityRequest{CMID: cmID}

		http.SetOperation(ctx, OperationOublogRecentActivity)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.RecentActivity(ctx, req.(*RecentActivityRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*RecentActivityReply))
	}
}

func pathID(ctx http.Context, name string) (int64, error) {
	id, err := parseID(ctx.Vars().Get(name))
	if err != nil || id == 0 {
		return 0, errors.BadRequest("INVALID_ARGUMENT", name+" must be a positive integer").
			WithMetadata(map[string]string{"field": name})
	}
	return id, nil
}

func queryInt(ctx http.Context, name string) (int, error) {
	raw := ctx.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("INVALID_ARGUMENT", name+" must be an integer").
			WithMetadata(map[string]string{"field": name})
	}
	return n, nil
}
