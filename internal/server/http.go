package server

import (
	"encoding/json"
	nethttp "net/http"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/service"
	"oublog-audit/pkg/problemdetails"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, oublog *service.OublogService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.ErrorEncoder(encodeProblem),
	}
	if c != nil && c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if d := c.HTTP.TimeoutDuration(); d > 0 {
			opts = append(opts, http.Timeout(d))
		}
	}
	srv := http.NewServer(opts...)
	service.RegisterOublogHTTPServer(srv, oublog)
	return srv
}

// encodeProblem writes errors as RFC 7807 problem documents.
func encodeProblem(w nethttp.ResponseWriter, _ *nethttp.Request, err error) {
	problem := problemdetails.FromError(err)
	w.Header().Set("Content-Type", problemdetails.ContentType)
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}
