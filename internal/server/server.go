package server

import (
	"github.com/google/wire"
	"google.golang.org/grpc/health"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer, NewGRPCServer, health.NewServer)
