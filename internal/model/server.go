package model

import (
	"context"
	"net"
)

// Server is a transport-agnostic serving loop with graceful shutdown.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// SecurityLayer produces the listener a server accepts connections on,
// either plain TCP or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}
