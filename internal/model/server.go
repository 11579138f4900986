package model

import (
	"context"
	"net"
)

// SecurityLayer abstracts how the server's network listener is created,
// so TLS can be enabled without touching server code.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with lifecycle methods.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
