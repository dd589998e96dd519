package network

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Opens a TCP listener, optionally with SO_REUSEPORT so several daemons can share the port
func ListenTCP(ctx context.Context, addr string, reusePort bool) (listener net.Listener, err error) {
	cfg := net.ListenConfig{}
	if reusePort {
		cfg.Control = setReuseOptions
	}

	listener, err = cfg.Listen(ctx, "tcp", addr)
	if err != nil {
		if reusePort {
			err = fmt.Errorf("failed to listen on reused tcp port %s: %v", addr, err)
		} else {
			err = fmt.Errorf("failed to listen on %s: %v", addr, err)
		}
		return
	}
	return
}

// Using x/sys/unix package for more up-to-date syscall numbers
func setReuseOptions(network, address string, c syscall.RawConn) (err error) {
	cerr := c.Control(func(fd uintptr) {
		// Allow port reuse
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if err != nil {
			return
		}

		// Allow multiple active listeners
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if cerr != nil {
		err = cerr
	}
	return
}
