//go:build !unix

package proxy

import "net"

// listen binds addr with the platform default socket options.
// SO_REUSEADDR tuning (see listener_unix.go) is unix-specific.
func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
