package proxy

import (
	"bufio"
	"io"
	"net"
	"sync"
)

// tunnelBufferSize is the chunking window each pump reads/writes through.
// It is invisible to TCP semantics and never reframes or reorders bytes.
const tunnelBufferSize = 4096

// runTunnel takes over client and backendConn with two independent byte
// pumps and blocks until both have terminated. clientBuf is the client's
// buffered reader, which may already hold bytes read past the replayed
// Login Start frame; pumping from it (rather than client directly) loses
// nothing that was already buffered.
//
// Neither direction is inspected, reframed, or reordered; compression and
// encryption negotiated end-to-end after Login Start pass through
// transparently.
func runTunnel(client net.Conn, clientBuf *bufio.Reader, backendConn net.Conn) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		pump(clientBuf, client, backendConn)
		_ = backendConn.Close()
	}()
	go func() {
		defer wg.Done()
		pump(backendConn, backendConn, client)
		_ = client.Close()
	}()

	wg.Wait()
}

// pump copies from src to dst in tunnelBufferSize chunks until src returns
// EOF or an error, then closes srcCloser. runTunnel also closes the other
// connection once a pump returns, so the peer pump's blocked read ends too.
func pump(src io.Reader, srcCloser io.Closer, dst io.Writer) {
	defer srcCloser.Close()

	buf := make([]byte, tunnelBufferSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
