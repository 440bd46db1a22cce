package relay

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/mickamy/weechat-tui/auth"
	"github.com/mickamy/weechat-tui/message"
	"github.com/mickamy/weechat-tui/wire"
)

// frameOrErr carries one decoded frame or the error that ended the reader
// goroutine, mirroring the teacher's own errCh-per-direction relay idiom.
type frameOrErr struct {
	frame *wire.Frame
	err   error
}

// Connect dials host:port over TCP wrapped unconditionally in TLS (SNI set
// to host — the relay protocol has no unencrypted mode this client
// supports), performs the handshake/auth exchange, and returns a ready
// Session.
func Connect(ctx context.Context, host string, port int, password string) (*Session, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	var d net.Dialer
	rawConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("relay: dial %s: %w", addr, err)
	}

	conn := tls.Client(rawConn, &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	if err := conn.HandshakeContext(ctx); err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("relay: tls handshake: %w", err)
	}

	if err := authenticate(conn, password); err != nil {
		_ = conn.Close()
		return nil, err
	}

	frames := make(chan frameOrErr, 64)
	go readFrames(conn, frames)

	s := newSession(conn, frames)

	return s, nil
}

// authenticate runs the handshake -> init -> version_check exchange
// described by the protocol: negotiate a hash algorithm, send the composed
// auth string, then probe with a harmless info request. An EOF on the probe
// means the server rejected the password and closed the connection.
func authenticate(conn net.Conn, password string) error {
	if _, err := fmt.Fprintf(conn, "(handshake) handshake compression=off,password_hash_algo=%s\n", auth.SupportedHashes); err != nil {
		return fmt.Errorf("relay: send handshake: %w", err)
	}

	f, err := wire.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("relay: read handshake response: %w", err)
	}
	v, err := f.ReadValue()
	if err != nil {
		return fmt.Errorf("relay: decode handshake response: %w", err)
	}
	hs, err := message.ParseHandshake(v)
	if err != nil {
		return fmt.Errorf("relay: parse handshake response: %w", err)
	}

	algo, err := auth.SelectAlgo(hs.PasswordHashAlgo)
	if err != nil {
		return &auth.UnsupportedAlgorithm{Name: hs.PasswordHashAlgo}
	}
	authArg, err := auth.CreateAuth(algo, hs.Nonce, password)
	if err != nil {
		return fmt.Errorf("relay: create auth: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "init %s\n", authArg); err != nil {
		return fmt.Errorf("relay: send init: %w", err)
	}

	if _, err := fmt.Fprint(conn, "(version_check) info version\n"); err != nil {
		return fmt.Errorf("relay: send version probe: %w", err)
	}
	if _, err := wire.ReadFrame(conn); err != nil {
		if werr, ok := err.(*wire.Error); ok && werr.Kind == wire.UnexpectedEof {
			return &auth.AuthFailed{Reason: "Connection unexpectedly closed. Check password."}
		}
		return fmt.Errorf("relay: read version probe response: %w", err)
	}

	return nil
}

// readFrames reads frames off conn until it errors, publishing each to out.
func readFrames(conn net.Conn, out chan<- frameOrErr) {
	for {
		f, err := wire.ReadFrame(conn)
		if err != nil {
			out <- frameOrErr{err: fmt.Errorf("relay: read frame: %w", err)}
			return
		}
		out <- frameOrErr{frame: f}
	}
}

// writeOne writes a single queued command line to the wire, matching the
// protocol's plain newline-terminated ASCII command framing.
func (s *Session) writeOne(line string) error {
	if _, err := fmt.Fprint(s.conn, line); err != nil {
		return fmt.Errorf("relay: write command: %w", err)
	}
	return nil
}
