package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"
)

// probeTimeout bounds a proxy probe; it only checks connectivity.
const probeTimeout = 2 * time.Second

const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
	socks5CmdConnect   = 0x01
	socks5AddrDomain   = 0x03
)

// CheckProxy performs a SOCKS5 handshake with proxyAddress and asks it to
// CONNECT to target (host:port, normally the PhishGuard server). Any SOCKS5
// reply counts as OK: a refused CONNECT still proves the proxy is SOCKS5.
func CheckProxy(ctx context.Context, proxyAddress, target string) ProxyStatus {
	if !isValidProxyAddress(proxyAddress) {
		return ProxyStatusCannotConnect
	}
	host, portStr, err := net.SplitHostPort(target)
	if err != nil || host == "" || len(host) > 255 {
		return ProxyStatusCannotConnect
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return ProxyStatusCannotConnect
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline() //nolint:errcheck // WithTimeout always sets a deadline
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] == socks5AuthNoAccept || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	req := []byte{socks5Version, socks5CmdConnect, 0x00, socks5AddrDomain, byte(len(host))}
	req = append(req, host...)
	req = append(req, byte(port>>8), byte(port&0xFF))
	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

func readFailure(err error) ProxyStatus {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
