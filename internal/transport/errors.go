package transport

import "errors"

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidServerURL is returned when the base URL cannot seed the cookie jar.
	ErrInvalidServerURL = errors.New("invalid server URL")

	// ErrProxyNotSOCKS5 is returned when the proxy answers but not as SOCKS5.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy can be made.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyTimeout is returned when the proxy handshake times out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")
)

// ProxyStatus is the result of probing a SOCKS5 proxy.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy completed a SOCKS5 CONNECT exchange.
	ProxyStatusOK ProxyStatus = iota
	// ProxyStatusWrongType indicates something answered that is not SOCKS5.
	ProxyStatusWrongType
	// ProxyStatusCannotConnect indicates the TCP dial failed.
	ProxyStatusCannotConnect
	// ProxyStatusTimeout indicates the probe ran out of time.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
