package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

// VisitorCookie is the cookie the server uses to key per-visitor history.
const VisitorCookie = "visitor_id"

// maxRedirects bounds redirect chains; the admin login answers with one.
const maxRedirects = 10

// Options configures NewHTTPClient.
type Options struct {
	// ServerURL is the PhishGuard base URL. Required when VisitorID is set.
	ServerURL string
	// Timeout bounds every request. Zero means no client-side timeout.
	Timeout time.Duration
	// ProxyAddress routes all traffic through a SOCKS5 proxy (host:port).
	ProxyAddress string
	// VisitorID presets the visitor_id cookie.
	VisitorID string
	// Headers are set on every request.
	Headers map[string]string
	// UserAgent overrides the default Go user agent.
	UserAgent string
}

// NewHTTPClient creates the HTTP client: cookie jar, optional SOCKS5 dialer,
// and a transport that injects configured headers.
func NewHTTPClient(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if opts.ProxyAddress != "" {
		dialer, err := newSOCKS5Dialer(opts.ProxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dialer.DialContext
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if opts.VisitorID != "" {
		if err := SeedVisitor(jar, opts.ServerURL, opts.VisitorID); err != nil {
			return nil, err
		}
	}

	var rt http.RoundTripper = transport
	if len(opts.Headers) > 0 || opts.UserAgent != "" {
		rt = &headerInjectingTransport{
			base:      transport,
			headers:   opts.Headers,
			userAgent: opts.UserAgent,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// SeedVisitor stores a visitor_id cookie for serverURL in jar.
func SeedVisitor(jar http.CookieJar, serverURL, visitorID string) error {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServerURL, serverURL)
	}
	jar.SetCookies(u, []*http.Cookie{{
		Name:  VisitorCookie,
		Value: visitorID,
		Path:  "/",
	}})
	return nil
}

// VisitorID returns the visitor_id cookie the jar holds for serverURL, or "".
func VisitorID(client *http.Client, serverURL string) string {
	if client == nil || client.Jar == nil {
		return ""
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return ""
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == VisitorCookie {
			return c.Value
		}
	}
	return ""
}

type contextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

func newSOCKS5Dialer(address string) (contextDialer, error) {
	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}
	d, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	cd, ok := d.(contextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", address)
	}
	return cd, nil
}

func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// headerInjectingTransport sets configured headers on every request,
// including redirected ones.
type headerInjectingTransport struct {
	base      http.RoundTripper
	headers   map[string]string
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(clone)
}
