package transport

import (
	"context"
	"net"
	"testing"
)

// fakeProxy accepts one connection and runs handle on it.
func fakeProxy(t *testing.T, handle func(net.Conn)) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
	if err != nil {
		t.Fatalf("failed to start fake proxy: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()
	return listener.Addr().String()
}

// TestCheckProxy tests the SOCKS5 probe against fake proxies.
func TestCheckProxy(t *testing.T) {
	t.Parallel()

	const target = "phishguard.example.com:443"

	t.Run("cannot connect", func(t *testing.T) {
		t.Parallel()
		if s := CheckProxy(context.Background(), "127.0.0.1:59999", target); s != ProxyStatusCannotConnect {
			t.Errorf("expected CannotConnect, got %v", s)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()
		if s := CheckProxy(context.Background(), "127.0.0.1:1080", "no-port"); s != ProxyStatusCannotConnect {
			t.Errorf("expected CannotConnect, got %v", s)
		}
	})

	t.Run("http server is wrong type", func(t *testing.T) {
		t.Parallel()
		addr := fakeProxy(t, func(c net.Conn) {
			buf := make([]byte, 3)
			_, _ = c.Read(buf)
			_, _ = c.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		})
		if s := CheckProxy(context.Background(), addr, target); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("auth required is wrong type", func(t *testing.T) {
		t.Parallel()
		addr := fakeProxy(t, func(c net.Conn) {
			buf := make([]byte, 3)
			_, _ = c.Read(buf)
			_, _ = c.Write([]byte{0x05, 0xFF})
		})
		if s := CheckProxy(context.Background(), addr, target); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("socks5 reply is ok and carries target", func(t *testing.T) {
		t.Parallel()

		gotHost := make(chan string, 1)
		addr := fakeProxy(t, func(c net.Conn) {
			buf := make([]byte, 3)
			_, _ = c.Read(buf)
			_, _ = c.Write([]byte{0x05, 0x00})

			req := make([]byte, 512)
			n, _ := c.Read(req)
			if n > 5 {
				l := int(req[4])
				if 5+l <= n {
					gotHost <- string(req[5 : 5+l])
				}
			}
			_, _ = c.Write([]byte{0x05, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		})

		if s := CheckProxy(context.Background(), addr, target); s != ProxyStatusOK {
			t.Fatalf("expected OK, got %v", s)
		}
		select {
		case h := <-gotHost:
			if h != "phishguard.example.com" {
				t.Errorf("expected CONNECT to target host, got %q", h)
			}
		default:
			t.Error("fake proxy did not see a CONNECT request")
		}
	})

	t.Run("wrong version in connect reply", func(t *testing.T) {
		t.Parallel()
		addr := fakeProxy(t, func(c net.Conn) {
			buf := make([]byte, 3)
			_, _ = c.Read(buf)
			_, _ = c.Write([]byte{0x05, 0x00})
			req := make([]byte, 512)
			_, _ = c.Read(req)
			_, _ = c.Write([]byte{0x04, 0x00, 0x00, 0x01})
		})
		if s := CheckProxy(context.Background(), addr, target); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := CheckProxy(ctx, "127.0.0.1:59998", target)
		if s != ProxyStatusCannotConnect && s != ProxyStatusTimeout {
			t.Errorf("expected CannotConnect or Timeout, got %v", s)
		}
	})
}
