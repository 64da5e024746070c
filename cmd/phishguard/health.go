package main

import (
	"fmt"
	"net"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/transport"
)

// NewHealthCmd creates the health command.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server and the optional proxy are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if a.cfg.ProxyAddress != "" {
				status := transport.CheckProxy(ctx, a.cfg.ProxyAddress, serverHostPort(a.cfg.ServerURL))
				fmt.Fprintf(cmd.OutOrStdout(), "proxy %s: %s\n", a.cfg.ProxyAddress, status)
				if err := status.Error(); err != nil {
					return err
				}
			}

			_, err = a.ctrl.Health(ctx)
			a.print(cmd.OutOrStdout())
			return shown(err)
		},
	}
}

// serverHostPort returns host:port of serverURL, filling in the scheme's port.
func serverHostPort(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil {
		return ""
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}
