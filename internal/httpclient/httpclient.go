package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/plugfox/foxy-archive-server/internal/config"
	"golang.org/x/net/proxy"
)

// NewHTTPClient - REST client for the gateway session, routed through the
// SOCKS5 proxy when one is configured.
func NewHTTPClient(config *config.ProxyConfig, timeout time.Duration) (*http.Client, error) {
	if config == nil || config.Address == "" || config.Port == 0 {
		return &http.Client{Timeout: timeout}, nil
	}
	return NewHttpSocks5Client(config, timeout)
}

func NewHttpSocks5Client(config *config.ProxyConfig, timeout time.Duration) (*http.Client, error) {
	addr := net.JoinHostPort(config.Address, strconv.Itoa(config.Port))
	var auth *proxy.Auth
	if config.Username != "" && config.Password != "" {
		auth = &proxy.Auth{User: config.Username, Password: config.Password}
	}
	dialer, err := proxy.SOCKS5("tcp", addr, auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("cannot init socks5 proxy client dialer: %w", err)
	}
	httpTransport := &http.Transport{
		DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, address)
			}
			return dialer.Dial(network, address)
		},
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Transport: httpTransport, Timeout: timeout}, nil
}

// DialContext - the proxied dial function of a client built here, nil for a direct client.
func DialContext(client *http.Client) func(ctx context.Context, network, address string) (net.Conn, error) {
	if client == nil {
		return nil
	}
	if t, ok := client.Transport.(*http.Transport); ok {
		return t.DialContext
	}
	return nil
}
