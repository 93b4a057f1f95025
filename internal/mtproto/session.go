package mtproto

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"userbot/internal/domain"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/dcs"
	"golang.org/x/net/proxy"
)

// sessionStorage lets the protocol layer read and write the domain session
type sessionStorage struct {
	session *domain.Session
}

func (s sessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	data := s.session.Data()
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}
	return data, nil
}

func (s sessionStorage) StoreSession(ctx context.Context, data []byte) error {
	s.session.SetData(data)
	return nil
}

// proxyResolver returns a DC resolver dialing through the proxy at rawURL,
// or nil for a direct connection
func proxyResolver(rawURL string) (dcs.Resolver, error) {
	if rawURL == "" {
		return nil, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	dialer, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("unsupported proxy %q: %w", u.Redacted(), err)
	}

	return dcs.Plain(dcs.PlainOptions{Dial: dialFunc(dialer)}), nil
}

func dialFunc(d proxy.Dialer) dcs.DialFunc {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
