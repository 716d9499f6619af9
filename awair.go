// Package awair is a client for the Awair air-quality-sensor REST API and
// the equivalent API embedded in the devices themselves.
//
// Cloud access starts at New, which needs an access token or a custom
// Authenticator; local access starts at NewLocal with a list of device
// addresses, optionally obtained via DiscoverLocalDevices. Both paths hand
// out devices exposing the same four air-data queries.
package awair

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Option configures the New and NewLocal constructors.
type Option func(*options)

type options struct {
	accessToken   string
	authenticator Authenticator
	httpClient    *http.Client
	logger        *slog.Logger
}

// WithAccessToken authenticates with a static Awair access token.
func WithAccessToken(accessToken string) Option {
	return func(o *options) { o.accessToken = accessToken }
}

// WithAuthenticator authenticates with a custom Authenticator, for setups
// where the bearer token has to be produced on demand (OAuth and the like).
func WithAuthenticator(authenticator Authenticator) Option {
	return func(o *options) { o.authenticator = authenticator }
}

// WithHTTPClient supplies the HTTP client used for every request. The
// caller owns its lifecycle and any timeout it enforces;
// http.DefaultClient is used when omitted.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithLogger enables debug logging. The library never logs above debug
// level; failures are returned to the caller, not logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newClientFromOptions(o options) (*Client, error) {
	switch {
	case o.authenticator != nil:
		return NewClient(o.authenticator, o.httpClient, o.logger), nil
	case o.accessToken != "":
		return NewClient(AccessTokenAuth{AccessToken: o.accessToken}, o.httpClient, o.logger), nil
	default:
		return nil, newError(ErrGeneric, "no authentication supplied")
	}
}

// Awair is the entry point for the cloud API.
type Awair struct {
	Client *Client
}

// New builds a cloud API facade. One of WithAccessToken or
// WithAuthenticator is required; supplying neither fails immediately,
// before any network access.
func New(opts ...Option) (*Awair, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := newClientFromOptions(o)
	if err != nil {
		return nil, err
	}

	return &Awair{Client: client}, nil
}

// User fetches the profile of the account the credentials belong to.
func (a *Awair) User(ctx context.Context) (*User, error) {
	body, err := a.Client.Query(ctx, userURL)
	if err != nil {
		return nil, err
	}

	var attrs userAttrs
	if err := json.Unmarshal(body, &attrs); err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to unmarshal user: %v", err))
	}

	return newUser(a.Client, attrs), nil
}

// AwairLocal is the entry point for devices reachable over the local
// network. Local firmware requires no authentication; credentials may still
// be supplied but are optional.
type AwairLocal struct {
	Client      *Client
	deviceAddrs []string
}

// NewLocal builds a local API facade for the given device addresses.
// Supplying an empty list fails immediately.
func NewLocal(deviceAddrs []string, opts ...Option) (*AwairLocal, error) {
	if len(deviceAddrs) == 0 {
		return nil, newError(ErrGeneric, "no device addresses supplied")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.authenticator == nil && o.accessToken == "" {
		o.authenticator = AccessTokenAuth{}
	}

	client, err := newClientFromOptions(o)
	if err != nil {
		return nil, err
	}

	addrs := make([]string, len(deviceAddrs))
	copy(addrs, deviceAddrs)

	return &AwairLocal{Client: client, deviceAddrs: addrs}, nil
}

// Devices fetches the config endpoint of every configured address
// concurrently and returns one device per address, in input order. The
// listing is all-or-nothing: the first failing address fails the call.
func (l *AwairLocal) Devices(ctx context.Context) ([]*LocalDevice, error) {
	devices := make([]*LocalDevice, len(l.deviceAddrs))

	group, ctx := errgroup.WithContext(ctx)
	for i, addr := range l.deviceAddrs {
		i, addr := i, addr
		group.Go(func() error {
			body, err := l.Client.Query(ctx, fmt.Sprintf("http://%s/settings/config/data", addr))
			if err != nil {
				return err
			}

			var attrs localConfigAttrs
			if err := json.Unmarshal(body, &attrs); err != nil {
				return newError(ErrGeneric, fmt.Sprintf("failed to unmarshal device config from %s: %v", addr, err))
			}

			device, err := newLocalDevice(l.Client, addr, attrs)
			if err != nil {
				return err
			}

			devices[i] = device
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return devices, nil
}
