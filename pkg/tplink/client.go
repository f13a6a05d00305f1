package tplink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink/internal"
)

// Fixed per-request timeouts. There are no retries.
const (
	DefaultLoginTimeout = 5 * time.Second
	DefaultFetchTimeout = 6 * time.Second
)

const (
	loginPath = "/logon.cgi"
	statsPath = "/PortStatisticsRpm.htm"
)

// Client represents a session with a TP-Link Easy Smart switch
type Client struct {
	httpClient   *internal.HTTPClient
	log          logrus.FieldLogger
	loginTimeout time.Duration
	fetchTimeout time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithLogger sets the logger used for debug output
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithLoginTimeout sets the timeout of the login request
func WithLoginTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.loginTimeout = timeout
	}
}

// WithFetchTimeout sets the timeout of the statistics page request
func WithFetchTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.fetchTimeout = timeout
	}
}

// NewClient creates a new client for the switch at address. A missing
// scheme defaults to http://.
func NewClient(address string, opts ...ClientOption) (*Client, error) {
	if address == "" {
		return nil, NewConfigError("switch address cannot be empty", nil)
	}

	client := &Client{
		log:          discardLogger(),
		loginTimeout: DefaultLoginTimeout,
		fetchTimeout: DefaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient = internal.NewHTTPClient(address, client.log)

	return client, nil
}

// Login posts the credentials to the switch. The session cookie it sets is
// kept for later requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	c.log.WithFields(logrus.Fields{
		"url":      c.httpClient.BaseURL(),
		"username": username,
	}).Debug("logging in")

	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	data := url.Values{}
	data.Set("logon", "Login")
	data.Set("username", username)
	data.Set("password", password)

	headers := map[string]string{
		"Referer": c.httpClient.BaseURL() + "/Logout.htm",
	}

	resp, err := c.httpClient.Post(ctx, loginPath, data, headers)
	if err != nil {
		if isTimeout(err) {
			return NewTimeoutError("timeout error at login", err)
		}
		return NewNetworkError("general error at login", err)
	}

	// The login response carries nothing we need beyond its status and cookie
	if _, err := c.httpClient.ReadBody(resp); err != nil {
		if isTimeout(err) {
			return NewTimeoutError("timeout error at login", err)
		}
		return NewNetworkError("failed to read login response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return NewAuthError(ErrInvalidCredentials.Message,
			fmt.Errorf("%s returned %s", loginPath, resp.Status))
	}

	return nil
}

// FetchStatsPage downloads the port statistics page and resolves its layout
func (c *Client) FetchStatsPage(ctx context.Context) (*StatsPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	base := c.httpClient.BaseURL()
	headers := map[string]string{
		"Referer":                   base + "/",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Upgrade-Insecure-Requests": "1",
	}

	resp, err := c.httpClient.Get(ctx, statsPath, headers)
	if err != nil {
		if isTimeout(err) {
			return nil, NewTimeoutError("timeout error fetching statistics", err)
		}
		return nil, NewNetworkError("general error fetching statistics", err)
	}

	body, err := c.httpClient.ReadBody(resp)
	if err != nil {
		if isTimeout(err) {
			return nil, NewTimeoutError("timeout error reading statistics", err)
		}
		return nil, NewNetworkError("failed to read statistics page", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewAuthError(ErrInvalidCredentials.Message,
			fmt.Errorf("%s returned %s", statsPath, resp.Status))
	}

	page, err := NewStatsPage(body)
	if err != nil {
		return nil, err
	}
	c.log.WithField("layout", page.Layout).Debug("detected page layout")

	return page, nil
}

// Statistics fetches the statistics page and extracts every port
func (c *Client) Statistics(ctx context.Context) (*StatsSnapshot, error) {
	page, err := c.FetchStatsPage(ctx)
	if err != nil {
		return nil, err
	}
	return ParseStatistics(page, c.log)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
