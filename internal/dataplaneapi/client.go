package dataplaneapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var dataPlaneClientTimeout = 2 * time.Second

const rawConfigPath = "/services/haproxy/configuration/raw"

// Client is the http client for Data Plane API
type Client struct {
	client  *http.Client
	baseURL string
	logger  *zap.SugaredLogger
}

// Option configures a connection option.
type Option func(c *Client)

// NewClient returns an http client for Data Plane API
func NewClient(url string, options ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: dataPlaneClientTimeout,
		},
		baseURL: strings.TrimSuffix(url, "/"),
		logger:  zap.NewNop().Sugar(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// WithLogger sets the logger for the client
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// rawConfig is the body returned by the raw configuration endpoint
type rawConfig struct {
	Version int64  `json:"_version"`
	Data    string `json:"data"`
}

// APIIsReady returns true when a 200 is returned for a GET request to the Data Plane API
func (c *Client) APIIsReady(ctx context.Context) bool {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	req.SetBasicAuth(viper.GetString("dataplane.user.name"), viper.GetString("dataplane.user.pwd"))

	resp, err := c.client.Do(req)
	if err != nil {
		// likely connection timeout
		return false
	}

	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// GetRawConfig fetches the configuration haproxy is currently running, in plain text
func (c *Client) GetRawConfig(ctx context.Context) (string, error) {
	url := c.baseURL + rawConfigPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(viper.GetString("dataplane.user.name"), viper.GetString("dataplane.user.pwd"))
	req.Header.Add("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrDataPlaneHTTPUnauthorized
	default:
		return "", ErrDataPlaneHTTPError
	}

	var raw rawConfig
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", newDecodeError(err)
	}

	c.logger.Debugw("fetched raw config from dataplaneapi", "version", raw.Version, "bytes", len(raw.Data))

	return raw.Data, nil
}

// WaitForDataPlaneReady waits for the DataPlane API to be ready
func (c *Client) WaitForDataPlaneReady(ctx context.Context, retries int, sleep time.Duration) error {
	for i := 0; i < retries; i++ {
		select {
		case <-ctx.Done():
			c.logger.Info("context done")
			return ctx.Err()
		default:
			if c.APIIsReady(ctx) {
				c.logger.Info("dataplaneapi is ready")
				return nil
			}

			c.logger.Info("waiting for dataplaneapi to become ready")
			time.Sleep(sleep)
		}
	}

	return ErrDataPlaneNotReady
}
