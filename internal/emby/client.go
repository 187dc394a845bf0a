package emby

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"embydebug/internal/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const librariesCacheKey = "libraries"

// ClientInfo identifies this program to the server. It shows up in the Emby
// dashboard under devices and in the server logs.
type ClientInfo struct {
	Name    string
	Version string
	Device  string
}

// Options configures a Client
type Options struct {
	ServerURL  string
	Timeout    time.Duration
	LibraryTTL time.Duration
	Info       ClientInfo
	Logger     *logger.Logger
}

// Client talks to the Emby REST API on behalf of one logged-in user.
// It is not safe for concurrent use.
type Client struct {
	client   *resty.Client
	info     ClientInfo
	deviceID string
	cache    *cache.Cache
	log      *logger.Logger

	token  string
	userID string
}

// New creates a client for the server at opts.ServerURL. No request is made
// until Login.
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	ttl := opts.LibraryTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.ServerURL, "/"))
	client.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	c := &Client{
		client:   client,
		info:     opts.Info,
		deviceID: uuid.NewString(),
		cache:    cache.New(ttl, 2*ttl),
		log:      log,
	}

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.WithFields(map[string]interface{}{
			"method":  resp.Request.Method,
			"url":     resp.Request.URL,
			"status":  resp.StatusCode(),
			"latency": resp.Time().String(),
		}).Debug("emby request")
		return nil
	})

	return c
}

// UserID returns the id of the logged-in user, or "" before Login.
func (c *Client) UserID() string {
	return c.userID
}

// authorized returns a request carrying the access token, or
// ErrNotAuthenticated when Login has not succeeded yet.
func (c *Client) authorized(ctx context.Context, op string) (*resty.Request, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}
	return c.client.R().
		SetContext(ctx).
		SetHeader("X-Emby-Token", c.token), nil
}

// execute sends req and converts transport failures and non-2xx responses
// into errors.
func (c *Client) execute(req *resty.Request, method, path, op string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	if resp.IsError() {
		return resp, &APIError{Op: op, StatusCode: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, op, path string, params map[string]string, result any) error {
	req, err := c.authorized(ctx, op)
	if err != nil {
		return err
	}
	req.SetQueryParams(params)
	if result != nil {
		req.SetResult(result)
	}
	_, err = c.execute(req, http.MethodGet, path, op)
	return err
}

func (c *Client) post(ctx context.Context, op, path string, params map[string]string, body, result any) error {
	req, err := c.authorized(ctx, op)
	if err != nil {
		return err
	}
	req.SetQueryParams(params)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	_, err = c.execute(req, http.MethodPost, path, op)
	return err
}

func (c *Client) authorizationHeader() string {
	return fmt.Sprintf(`Emby UserId="%s", Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		c.userID, c.info.Name, c.info.Device, c.deviceID, c.info.Version)
}
