package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fileconverser/internal/daemon"
	"fileconverser/internal/events"
)

var ErrAPIUnavailable = errors.New("fileconverser API unavailable")

// DefaultInterval is the Follow polling period when none is given.
const DefaultInterval = 500 * time.Millisecond

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// Query selects events after Since, optionally for one queue only.
type Query struct {
	Since int64
	Queue string
}

// Page is one response of the change feed.
type Page struct {
	Events []events.Event `json:"events"`
	Next   int64          `json:"next"`
}

// NewClient builds a client for bind. An empty bind returns a nil client.
func NewClient(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		token: strings.TrimSpace(token),
		http:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dst any) error {
	if c == nil {
		return ErrAPIUnavailable
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Fetch reads the events after q.Since.
func (c *Client) Fetch(ctx context.Context, q Query) (Page, error) {
	values := url.Values{}
	if q.Since > 0 {
		values.Set("since", strconv.FormatInt(q.Since, 10))
	}
	if strings.TrimSpace(q.Queue) != "" {
		values.Set("queue", strings.TrimSpace(q.Queue))
	}
	var page Page
	if err := c.get(ctx, "/api/events", values, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Status reads the server status.
func (c *Client) Status(ctx context.Context) (daemon.Status, error) {
	var status daemon.Status
	if err := c.get(ctx, "/api/status", nil, &status); err != nil {
		return daemon.Status{}, err
	}
	return status, nil
}

// Follow polls the feed and calls fn for every event until ctx ends or fn
// fails. It returns nil when ctx is cancelled.
func (c *Client) Follow(ctx context.Context, q Query, interval time.Duration, fn func(events.Event) error) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		page, err := c.Fetch(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, evt := range page.Events {
			if err := fn(evt); err != nil {
				return err
			}
		}
		if page.Next > q.Since {
			q.Since = page.Next
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
