// Package openhab talks to the openHAB REST API: it fetches sitemaps, opens
// sitemap event subscriptions and posts item commands.
package openhab

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// ErrNoSubscription is returned when the server accepted a subscribe request
// but did not say where the event stream lives.
var ErrNoSubscription = errors.New("subscription location missing")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Client is an openHAB REST client bound to one sitemap.
type Client struct {
	base    *url.URL
	sitemap string
	http    *http.Client
	stream  *http.Client
}

// BaseURL returns the REST root for a host and port.
func BaseURL(host string, port int) string {
	return "http://" + host + ":" + strconv.Itoa(port) + "/rest"
}

// NewClient returns a client for the REST root baseURL (for example
// http://openhab:8080/rest).
func NewClient(baseURL, sitemapName string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs scheme and host", baseURL)
	}
	return &Client{
		base:    u,
		sitemap: sitemapName,
		http:    &http.Client{Timeout: 15 * time.Second},
		stream:  &http.Client{},
	}, nil
}

// SitemapName returns the sitemap the client is bound to.
func (c *Client) SitemapName() string { return c.sitemap }

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return c.base.String() + "/" + strings.Join(escaped, "/")
}

// Sitemap fetches and decodes the bound sitemap.
func (c *Client) Sitemap(ctx context.Context) (*sitemap.Sitemap, error) {
	target := c.endpoint("sitemaps", c.sitemap)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Method: http.MethodGet, URL: target, Code: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}
	return sitemap.Decode(data)
}

type subscribeResponse struct {
	Context struct {
		Headers struct {
			Location []string `json:"Location"`
		} `json:"headers"`
	} `json:"context"`
}

// Subscribe opens a sitemap event subscription and returns the URL of its
// event stream. The location is read from the Location header, falling back
// to context.headers.Location in the body.
func (c *Client) Subscribe(ctx context.Context) (string, error) {
	target := c.endpoint("sitemaps", "events", "subscribe")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("subscribe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Method: http.MethodPost, URL: target, Code: resp.StatusCode}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		var body subscribeResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Context.Headers.Location) > 0 {
			location = body.Context.Headers.Location[0]
		}
	}
	if location == "" {
		return "", ErrNoSubscription
	}
	return c.streamURL(location)
}

// streamURL rebases a subscription location onto the client's host and adds
// the sitemap and page query the server expects.
func (c *Client) streamURL(location string) (string, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse subscription location: %w", err)
	}
	path := loc.Path
	if i := strings.Index(path, "/rest/sitemaps"); i > 0 {
		path = path[i:]
	}
	out := url.URL{Scheme: c.base.Scheme, Host: c.base.Host, Path: path}
	q := url.Values{}
	q.Set("sitemap", c.sitemap)
	q.Set("pageid", c.sitemap)
	out.RawQuery = q.Encode()
	return out.String(), nil
}

// Stream reads server-sent events from a subscription until the context is
// cancelled or the connection ends. Each decoded message is handed to fn.
// Undecodable events are skipped.
func (c *Client) Stream(ctx context.Context, location string, fn func(Message)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: http.MethodGet, URL: location, Code: resp.StatusCode}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var data bytes.Buffer
	flush := func() {
		if data.Len() == 0 {
			return
		}
		if msg, err := ParseMessage(data.Bytes()); err == nil {
			fn(msg)
		}
		data.Reset()
	}
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	flush()
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return ctx.Err()
}

// Send posts a command value to an item link as text/plain.
func (c *Client) Send(ctx context.Context, link, value string) error {
	if link == "" {
		return errors.New("send command: empty item link")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link, strings.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: http.MethodPost, URL: link, Code: resp.StatusCode}
	}
	return nil
}
