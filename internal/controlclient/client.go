package controlclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/schema"
	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Conn is the read-only connection snapshot taken by a successful Connect.
type Conn struct {
	BaseURL    string
	AuthHeader string
}

// header returns the headers every request to the service carries.
func (c Conn) header() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Connection", "close")
	if c.AuthHeader != "" {
		h.Set("Authorization", c.AuthHeader)
	}
	return h
}

// url joins the base URL with endpoint parts.
func (c Conn) url(parts ...string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(strings.Join(parts, ""), "/")
}

// APIKeyAuth builds the Authorization header for API key access.
func APIKeyAuth(key string) string {
	return "Api-Key " + key
}

// BasicAuth builds the Authorization header for user/password access.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// Client is a connection to the control service plus the object model it
// declared.
type Client struct {
	transport Transport

	mu      sync.RWMutex
	conn    *Conn
	catalog *schema.Catalog
}

// New creates a disconnected client using transport.
func New(transport Transport) *Client {
	return &Client{transport: transport}
}

// Connect probes baseURL, fetches the model list and every model's
// description, and only then replaces the current connection and catalog.
// On any failure the previous state is kept.
func (c *Client) Connect(ctx context.Context, baseURL, authHeader string) (*schema.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	conn := Conn{BaseURL: baseURL, AuthHeader: authHeader}

	if _, err := c.send(ctx, &Request{Method: http.MethodGet, URL: baseURL, Header: conn.header()}); err != nil {
		return nil, fmt.Errorf("unable to communicate with mPCC %s: %w", baseURL, err)
	}

	resp, err := c.send(ctx, &Request{Method: http.MethodGet, URL: conn.url("datamodel/"), Header: conn.header()})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve the data models from the mPCC: %w", err)
	}
	names, err := schema.ParseModelList(resp.Body)
	if err != nil {
		return nil, err
	}

	models := make([]*schema.Model, 0, len(names))
	for _, name := range names {
		resp, err := c.send(ctx, &Request{
			Method: http.MethodGet,
			URL:    conn.url("datamodel/?model=" + url.QueryEscape(name)),
			Header: conn.header(),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve data structure for model %s: %w", name, err)
		}
		m, err := schema.ParseModel(name, resp.Body)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	catalog := schema.NewCatalog(models...)

	c.mu.Lock()
	c.conn = &conn
	c.catalog = catalog
	c.mu.Unlock()

	logger.Debug("Connected to mPCC.", "url", baseURL, "models", catalog.Len())
	return catalog, nil
}

// Connected reports whether a Connect has succeeded.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Conn returns the current connection snapshot.
func (c *Client) Conn() (Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return Conn{}, shellerr.ErrNotConnected
	}
	return *c.conn, nil
}

// Catalog returns the models learned on the last successful Connect. It is
// nil before the first one.
func (c *Client) Catalog() *schema.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// Call issues an arbitrary request against a path relative to the base URL.
// Plugins use it for endpoints that are not part of the object model.
func (c *Client) Call(ctx context.Context, method, path string, body []byte) (*Response, error) {
	conn, err := c.Conn()
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, &Request{Method: method, URL: conn.url(path), Header: conn.header(), Body: body})
}

// Do sends a prepared request and fails with a CommunicationError on
// transport errors or a status outside 200-299.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, &shellerr.CommunicationError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &shellerr.CommunicationError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return resp, nil
}

// Disconnect forgets the connection and catalog and releases idle
// transport connections. Requests already built keep working.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.conn = nil
	c.catalog = nil
	c.mu.Unlock()
	return c.Close()
}

// Close releases transport resources. The catalog is kept so a later
// connect can replace it.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
