// Package provider fetches order records from the webshop's XML API:
// token login, paged getOrder calls, and flattening of the responses into
// flat records.
package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/orderledger-dev/orderledger/internal/record"
)

const (
	defaultPageSize   = 500
	defaultTimeout    = 20 * time.Second
	defaultDateFormat = "2006.01.02"
	maxAttempts       = 4
	defaultBackoff    = time.Second
	maxPages          = 2000
)

// Column maps an output field name to a slash-separated path inside an
// Order element.
type Column struct {
	Name string
	Path string
}

// Config configures the API client.
type Config struct {
	BaseURL            string
	APIKey             string
	PageSize           int
	Timeout            time.Duration
	DateFormat         string
	RetryBackoff       time.Duration
	Columns            []Column
	AllowedGroups      []string
	SkipItemSubstrings []string
}

// Client talks to the order API. It logs in lazily and reuses the bearer
// token for the rest of the run.
type Client struct {
	cfg   Config
	http  *http.Client
	token string
	log   *zap.Logger
}

// New creates a Client, filling config defaults.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = defaultDateFormat
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultBackoff
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// param is one key/value pair of a request body; order is significant to
// some API methods, so params are a slice, not a map.
type param struct {
	key   string
	value string
}

func paramsXML(params []param) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<Params>")
	for _, p := range params {
		buf.WriteString("<" + p.key + ">")
		xml.EscapeText(&buf, []byte(p.value))
		buf.WriteString("</" + p.key + ">")
	}
	buf.WriteString("</Params>")
	return buf.Bytes()
}

// Login exchanges the API key for a bearer token.
func (c *Client) Login(ctx context.Context) error {
	body := paramsXML([]param{{"ApiKey", c.cfg.APIKey}, {"WebshopInfo", "true"}})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return fmt.Errorf("login: status %d: %s", resp.StatusCode, snippet)
	}

	root, err := ParseTree(resp.Body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	token := root.TextAt("Token")
	if token == "" && root.Name == "Token" {
		token = root.Text
	}
	if token == "" {
		return fmt.Errorf("login: token not found in response")
	}

	c.token = token
	c.log.Debug("logged in", zap.String("token_prefix", token[:min(8, len(token))]))
	return nil
}

// call posts one API method, retrying rate-limit and server-unavailable
// statuses with a growing backoff. Other failures abort immediately.
func (c *Client) call(ctx context.Context, method string, params []param) (*record.Node, error) {
	if c.token == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	body := paramsXML(params)
	url := c.cfg.BaseURL + "/" + method

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * c.cfg.RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building %s request: %w", method, err)
		}
		req.Header.Set("Content-Type", "application/xml")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}

		if resp.StatusCode == http.StatusOK {
			root, err := ParseTree(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", method, err)
			}
			return root, nil
		}

		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		resp.Body.Close()

		if !transientStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, snippet)
		}
		c.log.Warn("transient API failure, retrying",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("%s: retry limit exceeded", method)
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// FetchWindow fetches every order in [start, end] inclusive, following
// pagination, and returns one flat record per kept line item.
func (c *Client) FetchWindow(ctx context.Context, start, end time.Time) ([]record.Record, error) {
	dateStart := start.Format(c.cfg.DateFormat)
	dateEnd := end.Format(c.cfg.DateFormat)

	var orders []*record.Node
	offset := 0
	for page := 0; page < maxPages; page++ {
		root, err := c.call(ctx, "getOrder", []param{
			{"DateStart", dateStart},
			{"DateEnd", dateEnd},
			{"LimitNum", strconv.Itoa(c.cfg.PageSize)},
			{"LimitStart", strconv.Itoa(offset)},
		})
		if err != nil {
			return nil, err
		}

		batch := findOrders(root)
		orders = append(orders, batch...)
		c.log.Debug("fetched page",
			zap.String("start", dateStart),
			zap.String("end", dateEnd),
			zap.Int("offset", offset),
			zap.Int("orders", len(batch)))

		if len(batch) < c.cfg.PageSize {
			break
		}
		offset += c.cfg.PageSize
	}

	return c.toRecords(orders), nil
}

// findOrders collects every Order element anywhere under root.
func findOrders(root *record.Node) []*record.Node {
	var out []*record.Node
	if root.Name == "Order" {
		return []*record.Node{root}
	}
	for _, c := range root.Children {
		out = append(out, findOrders(c)...)
	}
	return out
}
