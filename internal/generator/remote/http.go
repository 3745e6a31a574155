// Package remote provides a generator backend that talks JSON over HTTP
// to an external pattern and commentary service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/registry"
)

func init() {
	registry.Register("http", "JSON over HTTP: POST {url}/pattern and {url}/commentary", func(opts generator.Options) (generator.Backend, error) {
		return New(opts.URL, opts.Timeout)
	})
}

// maxBody caps response bodies read from the service.
const maxBody = 64 << 10

// Client is an HTTP generator backend.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("remote: base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("remote: unsupported URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// GeneratePattern implements generator.PatternGenerator.
func (c *Client) GeneratePattern(ctx context.Context, req generator.PatternRequest) (generator.PatternResponse, error) {
	var resp generator.PatternResponse
	if err := c.post(ctx, "/pattern", req, &resp); err != nil {
		return generator.PatternResponse{}, err
	}
	return resp, nil
}

// GenerateCommentary implements generator.CommentaryGenerator.
func (c *Client) GenerateCommentary(ctx context.Context, req generator.CommentaryRequest) (generator.CommentaryResponse, error) {
	var resp generator.CommentaryResponse
	if err := c.post(ctx, "/commentary", req, &resp); err != nil {
		return generator.CommentaryResponse{}, err
	}
	return resp, nil
}

// Ping requests a level 1 pattern and checks it is usable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.GeneratePattern(ctx, generator.PatternRequest{Difficulty: 1})
	if err != nil {
		return err
	}
	return resp.Validate()
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("remote: encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody)) //nolint:errcheck // drain for reuse
		return fmt.Errorf("remote: %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}
