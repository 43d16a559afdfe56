package github

import (
	"cmp"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/httputil"
	"github.com/matzehuels/gitgraph/pkg/observability"
	"github.com/matzehuels/gitgraph/pkg/source"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client reads repository metadata and trees from GitHub.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	attempts   int
	delay      time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the attempt count and initial backoff for transient failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// NewClient creates a client. Pass an empty token for anonymous access.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		httpClient: httputil.NewClient(httputil.DefaultTimeout),
		baseURL:    DefaultBaseURL,
		attempts:   3,
		delay:      time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRepo retrieves repository metadata.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (*Repo, error) {
	if err := ValidateRepoRef(owner, repo, ""); err != nil {
		return nil, err
	}
	var r Repo
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// FetchTree reads the recursive tree of ref. An empty ref resolves to the
// repository's default branch first.
func (c *Client) FetchTree(ctx context.Context, owner, repo, ref string) (*Tree, error) {
	if err := ValidateRepoRef(owner, repo, ref); err != nil {
		return nil, err
	}
	if ref == "" {
		info, err := c.GetRepo(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		ref = cmp.Or(info.DefaultBranch, "HEAD")
	}

	var resp treeResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, repo, ref), &resp); err != nil {
		return nil, err
	}

	entries := make([]source.Entry, 0, len(resp.Tree))
	for _, item := range resp.Tree {
		entries = append(entries, source.Entry{Path: item.Path, Type: item.Type})
	}
	return &Tree{
		Owner:     owner,
		Repo:      repo,
		Ref:       ref,
		SHA:       resp.SHA,
		Truncated: resp.Truncated,
		Entries:   entries,
	}, nil
}

// get issues a GET with retries and unwraps the final error into a coded one.
func (c *Client) get(ctx context.Context, path string, v any) error {
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		return c.do(ctx, path, v)
	})
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", path)
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		err = re.Err
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)
}

func (c *Client) do(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	hooks := observability.HTTP()
	host, urlPath := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, urlPath)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, urlPath, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, urlPath, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return statusError(resp, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response")
	}
	return nil
}

// setHeaders sets common headers for GitHub API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func statusError(resp *http.Response, body []byte) error {
	code := resp.StatusCode
	msg := strings.TrimSpace(string(body))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Message != "" {
		msg = er.Message
	}

	switch {
	case code == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "GitHub API error (%d): %s", code, msg)
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeRepoNotFound, "GitHub API error (%d): %s", code, msg)
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: retryAfter(resp), Message: msg},
			"GitHub API error (%d): %s", code, msg)
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "GitHub API error (%d): %s", code, msg)
	case code == http.StatusConflict:
		return errors.New(errors.ErrCodeNotFound, "GitHub API error (%d): %s", code, msg)
	case code == http.StatusUnprocessableEntity:
		return errors.New(errors.ErrCodeInvalidRef, "GitHub API error (%d): %s", code, msg)
	default:
		return networkError(httputil.CheckStatus(code, msg))
	}
}

// networkError codes a generic status failure as NETWORK_ERROR. Server
// errors stay retryable.
func networkError(err error) error {
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, re.Err, "GitHub API error")}
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "GitHub API error")
}

// retryAfter reads Retry-After, falling back to X-RateLimit-Reset.
func retryAfter(resp *http.Response) int {
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		return s
	}
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if d := time.Until(time.Unix(reset, 0)); d > 0 {
			return int(d.Seconds())
		}
	}
	return 0
}
