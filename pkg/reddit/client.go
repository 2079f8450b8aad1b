// Package reddit implements the small part of the reddit API the bot needs:
// password-grant oauth, self-post submission, comment replies, deletion and the user's submitted listing.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feed2reddit/pkg/domain"
)

const (
	defaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	defaultBaseURL = "https://oauth.reddit.com"
)

// Config defines reddit client parameters
type Config struct {
	UserAgent    string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	AuthURL      string
	BaseURL      string
	Timeout      time.Duration
}

// Client talks to reddit on behalf of a single script-app account
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	token   string
	expires time.Time
}

// New makes a reddit client with default endpoints filled in
func New(cfg Config) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, now: time.Now}
}

// Submit creates a self post and returns its fullname
func (c *Client) Submit(ctx context.Context, subreddit, title, text string) (string, error) {
	form := url.Values{
		"api_type": {"json"},
		"kind":     {"self"},
		"sr":       {subreddit},
		"title":    {title},
		"text":     {text},
	}
	var resp jsonResponse
	if err := c.call(ctx, http.MethodPost, "/api/submit", form, &resp); err != nil {
		return "", err
	}
	if err := resp.err("/api/submit"); err != nil {
		return "", err
	}
	lgr.Printf("[DEBUG] submitted %s to /r/%s: %s", resp.JSON.Data.Name, subreddit, resp.JSON.Data.URL)
	return resp.JSON.Data.Name, nil
}

// Reply adds a comment to the parent thing (post or comment) and returns the new comment fullname
func (c *Client) Reply(ctx context.Context, parent, text string) (string, error) {
	form := url.Values{
		"api_type": {"json"},
		"thing_id": {parent},
		"text":     {text},
	}
	var resp jsonResponse
	if err := c.call(ctx, http.MethodPost, "/api/comment", form, &resp); err != nil {
		return "", err
	}
	if err := resp.err("/api/comment"); err != nil {
		return "", err
	}
	if len(resp.JSON.Data.Things) == 0 {
		return "", fmt.Errorf("reddit /api/comment: no comment returned for %s", parent)
	}
	return resp.JSON.Data.Things[0].Data.Name, nil
}

// Delete removes the thing with the given fullname
func (c *Client) Delete(ctx context.Context, fullname string) error {
	return c.call(ctx, http.MethodPost, "/api/del", url.Values{"id": {fullname}}, nil)
}

// Submitted returns the user's most recent submissions, newest first
func (c *Client) Submitted(ctx context.Context, user string, limit int) ([]domain.Submission, error) {
	path := fmt.Sprintf("/user/%s/submitted?sort=new&limit=%d&raw_json=1", url.PathEscape(user), limit)
	var resp listing
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	res := make([]domain.Submission, 0, len(resp.Data.Children))
	for _, ch := range resp.Data.Children {
		res = append(res, domain.Submission{
			ID:    ch.Data.Name,
			URL:   ch.Data.URL,
			Title: ch.Data.Title,
			Ups:   ch.Data.Ups,
			Downs: ch.Data.Downs,
		})
	}
	return res, nil
}

// call makes an authorized request and decodes the json response into out, if provided
func (c *Client) call(ctx context.Context, method, path string, form url.Values, out any) error {
	token, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	var body io.Reader = http.NoBody
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.token = "" // expired or revoked, get a new one next time
	}
	if resp.StatusCode != http.StatusOK {
		return &apiError{op: opName(path), code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", opName(path), err)
	}
	return nil
}

// authorize returns a cached bearer token or gets a new one with the password grant
func (c *Client) authorize(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}

	var tok tokenResponse
	retrier := repeater.NewBackoff(3, 500*time.Millisecond, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		form := url.Values{
			"grant_type": {"password"},
			"username":   {c.cfg.Username},
			"password":   {c.cfg.Password},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
		if err != nil {
			return &criticalError{err: fmt.Errorf("create auth request: %w", err)}
		}
		req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.client.Do(req)
		if err != nil {
			return wrapTransport(err) // retry
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return &apiError{op: "auth", code: resp.StatusCode} // retry
		}
		if resp.StatusCode != http.StatusOK {
			return &criticalError{err: &apiError{op: "auth", code: resp.StatusCode}}
		}
		if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
			return &criticalError{err: fmt.Errorf("decode auth response: %w", err)}
		}
		if tok.Error != "" || tok.AccessToken == "" {
			return &criticalError{err: fmt.Errorf("reddit auth rejected for %s: %s", c.cfg.Username, tok.Error)}
		}
		return nil
	}, errCritical)
	if err != nil {
		return "", err
	}

	c.token = tok.AccessToken
	// renew a minute before reddit does
	c.expires = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	lgr.Printf("[DEBUG] reddit token for %s valid until %s", c.cfg.Username, c.expires.Format(time.RFC3339))
	return c.token, nil
}

// opName drops the query part of the path for error messages
func opName(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type jsonResponse struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   struct {
			Name   string `json:"name"`
			URL    string `json:"url"`
			Things []struct {
				Data struct {
					Name string `json:"name"`
				} `json:"data"`
			} `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// err converts reddit's json errors, like RATELIMIT, into an error
func (r jsonResponse) err(op string) error {
	if len(r.JSON.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.JSON.Errors))
	for _, e := range r.JSON.Errors {
		if len(e) > 1 {
			msgs = append(msgs, e[0]+": "+e[1])
			continue
		}
		msgs = append(msgs, strings.Join(e, " "))
	}
	return fmt.Errorf("reddit %s rejected: %s", op, strings.Join(msgs, "; "))
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Name  string `json:"name"`
				URL   string `json:"url"`
				Title string `json:"title"`
				Ups   int    `json:"ups"`
				Downs int    `json:"downs"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}
