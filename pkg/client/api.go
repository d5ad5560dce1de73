package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Typed wrappers for the most common calls. Anything not covered here goes
// through Do directly.

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResult struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login authenticates and stores the returned token pair on success.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.Do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Store.SetTokens(out.Access, out.Refresh)
	return &out, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out AuthResult
	err := c.Do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Store.SetTokens(out.Access, out.Refresh)
	return &out, nil
}

// Page is the server's list envelope with results left raw for the caller
// to decode.
type Page[T any] struct {
	Results []T   `json:"results"`
	Count   int64 `json:"count"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
}

type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Extra  url.Values
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	for k, vals := range o.Extra {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// List fetches a paginated collection, e.g. List[Article](ctx, c, "/api/articles", opts).
func List[T any](ctx context.Context, c *Client, path string, opts ListOptions) (*Page[T], error) {
	var out Page[T]
	if err := c.Do(ctx, http.MethodGet, path+opts.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single resource by ID or slug.
func Get[T any](ctx context.Context, c *Client, path string, key any) (*T, error) {
	var out T
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%v", path, key), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
