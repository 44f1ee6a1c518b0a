package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

var ErrEmptyResponse = errors.New("empty response from holidaze api")

func (c *Client) Login(ctx context.Context, form domain.LoginForm) (*domain.AuthProfile, error) {
	q := url.Values{}
	q.Set("_holidaze", "true")

	var p domain.AuthProfile
	ok, _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", query: q, body: form}, &p)
	if err != nil {
		return nil, err
	}
	if !ok || p.AccessToken == "" {
		return nil, ErrEmptyResponse
	}
	return &p, nil
}

func (c *Client) Register(ctx context.Context, form domain.RegisterForm) (*domain.Profile, error) {
	var p domain.Profile
	ok, _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: form}, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyResponse
	}
	return &p, nil
}

// CreateAPIKey asks the API to issue a key for the bearer token in the
// client's credentials.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*domain.APIKey, error) {
	var k domain.APIKey
	ok, _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/create-api-key", body: map[string]string{"name": name}, auth: true}, &k)
	if err != nil {
		return nil, err
	}
	if !ok || k.Key == "" {
		return nil, ErrEmptyResponse
	}
	return &k, nil
}
