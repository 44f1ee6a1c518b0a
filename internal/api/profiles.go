package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

func profilePath(name string) string {
	return holidazePath + "/profiles/" + url.PathEscape(name)
}

func (c *Client) GetProfile(ctx context.Context, name string) (*domain.Profile, error) {
	var p domain.Profile
	ok, _, err := c.do(ctx, call{method: http.MethodGet, path: profilePath(name), auth: true}, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string, form domain.ProfileForm) (*domain.Profile, error) {
	var p domain.Profile
	ok, _, err := c.do(ctx, call{method: http.MethodPut, path: profilePath(name), body: form, auth: true}, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListProfileBookings(ctx context.Context, name string) ([]domain.Booking, error) {
	q := url.Values{}
	q.Set("_venue", "true")

	var list []domain.Booking
	if _, _, err := c.do(ctx, call{method: http.MethodGet, path: profilePath(name) + "/bookings", query: q, auth: true}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Booking{}
	}
	return list, nil
}

func (c *Client) ListProfileVenues(ctx context.Context, name string) ([]domain.Venue, error) {
	q := url.Values{}
	q.Set("_bookings", "true")

	var list []domain.Venue
	if _, _, err := c.do(ctx, call{method: http.MethodGet, path: profilePath(name) + "/venues", query: q, auth: true}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Venue{}
	}
	return list, nil
}
