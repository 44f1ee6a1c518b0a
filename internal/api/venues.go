package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

type ListOptions struct {
	Page  int
	Limit int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

type VenuePage struct {
	Venues []domain.Venue `json:"venues"`
	Meta   *Meta          `json:"meta,omitempty"`
}

func (c *Client) ListVenues(ctx context.Context, opts ListOptions) (*VenuePage, error) {
	q := opts.query()
	q.Set("sort", "created")
	q.Set("sortOrder", "desc")
	return c.venuePage(ctx, call{method: http.MethodGet, path: holidazePath + "/venues", query: q})
}

func (c *Client) SearchVenues(ctx context.Context, term string, opts ListOptions) (*VenuePage, error) {
	q := opts.query()
	q.Set("q", term)
	return c.venuePage(ctx, call{method: http.MethodGet, path: holidazePath + "/venues/search", query: q})
}

func (c *Client) venuePage(ctx context.Context, cl call) (*VenuePage, error) {
	var list []domain.Venue
	_, meta, err := c.do(ctx, cl, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Venue{}
	}
	return &VenuePage{Venues: list, Meta: meta}, nil
}

// GetVenue returns nil when the API answered without a body.
func (c *Client) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	q := url.Values{}
	q.Set("_owner", "true")
	q.Set("_bookings", "true")

	var v domain.Venue
	ok, _, err := c.do(ctx, call{method: http.MethodGet, path: holidazePath + "/venues/" + url.PathEscape(id), query: q}, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (c *Client) ListVenueBookings(ctx context.Context, id string) ([]domain.Booking, error) {
	var list []domain.Booking
	_, _, err := c.do(ctx, call{method: http.MethodGet, path: holidazePath + "/venues/" + url.PathEscape(id) + "/bookings", auth: true}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Booking{}
	}
	return list, nil
}

func (c *Client) CreateVenue(ctx context.Context, form domain.VenueForm) (*domain.Venue, error) {
	return c.writeVenue(ctx, http.MethodPost, holidazePath+"/venues", form)
}

func (c *Client) UpdateVenue(ctx context.Context, id string, form domain.VenueForm) (*domain.Venue, error) {
	return c.writeVenue(ctx, http.MethodPut, holidazePath+"/venues/"+url.PathEscape(id), form)
}

func (c *Client) writeVenue(ctx context.Context, method, path string, form domain.VenueForm) (*domain.Venue, error) {
	var v domain.Venue
	ok, _, err := c.do(ctx, call{method: method, path: path, body: form, auth: true}, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, call{method: http.MethodDelete, path: holidazePath + "/venues/" + url.PathEscape(id), auth: true}, nil)
	return err
}
