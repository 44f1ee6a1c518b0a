package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

// CreateBooking posts a finished draft. It satisfies booking.Creator.
func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	var b domain.Booking
	ok, _, err := c.do(ctx, call{method: http.MethodPost, path: holidazePath + "/bookings", body: req, auth: true}, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	q := url.Values{}
	q.Set("_venue", "true")
	q.Set("_customer", "true")

	var b domain.Booking
	ok, _, err := c.do(ctx, call{method: http.MethodGet, path: holidazePath + "/bookings/" + url.PathEscape(id), query: q, auth: true}, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id string, form domain.BookingUpdateForm) (*domain.Booking, error) {
	var b domain.Booking
	ok, _, err := c.do(ctx, call{method: http.MethodPut, path: holidazePath + "/bookings/" + url.PathEscape(id), body: form, auth: true}, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, call{method: http.MethodDelete, path: holidazePath + "/bookings/" + url.PathEscape(id), auth: true}, nil)
	return err
}
