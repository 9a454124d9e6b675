package dto

import (
	"net/url"
	"strconv"
)

// Page is one slice of a list result plus what is needed to link its neighbours.
type Page[T any] struct {
	Results  []T
	Count    int64
	Page     int
	PageSize int
}

// NewPage never returns nil Results so lists encode as [].
func NewPage[T any](results []T, count int64, page, pageSize int) *Page[T] {
	if results == nil {
		results = []T{}
	}
	return &Page[T]{Results: results, Count: count, Page: page, PageSize: pageSize}
}

// PaginatedResponse is the list envelope of every collection endpoint.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Envelope builds the response, deriving next/previous links from the request URL.
func (p *Page[T]) Envelope(requestURL *url.URL) PaginatedResponse[T] {
	resp := PaginatedResponse[T]{Count: p.Count, Results: p.Results}
	if p.PageSize > 0 && int64(p.Page*p.PageSize) < p.Count {
		resp.Next = pageLink(requestURL, p.Page+1, p.PageSize)
	}
	if p.Page > 1 {
		resp.Previous = pageLink(requestURL, p.Page-1, p.PageSize)
	}
	return resp
}

func pageLink(base *url.URL, page, pageSize int) *string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
