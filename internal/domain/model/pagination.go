package model

// Pagination is the page block the content API attaches to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a page after the current one exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether a page before the current one exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// Page is one window over a list, either returned by the API or cut locally.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Paginate cuts a 1-based page of size limit out of items. Out-of-range pages
// clamp to the last page so a deletion on the final page never shows an empty list.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if limit <= 0 {
		limit = 10
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return Page[T]{
		Items:      items[start:end],
		Pagination: Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
	}
}
