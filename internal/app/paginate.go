package app

// DefaultPageSize is used when a caller does not request a page size.
const DefaultPageSize = 20

// Page is one slice of a filtered listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
}

// Paginate returns the 1-based page of items. A page past the end yields an empty item list.
func Paginate[T any](items []T, page, size int) (Page[T], error) {
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 0 || size < 0 {
		return Page[T]{}, ErrInvalidPage
	}
	total := len(items)
	pages := (total + size - 1) / size
	start := min((page-1)*size, total)
	end := min(start+size, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items:    out,
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    pages,
	}, nil
}
