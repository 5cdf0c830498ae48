package models

// Page is one page of a paginated listing from the read API.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	IsPrevious bool `json:"is_previous"`
	IsNext     bool `json:"is_next"`
}

// HasNext reports whether another page follows. Older read endpoints omit is_next,
// so the page arithmetic is used as a fallback.
func (p *Page[T]) HasNext() bool {
	if p.IsNext {
		return true
	}
	return p.TotalPages > 0 && p.Page < p.TotalPages
}

// NewPage builds page metadata for a slice of all items.
func NewPage[T any](all []T, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(all)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pages := (total + limit - 1) / limit
	items := make([]T, end-start)
	copy(items, all[start:end])
	return Page[T]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		IsPrevious: page > 1,
		IsNext:     page < pages,
	}
}
