package ranking

const DefaultPageSize = 12

// Page is one contiguous slice of a ranked list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Paginate returns items[(page-1)*size : page*size]. Pages below 1 are
// treated as 1 and a non-positive size falls back to DefaultPageSize. A page
// past the end is empty. TotalPages is at least 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	p := Page[T]{Items: []T{}, Page: page, PageSize: size, TotalPages: totalPages, Total: total}

	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := min(start+size, total)
	p.Items = items[start:end:end]
	return p
}
