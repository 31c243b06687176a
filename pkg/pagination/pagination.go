package pagination

const (
	// DefaultPageSize is the standard page size when none is configured.
	DefaultPageSize = 10
)

// Window describes one page over an in-memory list.
type Window struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"-"`
	End        int `json:"-"`
}

// Paginate clamps page into [1, TotalPages] and returns the slice bounds.
// An empty list still has one (empty) page.
func Paginate(total, page, size int) Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Window{
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}
}
