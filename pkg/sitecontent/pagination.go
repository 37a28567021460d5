package sitecontent

// Pagination bounds. Out-of-range inputs are silently clamped, not rejected.
const (
	MinPageSize     = 1
	MaxPageSize     = 50
	DefaultPageSize = 15
)

func clampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size < MinPageSize {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func totalPages(totalItems int64, size int) int {
	if totalItems == 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}
