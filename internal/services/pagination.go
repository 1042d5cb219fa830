package services

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

func newPagination(page, size int, total int64) Pagination {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Pagination{Page: page, PageSize: size, Total: total, Pages: pages}
}

// clampPage returns page, or 1 when page is not positive.
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func offsetFor(page, size int) int {
	return (clampPage(page) - 1) * size
}
