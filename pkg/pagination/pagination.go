package pagination

// The catalog uses classic page-number pagination: products are browsed in
// stable name order and a page holds a fixed number of rows.

const (
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Page carries the metadata returned alongside a page of results.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalRows  int64 `json:"total_rows"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps the params to sane values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PageFor builds page metadata for a result set of total rows.
func PageFor(params Params, total int64) Page {
	n := params.Normalize()
	pages := int(total) / n.PageSize
	if int(total)%n.PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Page{
		Number:     n.Page,
		Size:       n.PageSize,
		TotalRows:  total,
		TotalPages: pages,
	}
}
