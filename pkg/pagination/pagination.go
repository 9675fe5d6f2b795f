package pagination

const (
	// DefaultPageSize is the page size of a table with no saved preference.
	DefaultPageSize = 10
	// MaxPageSize caps the page size any request can ask for.
	MaxPageSize = 50
)

// PageSizes lists the page sizes offered by the table footer.
var PageSizes = []int{10, 20, 30, 40, 50}

// Params holds page-index pagination inputs.
type Params struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// IsOfferedSize reports whether size is one of PageSizes.
func IsOfferedSize(size int) bool {
	for _, candidate := range PageSizes {
		if candidate == size {
			return true
		}
	}
	return false
}

// PageCount returns ceil(total/size), never less than one.
func PageCount(total, size int) int {
	size = NormalizeSize(size)
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp keeps the page index within [0, PageCount-1].
func Clamp(p Params, total int) Params {
	p.PageSize = NormalizeSize(p.PageSize)
	last := PageCount(total, p.PageSize) - 1
	if p.PageIndex > last {
		p.PageIndex = last
	}
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	return p
}

// Bounds returns the half-open slice range [start, end) for the page.
func Bounds(p Params, total int) (int, int) {
	p = Clamp(p, total)
	start := p.PageIndex * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
