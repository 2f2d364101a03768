package main

// Default and maximum number of elements per result page.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest carries pagination parameters: a zero-based page number
// and the expected page size.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps out-of-range pagination values to usable ones.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Slice returns the bounds of the requested page over n elements.
func (p PageRequest) Slice(n int) (int, int) {
	lo := p.Page * p.Size
	if lo > n {
		lo = n
	}
	hi := lo + p.Size
	if hi > n {
		hi = n
	}
	return lo, hi
}
