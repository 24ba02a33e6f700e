package domain

// PageRequest is a pagination cursor: zero-based page index, page size and an
// optional sort column.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
	Desc   bool
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 || p.Size > 100 {
		p.Size = 20
	}
	return p
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
