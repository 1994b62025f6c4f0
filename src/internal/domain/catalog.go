package domain

// CatalogMovie is one row of the shared catalog. The catalog is populated by an
// external ingestion job; nothing on the request path ever writes it.
type CatalogMovie struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	PosterPath string  `json:"poster_path"`
	Overview   string  `json:"overview"`
	Runtime    int     `json:"runtime"`
	Rating     float64 `json:"rating"`
	Genres     string  `json:"genres"` // comma-joined, ordered as ingested
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListQuery is a fully normalized catalog listing request. Build one with
// NormalizeListQuery; the zero value is not valid.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string // trimmed; empty means no filter
	SortBy    string // one of rating, year, name
	SortOrder SortDirection
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// MoviePage is the listing response envelope.
type MoviePage struct {
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	Movies     []CatalogMovie `json:"movies"`
}
