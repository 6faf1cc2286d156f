package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize applies the default and maximum page size.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
