package inbound

import (
	"time"

	"github.com/novapos/resetd/internal/pkg/router"
)

type BusinessHoursResponse struct {
	Open     bool   `json:"open"`
	Timezone string `json:"timezone"`
	Now      string `json:"now"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

// HTTPEndpoint exposes the business-hours check.
type HTTPEndpoint struct {
	uc uc
}

// BusinessHours reports whether the back office is open right now.
func (h *HTTPEndpoint) BusinessHours(r *router.Request) (any, error) {
	st, err := h.uc.BusinessHours(r.Context())
	if err != nil {
		return nil, err
	}

	return BusinessHoursResponse{
		Open:     st.Open,
		Timezone: st.Timezone,
		Now:      st.Now.Format(time.RFC3339),
		OpensAt:  st.OpensAt,
		ClosesAt: st.ClosesAt,
	}, nil
}
