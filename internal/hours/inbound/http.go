package inbound

import (
	"context"

	"github.com/novapos/resetd/internal/hours/usecase"
	"github.com/novapos/resetd/internal/pkg/router"
)

type uc interface {
	BusinessHours(ctx context.Context) (*usecase.Status, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/business-hours", end.BusinessHours)
}
