package inbound

import (
	"context"

	"github.com/lhaden/authgate/internal/emailotp/usecase"
	"github.com/lhaden/authgate/internal/pkg/router"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/emailotp/send", end.Send)
	r.POST("/api/v1/emailotp/verify", end.Verify)
}
