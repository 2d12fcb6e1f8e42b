package inbound

import (
	"github.com/lhaden/authgate/internal/emailotp/usecase"
	"github.com/lhaden/authgate/internal/pkg/router"
)

// HTTPEndpoint exposes the email OTP issue and verify handlers.
type HTTPEndpoint struct {
	uc uc
}

// Send mails a fresh code to the address and returns the matching token.
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Issue(r.Context(), usecase.IssueInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return SendResponse{
		Token: resp.Token,
		TTL:   int64(resp.TTL.Seconds()),
	}, nil
}

// Verify checks a code against its token. A rejected code is answered with
// 401 and a generic detail.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Email: req.Email,
		Code:  req.OTP,
		Token: req.Token,
	})
	if err != nil {
		return nil, err
	}

	out := VerifyResponse{Valid: resp.Valid, Detail: resp.Detail}
	if resp.Valid {
		out.NewUser = &resp.NewUser
	}

	return out, nil
}
