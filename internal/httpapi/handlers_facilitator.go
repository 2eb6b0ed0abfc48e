package httpapi

import (
	"net/http"

	"github.com/haxaco/payos-sub010/internal/facilitator"
)

func (s *Server) handleFacilitatorVerify(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)

	var req facilitatorRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	result, err := s.Facilitator.Verify(r.Context(), toFacilitatorPayment(req.Payment))
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, result)
}

func (s *Server) handleFacilitatorSettle(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)

	var req facilitatorRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	result, err := s.Facilitator.Settle(r.Context(), toFacilitatorPayment(req.Payment))
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, result)
}

func toFacilitatorPayment(p facilitatorPaymentDTO) facilitator.Payment {
	return facilitator.Payment{
		Scheme:  p.Scheme,
		Network: p.Network,
		Payer:   p.Payer,
		Payee:   p.Payee,
		Amount:  p.Amount,
		Nonce:   p.Nonce,
	}
}
