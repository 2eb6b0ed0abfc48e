package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
)

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)

	var req simulateRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	switch domain.ActionType(req.ActionType) {
	case domain.ActionTypeTransfer:
		if req.Transfer == nil {
			t.WriteError(w, apperrors.New(apperrors.KindMissingRequiredField, "transfer payload is required for action_type=transfer", nil), s.Production)
			return
		}
		dto := transferRequestDTO{
			FromAccount:         req.Transfer.FromAccount,
			ToAccount:           req.Transfer.ToAccount,
			Amount:              req.Transfer.Amount,
			DestinationCurrency: req.Transfer.DestinationCurrency,
		}
		tr, err := dto.toDomain()
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		sim, err := s.Engine.SimulateTransfer(r.Context(), tenant, tr)
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		t.WriteSuccess(w, http.StatusCreated, sim)

	case domain.ActionTypeRefund:
		if req.Refund == nil {
			t.WriteError(w, apperrors.New(apperrors.KindMissingRequiredField, "refund payload is required for action_type=refund", nil), s.Production)
			return
		}
		dto := refundRequestDTO{
			OriginalTransferID: req.Refund.OriginalTransferID,
			Amount:             req.Refund.Amount,
			Reason:             req.Refund.Reason,
		}
		rr, err := dto.toDomain()
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		sim, err := s.Engine.SimulateRefund(r.Context(), tenant, rr)
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		t.WriteSuccess(w, http.StatusCreated, sim)

	case domain.ActionTypeStream:
		// No projection algorithm is implemented for streaming payouts; this
		// is a terminal error rather than a best-effort guess at the math.
		t.WriteError(w, apperrors.New(apperrors.KindStreamProjectionUnavailable, "stream simulation is not available", nil), s.Production)

	default:
		t.WriteError(w, apperrors.New(apperrors.KindInvalidActionType, "unsupported action_type: "+req.ActionType, nil), s.Production)
	}
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	sim, err := s.Store.GetSimulation(id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, sim)
}

func (s *Server) handleExecuteSimulation(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)
	id := chi.URLParam(r, "id")

	result, err := s.Gate.Execute(r.Context(), tenant, id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	status := http.StatusOK
	if !result.AlreadyExecuted {
		status = http.StatusCreated
	}
	t.WriteSuccess(w, status, result)
}

func (s *Server) handleSimulateBatch(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)

	var req batchRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	items := make([]domain.TransferRequest, 0, len(req.Items))
	for _, it := range req.Items {
		tr, err := it.toDomain()
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		items = append(items, tr)
	}

	batch, err := s.Batch.Process(r.Context(), tenant, items, req.StopOnFirstError)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusCreated, batch)
}
