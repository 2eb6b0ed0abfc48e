package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haxaco/payos-sub010/internal/domain"
)

func (s *Server) handleCreateMandate(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)

	var req createMandateRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}
	authorized, err := req.AuthorizedAmount.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}

	m, err := s.AP2.Create(r.Context(), tenant, domain.MandateType(req.MandateType), req.AgentID, req.AccountID, authorized, req.ExpiresAt)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusCreated, m)
}

func (s *Server) handleGetMandate(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	m, err := s.AP2.Get(r.Context(), id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, m)
}

func (s *Server) handleExecuteMandate(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")

	var req executeMandateRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}
	amount, err := req.Amount.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}

	m, execution, err := s.AP2.Execute(r.Context(), id, req.TransferID, amount)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusCreated, struct {
		Mandate   domain.Mandate          `json:"mandate"`
		Execution domain.MandateExecution `json:"execution"`
	}{m, execution})
}

func (s *Server) handleCancelMandate(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	m, err := s.AP2.Cancel(r.Context(), id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, m)
}
