package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleCreateTransfer implements the create_transfer sugar: simulate then
// immediately execute, skipping the two-step simulate/execute dance for
// callers who don't want a dry-run preview first.
func (s *Server) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)

	var dto transferRequestDTO
	if err := s.decode(r, &dto); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}
	req, err := dto.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	body, replayed, err := s.createIdempotent(key,
		func() (string, any, error) {
			sim, err := s.Engine.SimulateTransfer(r.Context(), tenant, req)
			if err != nil {
				return "", nil, mapDomainErr(err)
			}
			if !sim.CanExecute {
				return "", nil, firstIssueErr(sim.Errors)
			}
			result, err := s.Gate.Execute(r.Context(), tenant, sim.ID)
			if err != nil {
				return "", nil, mapDomainErr(err)
			}
			return result.ExecutionResult.ID, result, nil
		},
		func(id string) (any, error) {
			tr, err := s.Store.GetTransfer(id)
			if err != nil {
				return nil, mapDomainErr(err)
			}
			return tr, nil
		},
	)
	if err != nil {
		t.WriteError(w, err, s.Production)
		return
	}
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	t.WriteSuccess(w, status, body)
}

func (s *Server) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	tr, err := s.Store.GetTransfer(id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, tr)
}

func (s *Server) handleCancelTransfer(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	tr, err := s.Store.GetTransfer(id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	if err := tr.Cancel(); err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	s.Store.UpdateTransfer(tr)
	t.WriteSuccess(w, http.StatusOK, tr)
}
