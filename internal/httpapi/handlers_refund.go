package httpapi

import "net/http"

// handleCreateRefund mirrors handleCreateTransfer's simulate-then-execute
// sugar for the refund action type.
func (s *Server) handleCreateRefund(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	tenant := tenantOf(r)

	var dto refundRequestDTO
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
			sim, err := s.Engine.SimulateRefund(r.Context(), tenant, req)
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
			rf, err := s.Store.GetRefund(id)
			if err != nil {
				return nil, mapDomainErr(err)
			}
			return rf, nil
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
