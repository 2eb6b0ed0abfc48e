package httpapi

import "net/http"

type healthBody struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	t.WriteSuccess(w, http.StatusOK, healthBody{Status: "ok", Environment: s.Environment})
}
