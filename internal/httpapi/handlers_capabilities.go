package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/capabilities"
)

// handleCapabilities serves GET /v1/capabilities. The registry owns its own
// cache entry (catalog rarely changes), so this handler only needs to
// honor If-None-Match on top of what Registry.Get already returns.
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	tenant := tenantOf(r)
	body, _ := s.Capabilities.Get(tenant, renderCatalog)
	etag := cache.ETag(body)

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func renderCatalog(c capabilities.Catalog) []byte {
	b, err := json.Marshal(c)
	if err != nil {
		return []byte(`{}`)
	}
	return b
}
