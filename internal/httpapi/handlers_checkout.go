package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haxaco/payos-sub010/internal/domain"
)

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)

	var req createCheckoutRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	items := make([]domain.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		price, err := it.UnitPrice.toDomain()
		if err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
		items = append(items, domain.CheckoutItem{
			SKU:       it.SKU,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: price.Amount,
		})
	}

	subtotal, err := req.Subtotal.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	total, err := req.Total.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	tax := domain.Zero(subtotal.Currency)
	if req.Tax.Amount != "" {
		if tax, err = req.Tax.toDomain(); err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
	}
	shipping := domain.Zero(subtotal.Currency)
	if req.Shipping.Amount != "" {
		if shipping, err = req.Shipping.toDomain(); err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
	}
	discount := domain.Zero(subtotal.Currency)
	if req.Discount.Amount != "" {
		if discount, err = req.Discount.toDomain(); err != nil {
			t.WriteError(w, mapDomainErr(err), s.Production)
			return
		}
	}

	co, err := s.ACP.Create(r.Context(), req.MerchantID, req.AgentID, items, subtotal, tax, shipping, discount, total)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusCreated, co)
}

func (s *Server) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	co, err := s.ACP.Get(r.Context(), id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, co)
}

func (s *Server) handleCompleteCheckout(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")

	var req completeCheckoutRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	co, err := s.ACP.Complete(r.Context(), id, req.SharedPaymentToken, req.TransferID)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, co)
}

func (s *Server) handleCancelCheckout(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)
	id := chi.URLParam(r, "id")
	co, err := s.ACP.Cancel(r.Context(), id)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	t.WriteSuccess(w, http.StatusOK, co)
}
