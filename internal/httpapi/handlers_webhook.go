package httpapi

import (
	"net/http"

	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/webhook"
)

// handleWebhookTransaction ingests an inbound settlement callback
// (PURCHASE/REVERSAL_PURCHASE/REFUND), distinct from the partner-facing
// transfer/refund creation routes.
func (s *Server) handleWebhookTransaction(w http.ResponseWriter, r *http.Request) {
	t := s.tracker(r)

	var req webhookRequestDTO
	if err := s.decode(r, &req); err != nil {
		t.WriteError(w, err, s.Production)
		return
	}

	local, err := req.Amount.Local.toDomain()
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	cmd := webhook.IngestCommand{
		EventID:               req.Event.ID,
		EventType:             webhook.EventType(req.Type),
		EventStatus:           webhook.EventStatus(req.Status),
		OriginalTransactionID: req.OriginalTransactionID,
		Local:                 local,
		DeliveryID:            req.TransactionID,
		IdempotencyKey:        req.Event.IdempotencyKey,
		UserID:                req.UserID,
		CardID:                req.CardID,
		Country:               req.Country,
		Currency:              req.Currency,
		PointOfSale:           req.PointOfSale,
		Merchant: webhook.Merchant{
			ID:      req.Merchant.ID,
			MCC:     req.Merchant.MCC,
			Address: req.Merchant.Address,
			Name:    req.Merchant.Name,
			City:    req.Merchant.City,
			State:   req.Merchant.State,
		},
	}
	if cmd.Transaction, err = optionalMoney(req.Amount.Transaction, local); err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	if cmd.Settlement, err = optionalMoney(req.Amount.Settlement, local); err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	if cmd.Original, err = optionalMoney(req.Amount.Original, local); err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}

	result, err := s.Webhook.Ingest(r.Context(), cmd)
	if err != nil {
		t.WriteError(w, mapDomainErr(err), s.Production)
		return
	}
	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}
	t.WriteSuccess(w, status, result)
}

// optionalMoney defaults an unset amount breakdown leg to fallback (the
// local amount), treating it as authoritative when a rail doesn't report a
// separate figure.
func optionalMoney(d moneyDTO, fallback domain.Money) (domain.Money, error) {
	if d.Amount == "" {
		return fallback, nil
	}
	return d.toDomain()
}
