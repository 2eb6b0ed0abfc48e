package httpapi

import (
	"time"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// moneyDTO is the wire shape for domain.Money: a decimal string plus an ISO
// currency code, mirroring the capabilities catalog's moneyProp schema.
type moneyDTO struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
}

func (m moneyDTO) toDomain() (domain.Money, error) {
	return domain.ParseMoney(m.Amount, m.Currency)
}

func moneyFromDomain(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.String(), Currency: m.Currency}
}

type simulateRequestDTO struct {
	ActionType string    `json:"action_type" validate:"required,oneof=transfer refund stream batch"`
	Transfer   *struct {
		FromAccount         string   `json:"from_account" validate:"required"`
		ToAccount           string   `json:"to_account" validate:"required"`
		Amount              moneyDTO `json:"amount" validate:"required"`
		DestinationCurrency string   `json:"destination_currency"`
	} `json:"transfer,omitempty"`
	Refund *struct {
		OriginalTransferID string   `json:"original_transfer_id" validate:"required"`
		Amount             moneyDTO `json:"amount" validate:"required"`
		Reason             string   `json:"reason"`
	} `json:"refund,omitempty"`
}

type transferRequestDTO struct {
	FromAccount         string   `json:"from_account" validate:"required"`
	ToAccount           string   `json:"to_account" validate:"required"`
	Amount              moneyDTO `json:"amount" validate:"required"`
	DestinationCurrency string   `json:"destination_currency"`
}

func (d transferRequestDTO) toDomain() (domain.TransferRequest, error) {
	amount, err := d.Amount.toDomain()
	if err != nil {
		return domain.TransferRequest{}, err
	}
	destCurrency := d.DestinationCurrency
	if destCurrency == "" {
		destCurrency = amount.Currency
	}
	return domain.TransferRequest{
		FromAccount:         d.FromAccount,
		ToAccount:           d.ToAccount,
		Amount:              amount,
		DestinationCurrency: destCurrency,
	}, nil
}

type refundRequestDTO struct {
	OriginalTransferID string   `json:"original_transfer_id" validate:"required"`
	Amount             moneyDTO `json:"amount" validate:"required"`
	Reason             string   `json:"reason"`
}

func (d refundRequestDTO) toDomain() (domain.RefundRequest, error) {
	amount, err := d.Amount.toDomain()
	if err != nil {
		return domain.RefundRequest{}, err
	}
	reason := domain.RefundReason(d.Reason)
	if reason == "" {
		reason = domain.RefundReasonOther
	}
	return domain.RefundRequest{
		OriginalTransferID: d.OriginalTransferID,
		Amount:             amount,
		Reason:             reason,
	}, nil
}

type batchRequestDTO struct {
	Items            []transferRequestDTO `json:"items" validate:"required,min=1,dive"`
	StopOnFirstError bool                  `json:"stop_on_first_error"`
}

type createMandateRequestDTO struct {
	MandateType      string    `json:"mandate_type" validate:"required,oneof=intent cart payment"`
	AgentID          string    `json:"agent_id" validate:"required"`
	AccountID        string    `json:"account_id" validate:"required"`
	AuthorizedAmount moneyDTO  `json:"authorized_amount" validate:"required"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type executeMandateRequestDTO struct {
	TransferID string   `json:"transfer_id" validate:"required"`
	Amount     moneyDTO `json:"amount" validate:"required"`
}

type checkoutItemDTO struct {
	SKU       string   `json:"sku" validate:"required"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	UnitPrice moneyDTO `json:"unit_price" validate:"required"`
}

type createCheckoutRequestDTO struct {
	MerchantID string            `json:"merchant_id" validate:"required"`
	AgentID    string            `json:"agent_id"`
	Items      []checkoutItemDTO `json:"items" validate:"required,min=1,dive"`
	Subtotal   moneyDTO          `json:"subtotal" validate:"required"`
	Tax        moneyDTO          `json:"tax"`
	Shipping   moneyDTO          `json:"shipping"`
	Discount   moneyDTO          `json:"discount"`
	Total      moneyDTO          `json:"total" validate:"required"`
}

type completeCheckoutRequestDTO struct {
	SharedPaymentToken string `json:"shared_payment_token" validate:"required"`
	TransferID         string `json:"transfer_id" validate:"required"`
}

type facilitatorPaymentDTO struct {
	Scheme  string `json:"scheme" validate:"required"`
	Network string `json:"network" validate:"required"`
	Payer   string `json:"payer" validate:"required"`
	Payee   string `json:"payee" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
	Nonce   string `json:"nonce" validate:"required"`
}

type facilitatorRequestDTO struct {
	Payment facilitatorPaymentDTO `json:"payment" validate:"required"`
}

// webhookRequestDTO is the nested wire shape for an inbound settlement
// callback, using decimal-string Money rather than int64 cents.
type webhookRequestDTO struct {
	TransactionID          string `json:"transaction_id" validate:"required"`
	OriginalTransactionID  string `json:"original_transaction_id"`
	UserID                 string `json:"user_id"`
	CardID                 string `json:"card_id"`
	Country                string `json:"country"`
	Currency               string `json:"currency"`
	PointOfSale            string `json:"point_of_sale"`
	Amount                 struct {
		Local       moneyDTO `json:"local" validate:"required"`
		Transaction moneyDTO `json:"transaction"`
		Settlement  moneyDTO `json:"settlement"`
		Original    moneyDTO `json:"original"`
	} `json:"amount" validate:"required"`
	Merchant struct {
		ID      string `json:"id"`
		MCC     string `json:"mcc"`
		Address string `json:"address"`
		Name    string `json:"name"`
		City    string `json:"city"`
		State   string `json:"state"`
	} `json:"merchant"`
	Event struct {
		ID             string    `json:"id" validate:"required"`
		CreatedAt      time.Time `json:"created_at"`
		IdempotencyKey string    `json:"idempotency_key" validate:"required"`
	} `json:"event" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=PURCHASE REVERSAL_PURCHASE REFUND"`
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}
