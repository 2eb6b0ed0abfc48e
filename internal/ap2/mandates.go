// Package ap2 implements the AP2 mandate lifecycle: pre-authorized agent
// spending envelopes that agents execute partial payments against. It is a
// thin service layer over domain.Mandate and the store's CASMandate
// conditional update, mirroring the execution gate's claim-then-finish shape
// generalized to a single atomic mutate step since a mandate execution has
// no re-simulation phase to race against.
package ap2

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haxaco/payos-sub010/internal/apperrors"
	"github.com/haxaco/payos-sub010/internal/domain"
	"github.com/haxaco/payos-sub010/internal/store"
)

type Service struct {
	store *store.Store
	newID func() string
}

func New(s *store.Store) *Service {
	return &Service{store: s, newID: uuid.NewString}
}

func (svc *Service) Create(ctx context.Context, tenant string, mandateType domain.MandateType, agentID, accountID string, authorized domain.Money, expiresAt time.Time) (domain.Mandate, error) {
	if _, err := svc.store.GetAccount(accountID); err != nil {
		return domain.Mandate{}, apperrors.New(apperrors.KindAccountNotFound, "account not found", map[string]any{"account_id": accountID})
	}
	m, err := domain.NewMandate(svc.newID(), mandateType, agentID, accountID, authorized, expiresAt)
	if err != nil {
		return domain.Mandate{}, apperrors.New(apperrors.KindValidationFailed, err.Error(), nil)
	}
	svc.store.PutMandate(m)
	return m, nil
}

func (svc *Service) Get(ctx context.Context, id string) (domain.Mandate, error) {
	return svc.store.CASMandate(id, func(m domain.Mandate) (domain.Mandate, error) {
		return m.RefreshExpiry(time.Now()), nil
	})
}

// Execute applies one partial payment against mandateID's remaining
// envelope and atomically persists the updated mandate alongside the
// execution record, mapping every terminal-state distinction (expired,
// cancelled, completed, over-spend) to its own error kind.
func (svc *Service) Execute(ctx context.Context, mandateID, transferID string, amount domain.Money) (domain.Mandate, domain.MandateExecution, error) {
	var exec domain.MandateExecution
	now := time.Now()
	updated, err := svc.store.CASMandate(mandateID, func(m domain.Mandate) (domain.Mandate, error) {
		m = m.RefreshExpiry(now)
		priorStatus, remaining := m.Status, m.RemainingAmount
		next, e, execErr := m.Execute(transferID, amount, now)
		if execErr != nil {
			return domain.Mandate{}, mandateStateError(mandateID, priorStatus, remaining, amount)
		}
		exec = e
		return next, nil
	})
	if err != nil {
		return domain.Mandate{}, domain.MandateExecution{}, mapMandateLookupErr(mandateID, err)
	}
	return updated, exec, nil
}

func (svc *Service) Cancel(ctx context.Context, mandateID string) (domain.Mandate, error) {
	now := time.Now()
	updated, err := svc.store.CASMandate(mandateID, func(m domain.Mandate) (domain.Mandate, error) {
		m = m.RefreshExpiry(now)
		priorStatus := m.Status
		next, cancelErr := m.Cancel()
		if cancelErr != nil {
			return domain.Mandate{}, mandateStateError(mandateID, priorStatus, domain.Money{}, domain.Money{})
		}
		return next, nil
	})
	if err != nil {
		return domain.Mandate{}, mapMandateLookupErr(mandateID, err)
	}
	return updated, nil
}

// mandateStateError turns a failed Mandate.Execute/Cancel call back into the
// specific kind implied by priorStatus, since the domain layer only
// distinguishes active-vs-not via ErrMandateNotActive/ErrMandateExceeded.
func mandateStateError(mandateID string, priorStatus domain.MandateStatus, remaining, requested domain.Money) error {
	switch priorStatus {
	case domain.MandateStatusExpired:
		return apperrors.New(apperrors.KindMandateExpired, "mandate has expired", map[string]any{"mandate_id": mandateID})
	case domain.MandateStatusCompleted, domain.MandateStatusCancelled:
		return apperrors.New(apperrors.KindMandateAlreadyTerminal, "mandate is already in a terminal state", map[string]any{"mandate_id": mandateID, "status": string(priorStatus)})
	default:
		if !requested.Amount.IsZero() {
			return apperrors.New(apperrors.KindMandateExceeded, "requested amount exceeds the mandate's remaining envelope", map[string]any{
				"mandate_id":        mandateID,
				"remaining_amount":  remaining.Amount.String(),
				"requested_amount":  requested.Amount.String(),
			})
		}
		return apperrors.New(apperrors.KindMandateNotActive, "mandate is not active", map[string]any{"mandate_id": mandateID, "status": string(priorStatus)})
	}
}

func mapMandateLookupErr(mandateID string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternalError {
		return err
	}
	return apperrors.New(apperrors.KindMandateNotFound, "mandate not found", map[string]any{"mandate_id": mandateID})
}
