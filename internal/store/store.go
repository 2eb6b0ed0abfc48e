// Package store is a thread-safe in-memory implementation of the platform's
// persistence ports: one RWMutex-guarded map per entity, generalized from a
// single-entity memory repository into one store holding every core entity.
// Cross-entity operations never hold two locks at once except where
// explicitly documented (Execute paths), avoiding deadlock.
package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/haxaco/payos-sub010/internal/domain"
)

type Store struct {
	accountsMu sync.RWMutex
	accounts   map[string]domain.Account

	transfersMu sync.RWMutex
	transfers   map[string]domain.Transfer

	simulationsMu sync.RWMutex
	simulations   map[string]domain.Simulation
	executionDone map[string]chan struct{} // closed by FinishExecution, signals losers to re-read

	batchesMu sync.RWMutex
	batches   map[string]domain.Batch

	mandatesMu sync.RWMutex
	mandates   map[string]domain.Mandate

	checkoutsMu sync.RWMutex
	checkouts   map[string]domain.Checkout

	agentsMu sync.RWMutex
	agents   map[string]domain.Agent

	refundsMu sync.RWMutex
	refunds   map[string][]domain.Refund // keyed by original transfer id

	idempotencyMu sync.RWMutex
	idempotency   map[string]string // idempotency key -> resource id
}

func New() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		transfers:     make(map[string]domain.Transfer),
		simulations:   make(map[string]domain.Simulation),
		executionDone: make(map[string]chan struct{}),
		batches:       make(map[string]domain.Batch),
		mandates:      make(map[string]domain.Mandate),
		checkouts:     make(map[string]domain.Checkout),
		agents:        make(map[string]domain.Agent),
		refunds:       make(map[string][]domain.Refund),
		idempotency:   make(map[string]string),
	}
}

// --- Accounts ---

func (s *Store) PutAccount(acc domain.Account) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	s.accounts[acc.ID] = acc
}

func (s *Store) GetAccount(id string) (domain.Account, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

// GetAccounts batch-fetches every requested id in a single round-trip,
// returning only the ones found — callers detect misses by length mismatch.
// This backs the batch processor's account pre-fetch (dedup + memoize).
func (s *Store) GetAccounts(ids []string) map[string]domain.Account {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	out := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		if acc, ok := s.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out
}

// UpdateAccountBalance performs a conditional update of one currency's
// balance: the caller supplies the expected prior Available so a concurrent
// writer that already moved the balance causes this to fail rather than
// silently clobber the other writer's change.
func (s *Store) UpdateAccountBalance(id, currency string, expectedPrior domain.Balance, next domain.Balance) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	current := acc.Balances[currency]
	if !current.Available.Equal(expectedPrior.Available) {
		return domain.ErrInsufficientBalance
	}
	if acc.Balances == nil {
		acc.Balances = make(map[string]domain.Balance)
	}
	acc.Balances[currency] = next
	s.accounts[id] = acc
	return nil
}

// --- Transfers ---

func (s *Store) PutTransfer(tr domain.Transfer) {
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()
	s.transfers[tr.ID] = tr
}

func (s *Store) GetTransfer(id string) (domain.Transfer, error) {
	s.transfersMu.RLock()
	defer s.transfersMu.RUnlock()
	tr, ok := s.transfers[id]
	if !ok {
		return domain.Transfer{}, domain.ErrTransferNotFound
	}
	return tr, nil
}

func (s *Store) UpdateTransfer(tr domain.Transfer) {
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()
	s.transfers[tr.ID] = tr
}

func (s *Store) ListTransfers() []domain.Transfer {
	s.transfersMu.RLock()
	defer s.transfersMu.RUnlock()
	return slices.Collect(maps.Values(s.transfers))
}

// TransfersForAccount returns every transfer where accountID is source or
// destination, newest first. Used by the context aggregators' 30-day
// activity and fee-total summaries.
func (s *Store) TransfersForAccount(accountID string) []domain.Transfer {
	s.transfersMu.RLock()
	defer s.transfersMu.RUnlock()
	out := make([]domain.Transfer, 0)
	for _, tr := range s.transfers {
		if tr.FromAccount == accountID || tr.ToAccount == accountID {
			out = append(out, tr)
		}
	}
	slices.SortFunc(out, func(a, b domain.Transfer) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// --- Simulations ---

func (s *Store) PutSimulation(sim domain.Simulation) {
	s.simulationsMu.Lock()
	defer s.simulationsMu.Unlock()
	s.simulations[sim.ID] = sim
}

func (s *Store) GetSimulation(id string) (domain.Simulation, error) {
	s.simulationsMu.RLock()
	defer s.simulationsMu.RUnlock()
	sim, ok := s.simulations[id]
	if !ok {
		return domain.Simulation{}, domain.ErrSimulationNotFound
	}
	return sim, nil
}

// TryExecuteSimulation performs the single conditional state transition the
// execution gate requires: `UPDATE simulations SET executed=true WHERE
// id=? AND executed=false`. Exactly one concurrent caller observes won=true
// and must call FinishExecution to release the waiters it leaves behind.
// Every loser blocks until that FinishExecution call lands, then returns the
// fully-populated simulation — callers never observe the winner's
// in-flight placeholder, only the committed execution_result fields (or
// ctx's cancellation, if it fires first).
func (s *Store) TryExecuteSimulation(ctx context.Context, id string) (sim domain.Simulation, won bool, err error) {
	s.simulationsMu.Lock()
	current, ok := s.simulations[id]
	if !ok {
		s.simulationsMu.Unlock()
		return domain.Simulation{}, false, domain.ErrSimulationNotFound
	}
	if current.Executed {
		done, inFlight := s.executionDone[id]
		s.simulationsMu.Unlock()
		if !inFlight {
			return current, false, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return domain.Simulation{}, false, ctx.Err()
		}
		s.simulationsMu.RLock()
		final := s.simulations[id]
		s.simulationsMu.RUnlock()
		return final, false, nil
	}
	current.Executed = true
	s.simulations[id] = current
	s.executionDone[id] = make(chan struct{})
	s.simulationsMu.Unlock()
	return current, true, nil
}

// FinishExecution attaches the winner's execution result (or rolls back on
// failure) after TryExecuteSimulation granted the caller the win, then wakes
// every loser blocked on the in-flight channel TryExecuteSimulation created.
func (s *Store) FinishExecution(updated domain.Simulation) {
	s.simulationsMu.Lock()
	s.simulations[updated.ID] = updated
	done, ok := s.executionDone[updated.ID]
	if ok {
		delete(s.executionDone, updated.ID)
	}
	s.simulationsMu.Unlock()
	if ok {
		close(done)
	}
}

// --- Batches ---

func (s *Store) PutBatch(b domain.Batch) {
	s.batchesMu.Lock()
	defer s.batchesMu.Unlock()
	s.batches[b.ID] = b
}

func (s *Store) GetBatch(id string) (domain.Batch, error) {
	s.batchesMu.RLock()
	defer s.batchesMu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return domain.Batch{}, domain.ErrBatchNotFound
	}
	return b, nil
}

// --- Mandates ---

func (s *Store) PutMandate(m domain.Mandate) {
	s.mandatesMu.Lock()
	defer s.mandatesMu.Unlock()
	s.mandates[m.ID] = m
}

func (s *Store) GetMandate(id string) (domain.Mandate, error) {
	s.mandatesMu.RLock()
	defer s.mandatesMu.RUnlock()
	m, ok := s.mandates[id]
	if !ok {
		return domain.Mandate{}, domain.ErrMandateNotFound
	}
	return m, nil
}

// CASMandate performs a compare-and-swap keyed on the mandate's prior
// RemainingAmount/Status: an atomic conditional update requiring
// remaining_amount >= amount and status == active, enforced without an
// in-process lock manager — the invariant lives entirely in this one
// critical section.
func (s *Store) CASMandate(id string, mutate func(domain.Mandate) (domain.Mandate, error)) (domain.Mandate, error) {
	s.mandatesMu.Lock()
	defer s.mandatesMu.Unlock()
	current, ok := s.mandates[id]
	if !ok {
		return domain.Mandate{}, domain.ErrMandateNotFound
	}
	next, err := mutate(current)
	if err != nil {
		return domain.Mandate{}, err
	}
	s.mandates[id] = next
	return next, nil
}

// --- Checkouts ---

func (s *Store) PutCheckout(c domain.Checkout) {
	s.checkoutsMu.Lock()
	defer s.checkoutsMu.Unlock()
	s.checkouts[c.ID] = c
}

func (s *Store) GetCheckout(id string) (domain.Checkout, error) {
	s.checkoutsMu.RLock()
	defer s.checkoutsMu.RUnlock()
	c, ok := s.checkouts[id]
	if !ok {
		return domain.Checkout{}, domain.ErrCheckoutNotFound
	}
	return c, nil
}

func (s *Store) CASCheckout(id string, mutate func(domain.Checkout) (domain.Checkout, error)) (domain.Checkout, error) {
	s.checkoutsMu.Lock()
	defer s.checkoutsMu.Unlock()
	current, ok := s.checkouts[id]
	if !ok {
		return domain.Checkout{}, domain.ErrCheckoutNotFound
	}
	next, err := mutate(current)
	if err != nil {
		return domain.Checkout{}, err
	}
	s.checkouts[id] = next
	return next, nil
}

// --- Agents ---

func (s *Store) PutAgent(a domain.Agent) {
	s.agentsMu.Lock()
	defer s.agentsMu.Unlock()
	s.agents[a.ID] = a
}

func (s *Store) GetAgent(id string) (domain.Agent, error) {
	s.agentsMu.RLock()
	defer s.agentsMu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return domain.Agent{}, domain.ErrAgentNotFound
	}
	return a, nil
}

func (s *Store) UpdateAgent(a domain.Agent) {
	s.agentsMu.Lock()
	defer s.agentsMu.Unlock()
	s.agents[a.ID] = a
}

// AgentsForAccount returns every agent parented to accountID. Used by the
// account context aggregator's agent_count risk signal.
func (s *Store) AgentsForAccount(accountID string) []domain.Agent {
	s.agentsMu.RLock()
	defer s.agentsMu.RUnlock()
	out := make([]domain.Agent, 0)
	for _, a := range s.agents {
		if a.ParentAccountID == accountID {
			out = append(out, a)
		}
	}
	return out
}

// --- Refunds ---

func (s *Store) AddRefund(r domain.Refund) {
	s.refundsMu.Lock()
	defer s.refundsMu.Unlock()
	s.refunds[r.OriginalTransferID] = append(s.refunds[r.OriginalTransferID], r)
}

func (s *Store) RefundsFor(transferID string) []domain.Refund {
	s.refundsMu.RLock()
	defer s.refundsMu.RUnlock()
	return slices.Clone(s.refunds[transferID])
}

// GetRefund scans every original transfer's refund list for id. Refunds are
// indexed by original transfer id rather than their own id (RefundsFor is the
// hot path the context aggregator uses), so this is the cold path an
// idempotency replay takes to recover a single refund by its own id.
func (s *Store) GetRefund(id string) (domain.Refund, error) {
	s.refundsMu.RLock()
	defer s.refundsMu.RUnlock()
	for _, refunds := range s.refunds {
		for _, r := range refunds {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return domain.Refund{}, domain.ErrRefundNotFound
}

// --- Idempotency ---

// ReserveIdempotencyKey atomically checks-and-reserves a key, returning the
// existing resource id and found=true if the key was already used.
func (s *Store) ReserveIdempotencyKey(key, resourceID string) (existing string, found bool) {
	s.idempotencyMu.Lock()
	defer s.idempotencyMu.Unlock()
	if id, ok := s.idempotency[key]; ok {
		return id, true
	}
	s.idempotency[key] = resourceID
	return "", false
}

// PeekIdempotencyKey is an advisory pre-check: it tells a caller whether key
// has already been claimed without claiming it. Handlers use this before
// doing any work, then call ReserveIdempotencyKey once the real resource id
// is known — an advisory check, then atomic reserve, two-step.
func (s *Store) PeekIdempotencyKey(key string) (resourceID string, found bool) {
	s.idempotencyMu.RLock()
	defer s.idempotencyMu.RUnlock()
	id, ok := s.idempotency[key]
	return id, ok
}
