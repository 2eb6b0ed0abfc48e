package contextagg

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/haxaco/payos-sub010/internal/domain"
)

// AgentContext is the composed /context/agent/{id} response body. "Wallet"
// and "streams" in the fan-out description resolve to the agent's own
// spending policy and ActiveManagedStreams count — this platform has no
// separate agent wallet ledger, the agent spends against its parent
// account's balance under the policy caps.
type AgentContext struct {
	Agent             domain.Agent `json:"agent"`
	RecentTransferIDs []string     `json:"recent_transfer_ids"`
	Risk              Risk         `json:"risk"`
	AvailableActions  []string     `json:"available_actions"`
}

func (a *Aggregator) AgentContextFor(ctx context.Context, id string) (AgentContext, bool, error) {
	ag, err := a.store.GetAgent(id)
	if err != nil {
		return AgentContext{}, false, err
	}

	var (
		mu        sync.Mutex
		parent    domain.Account
		transfers []string
		partial   bool
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.store.GetAccount(ag.ParentAccountID)
		mu.Lock()
		parent = p
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		// Agent-attributed transfers aren't indexed separately; the parent
		// account's transfer history stands in until per-agent attribution
		// is tracked on Transfer itself.
		ids := []string{}
		for _, tr := range a.store.TransfersForAccount(ag.ParentAccountID) {
			ids = append(ids, tr.ID)
		}
		mu.Lock()
		transfers = ids
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		partial = true
		parent = domain.Account{}
	}

	risk := deriveAccountRisk(parent, 0)

	return AgentContext{
		Agent:             ag,
		RecentTransferIDs: transfers,
		Risk:              risk,
		AvailableActions:  availableActionsForAgent(ag.Status),
	}, partial, nil
}
