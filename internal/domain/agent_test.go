package domain

import (
	"errors"
	"testing"
)

func TestNewAgentRequiresBusinessParent(t *testing.T) {
	_, err := NewAgent("a1", "acc1", AccountTypePerson, SpendingPolicy{})
	if !errors.Is(err, ErrAgentParentNotBusiness) {
		t.Errorf("expected ErrAgentParentNotBusiness, got %v", err)
	}
}

func TestAgentSuspendActivateIdempotency(t *testing.T) {
	agent, err := NewAgent("a1", "acc1", AccountTypeBusiness, SpendingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, err = agent.Suspend()
	if err != nil {
		t.Fatalf("unexpected error suspending: %v", err)
	}
	if _, err := agent.Suspend(); !errors.Is(err, ErrAgentAlreadyInState) {
		t.Errorf("expected ErrAgentAlreadyInState on double-suspend, got %v", err)
	}

	agent, err = agent.Activate()
	if err != nil {
		t.Fatalf("unexpected error activating: %v", err)
	}
	if _, err := agent.Activate(); !errors.Is(err, ErrAgentAlreadyInState) {
		t.Errorf("expected ErrAgentAlreadyInState on double-activate, got %v", err)
	}
}

func TestAgentDeleteBlockedByActiveStreams(t *testing.T) {
	agent, _ := NewAgent("a1", "acc1", AccountTypeBusiness, SpendingPolicy{})
	agent.ActiveManagedStreams = 1
	if err := agent.Delete(); !errors.Is(err, ErrAgentHasActiveStreams) {
		t.Errorf("expected ErrAgentHasActiveStreams, got %v", err)
	}
}
