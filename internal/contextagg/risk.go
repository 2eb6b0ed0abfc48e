package contextagg

import "github.com/haxaco/payos-sub010/internal/domain"

// Risk is the composed risk assessment attached to account (and, by
// extension, agent) context responses.
type Risk struct {
	Flags []string `json:"flags"`
	Level string   `json:"level"` // low | medium | high
}

// deriveAccountRisk scores suspended/tier<2/agent_count>10, one point each:
// 0 -> low, 1-2 -> medium, 3+ -> high.
func deriveAccountRisk(acc domain.Account, agentCount int) Risk {
	var flags []string
	score := 0
	if acc.Status == domain.AccountStatusSuspended {
		flags = append(flags, "suspended")
		score++
	}
	if acc.VerificationTier < domain.TierTwo {
		flags = append(flags, "tier<2")
		score++
	}
	if agentCount > 10 {
		flags = append(flags, "agent_count>10")
		score++
	}
	return Risk{Flags: flags, Level: levelFor(score)}
}

func levelFor(score int) string {
	switch {
	case score >= 3:
		return "high"
	case score >= 1:
		return "medium"
	default:
		return "low"
	}
}
