package domain

import "strings"

// Trend describes the short-term direction of demand
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// RiskLevel classifies how soon a product runs out
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// ReorderPriority orders reorder recommendations
type ReorderPriority string

const (
	PriorityUrgent ReorderPriority = "urgent"
	PriorityHigh   ReorderPriority = "high"
	PriorityMedium ReorderPriority = "medium"
	PriorityLow    ReorderPriority = "low"
)

var priorityRanks = map[ReorderPriority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Rank returns the sort position of a priority, most pressing first.
// Unknown priorities sort last.
func (p ReorderPriority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}

	return len(priorityRanks)
}

// ParseReorderPriority returns the priority for a label (case-insensitive).
func ParseReorderPriority(label string) (ReorderPriority, bool) {
	p := ReorderPriority(strings.ToLower(strings.TrimSpace(label)))
	_, ok := priorityRanks[p]

	return p, ok
}

var riskLevels = map[RiskLevel]struct{}{
	RiskCritical: {},
	RiskHigh:     {},
	RiskMedium:   {},
	RiskLow:      {},
}

// ParseRiskLevel returns the risk level for a label (case-insensitive).
func ParseRiskLevel(label string) (RiskLevel, bool) {
	l := RiskLevel(strings.ToLower(strings.TrimSpace(label)))
	_, ok := riskLevels[l]

	return l, ok
}
