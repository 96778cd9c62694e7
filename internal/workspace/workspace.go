package workspace

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// RiskProfile classifies how conservative a workspace is about publishing.
type RiskProfile string

const (
	RiskLow        RiskProfile = "low"
	RiskMedium     RiskProfile = "medium"
	RiskHigh       RiskProfile = "high"
	RiskEnterprise RiskProfile = "enterprise"
)

// Valid reports whether r is one of the known risk profiles.
func (r RiskProfile) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskEnterprise:
		return true
	}
	return false
}

// ConnectorStatus is the last reported health of a publishing connector.
type ConnectorStatus string

const (
	ConnectorHealthy  ConnectorStatus = "healthy"
	ConnectorDegraded ConnectorStatus = "degraded"
	ConnectorDown     ConnectorStatus = "down"
)

// BudgetBreakdown splits the campaign budget into its four spend categories.
type BudgetBreakdown struct {
	PaidMedia         float64 `json:"paidMedia"`
	ContentProduction float64 `json:"contentProduction"`
	Tooling           float64 `json:"tooling"`
	Contingency       float64 `json:"contingency"`
}

// Total sums the four categories in a fixed order.
func (b BudgetBreakdown) Total() float64 {
	return b.PaidMedia + b.ContentProduction + b.Tooling + b.Contingency
}

type Budget struct {
	Currency  string          `json:"currency"`
	WeeklyCap float64         `json:"weeklyCap"`
	HardCap   float64         `json:"hardCap"`
	Breakdown BudgetBreakdown `json:"breakdown"`
}

// ApprovalPolicy holds the thresholds a run must meet before publishing.
// Zero values disable the corresponding check.
type ApprovalPolicy struct {
	MinReadinessScore    float64 `json:"minReadinessScore,omitempty"`
	MinPolicyPassPct     float64 `json:"minPolicyPassPct,omitempty"`
	MinCitationCoverage  float64 `json:"minCitationCoverage,omitempty"`
	MaxDuplicationRisk   float64 `json:"maxDuplicationRisk,omitempty"`
	MaxCostUSD           float64 `json:"maxCostUSD,omitempty"`
	RequireHumanApproval bool    `json:"requireHumanApproval,omitempty"`
}

type ConnectorHealth struct {
	Channel   string          `json:"channel"`
	Status    ConnectorStatus `json:"status"`
	CheckedAt time.Time       `json:"checkedAt,omitempty"`
}

// Context is the immutable workspace snapshot consumed by a simulation run.
type Context struct {
	ID              string            `json:"id"`
	Name            string            `json:"name,omitempty"`
	Goals           []string          `json:"goals,omitempty"`
	PrimaryChannels []string          `json:"primaryChannels"`
	Budget          Budget            `json:"budget"`
	ApprovalPolicy  ApprovalPolicy    `json:"approvalPolicy"`
	RiskProfile     RiskProfile       `json:"riskProfile"`
	Connectors      []ConnectorHealth `json:"connectors,omitempty"`
}

// Validate checks the fields the simulator depends on.
func (c *Context) Validate() error {
	if c == nil {
		return fmt.Errorf("workspace context is nil")
	}
	if c.ID == "" {
		return fmt.Errorf("workspace id is empty")
	}
	if !c.RiskProfile.Valid() {
		return fmt.Errorf("workspace %s has unknown risk profile %q", c.ID, c.RiskProfile)
	}

	seen := make(map[string]bool, len(c.PrimaryChannels))
	for _, ch := range c.PrimaryChannels {
		if strings.TrimSpace(ch) == "" {
			return fmt.Errorf("workspace %s lists a blank primary channel", c.ID)
		}
		if seen[ch] {
			return fmt.Errorf("workspace %s lists primary channel %q more than once", c.ID, ch)
		}
		seen[ch] = true
	}

	b := c.Budget
	amounts := []struct {
		name  string
		value float64
	}{
		{"weeklyCap", b.WeeklyCap},
		{"hardCap", b.HardCap},
		{"breakdown.paidMedia", b.Breakdown.PaidMedia},
		{"breakdown.contentProduction", b.Breakdown.ContentProduction},
		{"breakdown.tooling", b.Breakdown.Tooling},
		{"breakdown.contingency", b.Breakdown.Contingency},
	}
	for _, a := range amounts {
		if a.value < 0 || math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return fmt.Errorf("workspace %s has invalid budget %s %v", c.ID, a.name, a.value)
		}
	}
	return nil
}

// Clone returns a deep copy of c. Channels are kept exactly as listed.
func (c Context) Clone() Context {
	out := c
	out.Goals = slices.Clone(c.Goals)
	out.PrimaryChannels = slices.Clone(c.PrimaryChannels)
	out.Connectors = slices.Clone(c.Connectors)
	return out
}

// WithChannels returns a copy of c whose primary channels are replaced by
// channels, keeping their order and dropping duplicates and blanks.
func (c Context) WithChannels(channels []string) Context {
	out := c.Clone()
	out.PrimaryChannels = make([]string, 0, len(channels))
	for _, ch := range channels {
		if strings.TrimSpace(ch) == "" || slices.Contains(out.PrimaryChannels, ch) {
			continue
		}
		out.PrimaryChannels = append(out.PrimaryChannels, ch)
	}
	return out
}

// Connector returns the health entry reported for channel, if any.
func (c *Context) Connector(channel string) (ConnectorHealth, bool) {
	for _, h := range c.Connectors {
		if h.Channel == channel {
			return h, true
		}
	}
	return ConnectorHealth{}, false
}
