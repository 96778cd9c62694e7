package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileProvider_Get(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"primaryChannels": ["linkedin", "x"],
		"riskProfile": "low",
		"budget": {"currency": "USD", "hardCap": 4000, "breakdown": {"paidMedia": 1200, "contentProduction": 600}}
	}`
	if err := os.WriteFile(filepath.Join(dir, "acme.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewFileProvider(dir)
	ws, err := p.Get(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.ID != "acme" {
		t.Errorf("expected id to default to file name, got %q", ws.ID)
	}
	if ws.RiskProfile != RiskLow {
		t.Errorf("expected low risk profile, got %q", ws.RiskProfile)
	}
	if got := ws.Budget.Breakdown.Total(); got != 1800 {
		t.Errorf("expected breakdown total 1800, got %v", got)
	}
	if len(ws.PrimaryChannels) != 2 || ws.PrimaryChannels[0] != "linkedin" {
		t.Errorf("channel order not preserved: %v", ws.PrimaryChannels)
	}
}

func TestFileProvider_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	p := NewFileProvider(dir)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"Missing", "nope", ErrNotFound},
		{"PathTraversal", "../etc/passwd", ErrNotFound},
		{"Malformed", "broken", ErrUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Get(context.Background(), tt.id)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get(%q) error = %v, want %v", tt.id, err, tt.want)
			}
		})
	}
}

func TestContext_Validate(t *testing.T) {
	valid := func() *Context {
		return &Context{
			ID:              "a",
			RiskProfile:     RiskEnterprise,
			PrimaryChannels: []string{"linkedin", "x"},
			Budget: Budget{
				WeeklyCap: 500,
				HardCap:   4000,
				Breakdown: BudgetBreakdown{PaidMedia: 1500, ContentProduction: 800, Tooling: 300, Contingency: 200},
			},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Context)
	}{
		{"UnknownRisk", func(c *Context) { c.RiskProfile = "reckless" }},
		{"EmptyID", func(c *Context) { c.ID = "" }},
		{"DuplicateChannel", func(c *Context) { c.PrimaryChannels = []string{"linkedin", "x", "linkedin"} }},
		{"BlankChannel", func(c *Context) { c.PrimaryChannels = []string{"linkedin", " "} }},
		{"NegativePaidMedia", func(c *Context) { c.Budget.Breakdown.PaidMedia = -5000 }},
		{"NegativeContentProduction", func(c *Context) { c.Budget.Breakdown.ContentProduction = -1 }},
		{"NegativeTooling", func(c *Context) { c.Budget.Breakdown.Tooling = -1 }},
		{"NegativeContingency", func(c *Context) { c.Budget.Breakdown.Contingency = -0.01 }},
		{"NegativeWeeklyCap", func(c *Context) { c.Budget.WeeklyCap = -1 }},
		{"NegativeHardCap", func(c *Context) { c.Budget.HardCap = -4000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := valid()
			tt.mod(ws)
			if err := ws.Validate(); err == nil {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}

	zeroCap := valid()
	zeroCap.Budget.HardCap = 0
	if err := zeroCap.Validate(); err != nil {
		t.Errorf("a zero hard cap is a computation failure, not a validation one: %v", err)
	}

	var nilWS *Context
	if err := nilWS.Validate(); err == nil {
		t.Error("expected nil context to be rejected")
	}
}

func TestContext_Clone(t *testing.T) {
	ws := Context{ID: "a", PrimaryChannels: []string{"linkedin", "linkedin"}, Goals: []string{"awareness"}}
	out := ws.Clone()
	if len(out.PrimaryChannels) != 2 {
		t.Errorf("Clone must keep channels as listed, got %v", out.PrimaryChannels)
	}
	out.PrimaryChannels[0] = "x"
	out.Goals[0] = "changed"
	if ws.PrimaryChannels[0] != "linkedin" || ws.Goals[0] != "awareness" {
		t.Error("Clone must not share slices with the original")
	}
}

func TestContext_WithChannels(t *testing.T) {
	ws := Context{ID: "a", PrimaryChannels: []string{"linkedin"}, Goals: []string{"awareness"}}
	out := ws.WithChannels([]string{"x", "", "linkedin", "x"})

	want := []string{"x", "linkedin"}
	if len(out.PrimaryChannels) != len(want) {
		t.Fatalf("expected %v, got %v", want, out.PrimaryChannels)
	}
	for i := range want {
		if out.PrimaryChannels[i] != want[i] {
			t.Errorf("at %d: expected %s, got %s", i, want[i], out.PrimaryChannels[i])
		}
	}

	out.Goals[0] = "changed"
	if ws.Goals[0] != "awareness" {
		t.Error("WithChannels must not share slices with the original")
	}
}

func TestContext_Connector(t *testing.T) {
	ws := Context{Connectors: []ConnectorHealth{{Channel: "linkedin", Status: ConnectorDegraded}}}
	h, ok := ws.Connector("linkedin")
	if !ok || h.Status != ConnectorDegraded {
		t.Errorf("expected degraded linkedin connector, got %+v (found=%v)", h, ok)
	}
	if _, ok := ws.Connector("tiktok"); ok {
		t.Error("expected no connector for tiktok")
	}
}
