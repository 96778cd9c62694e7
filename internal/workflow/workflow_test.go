package workflow

import (
	"testing"
)

func TestParse_ObjectForm(t *testing.T) {
	raw := []byte(`{"nodes":[
		{"id":"draft","type":"generate","estimatedDuration":1200,"failureRate":0.02},
		{"id":"review","type":"review","dependencies":["draft"],"failureRate":0.05},
		{"id":"publish","type":"publish","dependencies":["review"]}
	]}`)

	nodes, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "draft" || nodes[2].ID != "publish" {
		t.Errorf("node order not preserved: %+v", nodes)
	}
	if nodes[0].EstimatedDuration != 1200 {
		t.Errorf("expected duration 1200, got %v", nodes[0].EstimatedDuration)
	}
	if len(nodes[1].Dependencies) != 1 || nodes[1].Dependencies[0] != "draft" {
		t.Errorf("unexpected dependencies: %v", nodes[1].Dependencies)
	}
}

func TestParse_ToleratesEditorMetadata(t *testing.T) {
	raw := []byte(`{"name":"launch","nodes":[{"id":"a","type":"generate","position":{"x":1,"y":2}}]}`)
	if _, err := Parse(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_ArrayForm(t *testing.T) {
	nodes, err := Parse([]byte(` [{"id":"a","type":"generate"}] `))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Type != "generate" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ``},
		{"Null", `null`},
		{"NotJSON", `{nodes:`},
		{"MissingNodes", `{"steps":[]}`},
		{"WrongType", `{"nodes":"draft"}`},
		{"MissingID", `{"nodes":[{"type":"generate"}]}`},
		{"DuplicateID", `{"nodes":[{"id":"a","type":"x"},{"id":"a","type":"y"}]}`},
		{"UnknownDependency", `{"nodes":[{"id":"a","type":"x","dependencies":["ghost"]}]}`},
		{"SelfDependency", `{"nodes":[{"id":"a","type":"x","dependencies":["a"]}]}`},
		{"FailureRateRange", `{"nodes":[{"id":"a","type":"x","failureRate":1.5}]}`},
		{"NegativeDuration", `{"nodes":[{"id":"a","type":"x","estimatedDuration":-1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}
}

func TestComplexityFactor(t *testing.T) {
	tests := []struct {
		nodes int
		want  float64
	}{
		{0, 0},
		{3, 0.3},
		{10, 1},
		{25, 1},
	}
	for _, tt := range tests {
		if got := ComplexityFactor(tt.nodes); got != tt.want {
			t.Errorf("ComplexityFactor(%d) = %v, want %v", tt.nodes, got, tt.want)
		}
	}
}
