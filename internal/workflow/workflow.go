package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Node is one step of a campaign workflow.
type Node struct {
	ID                string   `json:"id" jsonschema:"unique node identifier"`
	Type              string   `json:"type" jsonschema:"node kind, e.g. generate, review, publish"`
	Dependencies      []string `json:"dependencies,omitempty" jsonschema:"ids of nodes that must finish first"`
	EstimatedDuration float64  `json:"estimatedDuration,omitempty" jsonschema:"expected duration in milliseconds"`
	FailureRate       float64  `json:"failureRate,omitempty" jsonschema:"probability in [0,1] that the node fails"`
}

// Document is the canonical shape of a workflow definition.
type Document struct {
	Nodes []Node `json:"nodes" jsonschema:"ordered workflow nodes"`
}

var (
	schemaOnce sync.Once
	resolved   *jsonschema.Resolved
	schemaErr  error
)

func documentSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		schema, err := jsonschema.For[Document](nil)
		if err != nil {
			schemaErr = fmt.Errorf("failed to infer workflow schema: %w", err)
			return
		}
		// Workflow documents carry editor metadata we do not model; only the
		// fields above are constrained.
		schema.AdditionalProperties = nil
		if nodes, ok := schema.Properties["nodes"]; ok && nodes.Items != nil {
			nodes.Items.AdditionalProperties = nil
		}
		resolved, schemaErr = schema.Resolve(nil)
	})
	return resolved, schemaErr
}

// Parse decodes an opaque workflow definition into its ordered nodes.
// Both {"nodes": [...]} and a bare [...] array are accepted.
func Parse(raw []byte) ([]Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("workflow definition is empty")
	}
	if trimmed[0] == '[' {
		trimmed = append(append([]byte(`{"nodes":`), trimmed...), '}')
	}

	var instance map[string]any
	if err := json.Unmarshal(trimmed, &instance); err != nil {
		return nil, fmt.Errorf("workflow definition is not a JSON object: %w", err)
	}

	rs, err := documentSchema()
	if err != nil {
		return nil, err
	}
	if err := rs.Validate(instance); err != nil {
		return nil, fmt.Errorf("workflow definition does not match schema: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode workflow nodes: %w", err)
	}
	if err := Validate(doc.Nodes); err != nil {
		return nil, err
	}
	return doc.Nodes, nil
}

// Validate checks ids, dependency references and numeric ranges.
func Validate(nodes []Node) error {
	seen := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("node at index %d has an empty id", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true

		if n.FailureRate < 0 || n.FailureRate > 1 {
			return fmt.Errorf("node %q failureRate %v outside [0,1]", n.ID, n.FailureRate)
		}
		if n.EstimatedDuration < 0 {
			return fmt.Errorf("node %q estimatedDuration must not be negative", n.ID)
		}
	}

	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			if dep == n.ID {
				return fmt.Errorf("node %q depends on itself", n.ID)
			}
			if !seen[dep] {
				return fmt.Errorf("node %q depends on unknown node %q", n.ID, dep)
			}
		}
	}
	return nil
}

// ComplexityFactor maps the node count onto [0,1], saturating at ten nodes.
func ComplexityFactor(nodeCount int) float64 {
	return min(1.0, float64(nodeCount)/10.0)
}
