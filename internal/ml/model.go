// Package ml wraps the trained price regression model: resolving the model
// from its serialized artifact, acquiring the artifact over HTTP when it is
// missing locally, and running inference behind a single narrow interface so
// the rest of the program has no dependency on the modeling technology.
package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Model is the one capability the predictor needs from a trained model:
// given the canonical feature row, return one numeric prediction on the
// log1p-transformed target scale.
type Model interface {
	Predict(row []float64) (float64, error)
}

// TreeNode is one node of a flat-array regression tree. Non-leaf nodes route
// on FeatureIdx against Threshold; leaf nodes carry the predicted value.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// RegressionTree is the concrete model deserialized from the artifact.
type RegressionTree struct {
	FeatureNames []string   `json:"feature_names"`
	Nodes        []TreeNode `json:"nodes"`
}

// Predict walks the tree for the given feature row. The row width is checked
// against the feature names recorded at training time when present.
func (t *RegressionTree) Predict(row []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.New("model has no nodes")
	}
	if len(t.FeatureNames) > 0 && len(row) != len(t.FeatureNames) {
		return 0, fmt.Errorf("expected %d features, got %d", len(t.FeatureNames), len(row))
	}

	idx := 0
	// A well-formed tree terminates in at most len(Nodes) hops.
	for hops := 0; hops < len(t.Nodes); hops++ {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(row) {
			return 0, fmt.Errorf("feature index %d out of range", node.FeatureIdx)
		}
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("child index %d out of range", idx)
		}
	}
	return 0, errors.New("tree walk did not reach a leaf")
}

// LoadModel reads the artifact from disk and resolves the model inside it.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	m, err := resolveModel(data)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return m, nil
}

var jsonNull = []byte("null")

// resolveModel probes the artifact for the model in a fixed priority order:
// a pipeline document with a "model" member, a pipeline with a "steps" array
// whose last step holds the model, or a bare model document. The shape is
// resolved once here, never re-inspected at predict time.
func resolveModel(data []byte) (Model, error) {
	var doc struct {
		Model json.RawMessage   `json:"model"`
		Steps []json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	switch {
	case len(doc.Model) > 0 && !bytes.Equal(doc.Model, jsonNull):
		return decodeTree(doc.Model)
	case len(doc.Steps) > 0:
		last := doc.Steps[len(doc.Steps)-1]
		// Steps may be [name, model] pairs or bare model documents.
		var pair []json.RawMessage
		if err := json.Unmarshal(last, &pair); err == nil && len(pair) > 0 {
			last = pair[len(pair)-1]
		}
		return decodeTree(last)
	default:
		return decodeTree(data)
	}
}

func decodeTree(raw []byte) (*RegressionTree, error) {
	var tree RegressionTree
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(tree.Nodes) == 0 {
		return nil, errors.New("artifact contains no model nodes")
	}
	return &tree, nil
}
