package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func leafTree(value float64) *RegressionTree {
	return &RegressionTree{
		Nodes: []TreeNode{
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: value, IsLeaf: true},
		},
	}
}

func branchTree() *RegressionTree {
	// Routes on feature 0: <= 0.5 predicts 10, otherwise 20.
	return &RegressionTree{
		FeatureNames: []string{"a", "b"},
		Nodes: []TreeNode{
			{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 10, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 20, IsLeaf: true},
		},
	}
}

func writeArtifact(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestRegressionTree_Predict(t *testing.T) {
	t.Parallel()

	tree := branchTree()

	cases := []struct {
		name string
		row  []float64
		want float64
	}{
		{"left branch", []float64{0.2, 0}, 10},
		{"boundary goes left", []float64{0.5, 0}, 10},
		{"right branch", []float64{0.9, 0}, 20},
	}
	for _, tc := range cases {
		got, err := tree.Predict(tc.row)
		if err != nil {
			t.Fatalf("%s: Predict returned error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: Predict = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRegressionTree_PredictRowWidthMismatch(t *testing.T) {
	t.Parallel()

	tree := branchTree()
	if _, err := tree.Predict([]float64{1}); err == nil {
		t.Error("expected error for too-narrow row")
	}
	if _, err := tree.Predict([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for too-wide row")
	}
}

func TestRegressionTree_PredictEmptyTree(t *testing.T) {
	t.Parallel()

	tree := &RegressionTree{}
	if _, err := tree.Predict([]float64{1, 2}); err == nil {
		t.Error("expected error for empty tree")
	}
}

func TestRegressionTree_PredictCorruptTree(t *testing.T) {
	t.Parallel()

	// Non-leaf root pointing at itself must not loop forever.
	tree := &RegressionTree{
		Nodes: []TreeNode{{FeatureIdx: 0, Threshold: 1, LeftChild: 0, RightChild: 0}},
	}
	if _, err := tree.Predict([]float64{0}); err == nil {
		t.Error("expected error for cyclic tree")
	}
}

func TestLoadModel_ArtifactShapes(t *testing.T) {
	t.Parallel()

	tree := leafTree(3.5)

	cases := []struct {
		name string
		doc  any
	}{
		{"pipeline with model member", map[string]any{"model": tree}},
		{"pipeline with named steps", map[string]any{"steps": []any{
			[]any{"scaler", map[string]any{}},
			[]any{"regressor", tree},
		}}},
		{"pipeline with bare steps", map[string]any{"steps": []any{tree}}},
		{"bare model", tree},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeArtifact(t, tc.doc)
			m, err := LoadModel(path)
			if err != nil {
				t.Fatalf("LoadModel returned error: %v", err)
			}
			got, err := m.Predict([]float64{})
			if err != nil {
				t.Fatalf("Predict returned error: %v", err)
			}
			if got != 3.5 {
				t.Errorf("Predict = %v, want 3.5", got)
			}
		})
	}
}

func TestLoadModel_ModelMemberWinsOverSteps(t *testing.T) {
	t.Parallel()

	path := writeArtifact(t, map[string]any{
		"model": leafTree(1),
		"steps": []any{[]any{"regressor", leafTree(2)}},
	})
	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel returned error: %v", err)
	}
	got, err := m.Predict([]float64{})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if got != 1 {
		t.Errorf("Predict = %v, want 1 (model member takes priority)", got)
	}
}

func TestLoadModel_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"no recognizable shape", `{"weights": [1, 2, 3]}`},
		{"empty steps model", `{"steps": [["regressor", {"nodes": []}]]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			if err := os.WriteFile(path, []byte(tc.data), 0o600); err != nil {
				t.Fatalf("write artifact: %v", err)
			}
			if _, err := LoadModel(path); err == nil {
				t.Error("expected LoadModel to fail")
			}
		})
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadModel(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if _, ok := err.(*ModelLoadError); !ok {
		t.Errorf("expected *ModelLoadError, got %T", err)
	}
}
