// Package predictor provides the pre-trained score model behind the
// prediction service. The model is opaque to callers: it receives one
// FeatureRow and returns a scalar.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wicketline/score-predictor/internal/models"
)

// LinearArtifact is the on-disk model: one-hot encoded categoricals with a
// dropped reference level, plus linear numeric terms.
type LinearArtifact struct {
	Name        string                        `json:"name"`
	Version     string                        `json:"version"`
	Intercept   float64                       `json:"intercept"`
	Categorical map[string]map[string]float64 `json:"categorical"`
	Reference   map[string]string             `json:"reference"`
	Numeric     map[string]float64            `json:"numeric"`
}

var (
	categoricalColumns = []string{"batting_team", "bowling_team", "city"}
	numericColumns     = []string{"current_score", "balls_left", "wicket_left", "current_run_rate", "last_five"}
)

// LinearModel is read-only after load and safe for concurrent use
type LinearModel struct {
	artifact LinearArtifact
	name     string
}

// LoadLinearModel reads and validates a JSON artifact
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact LinearArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	return NewLinearModel(artifact)
}

// NewLinearModel validates the artifact schema against the feature columns
func NewLinearModel(artifact LinearArtifact) (*LinearModel, error) {
	if err := checkColumns("numeric", keys(artifact.Numeric), numericColumns); err != nil {
		return nil, err
	}
	if err := checkColumns("categorical", keys(artifact.Categorical), categoricalColumns); err != nil {
		return nil, err
	}

	name := artifact.Name
	if name == "" {
		name = "linear"
	}
	if artifact.Version != "" {
		name += "@" + artifact.Version
	}

	return &LinearModel{artifact: artifact, name: name}, nil
}

func (m *LinearModel) Name() string { return m.name }

// Predict returns intercept + one-hot weights + numeric weights
func (m *LinearModel) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	total := m.artifact.Intercept

	categorical := row.CategoricalFeatures()
	for _, column := range categoricalColumns {
		value := categorical[column]
		weight, ok := m.artifact.Categorical[column][value]
		if !ok {
			if ref, hasRef := m.artifact.Reference[column]; !hasRef || ref != value {
				return 0, fmt.Errorf("found unknown category %q in column %s during transform", value, column)
			}
		}
		total += weight
	}

	numeric := row.NumericFeatures()
	for _, column := range numericColumns {
		total += m.artifact.Numeric[column] * numeric[column]
	}

	return total, nil
}

func checkColumns(kind string, got, want []string) error {
	sort.Strings(got)
	expected := append([]string(nil), want...)
	sort.Strings(expected)

	if strings.Join(got, ",") != strings.Join(expected, ",") {
		return fmt.Errorf("model artifact %s columns [%s] do not match features [%s]",
			kind, strings.Join(got, ", "), strings.Join(expected, ", "))
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
