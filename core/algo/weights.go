package algo

import (
	"fmt"
	"maps"
	"math"

	"github.com/huangsam/gitpulse/schema"
)

// WeightTolerance is how far a weight set may drift from 1.0.
const WeightTolerance = 0.001

// Weights is a validated set of composite weights for one engine.
type Weights struct {
	engine schema.EngineName
	values map[schema.SubScoreKey]float64
}

// NewWeights validates that the weights cover every sub-score of the engine,
// are non-negative, and sum to 1.
func NewWeights(engine schema.EngineName, values map[schema.SubScoreKey]float64) (Weights, error) {
	keys := schema.SubScoreKeys(engine)
	if keys == nil {
		return Weights{}, fmt.Errorf("unknown engine %q", engine)
	}
	if len(values) != len(keys) {
		return Weights{}, fmt.Errorf("%s weights must define %d sub-scores, got %d", engine, len(keys), len(values))
	}
	sum := 0.0
	for _, key := range keys {
		w, ok := values[key]
		if !ok {
			return Weights{}, fmt.Errorf("%s weights are missing %q", engine, key)
		}
		if w < 0 || math.IsNaN(w) {
			return Weights{}, fmt.Errorf("%s weight %q must be non-negative, got %v", engine, key, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return Weights{}, fmt.Errorf("%s weights must sum to 1.0, got %.3f", engine, sum)
	}
	return Weights{engine: engine, values: maps.Clone(values)}, nil
}

// MustWeights is NewWeights that panics on invalid input.
func MustWeights(engine schema.EngineName, values map[schema.SubScoreKey]float64) Weights {
	w, err := NewWeights(engine, values)
	if err != nil {
		panic(err)
	}
	return w
}

// DefaultWeights returns the built-in weights of an engine.
func DefaultWeights(engine schema.EngineName) Weights {
	return MustWeights(engine, schema.GetDefaultWeights(engine))
}

// Engine returns the engine the weights belong to.
func (w Weights) Engine() schema.EngineName {
	return w.engine
}

// Map returns a copy of the weight values.
func (w Weights) Map() map[schema.SubScoreKey]float64 {
	return maps.Clone(w.values)
}

// Composite clamps every sub-score, then returns the clamped sub-scores and
// their rounded weighted sum.
func (w Weights) Composite(subScores map[schema.SubScoreKey]float64) (map[schema.SubScoreKey]float64, float64) {
	clamped := make(map[schema.SubScoreKey]float64, len(w.values))
	total := 0.0
	for _, key := range schema.SubScoreKeys(w.engine) {
		v := Clamp(subScores[key])
		clamped[key] = v
		total += v * w.values[key]
	}
	return clamped, Clamp(Round(total))
}
