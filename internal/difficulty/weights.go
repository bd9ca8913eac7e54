package difficulty

import (
	"fmt"
	"math"

	"github.com/heartmarshall/wordpipe/internal/domain"
)

// Weights are the relative contributions of the four components.
type Weights struct {
	Frequency  float64 `yaml:"frequency"`
	Semantic   float64 `yaml:"semantic"`
	Structural float64 `yaml:"structural"`
	Domain     float64 `yaml:"domain"`
}

// DefaultWeights favour frequency.
var DefaultWeights = Weights{Frequency: 0.45, Semantic: 0.20, Structural: 0.20, Domain: 0.15}

// Normalize validates w and scales it to sum to 1.
func (w Weights) Normalize() (Weights, error) {
	for _, v := range []float64{w.Frequency, w.Semantic, w.Structural, w.Domain} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, fmt.Errorf("difficulty: weights must be finite and >= 0 (got %+v)", w)
		}
	}
	sum := w.Frequency + w.Semantic + w.Structural + w.Domain
	if sum == 0 {
		return Weights{}, fmt.Errorf("difficulty: at least one weight must be > 0")
	}
	return Weights{
		Frequency:  w.Frequency / sum,
		Semantic:   w.Semantic / sum,
		Structural: w.Structural / sum,
		Domain:     w.Domain / sum,
	}, nil
}

func (w Weights) combine(c domain.Components) float64 {
	return w.Frequency*c.Frequency + w.Semantic*c.Semantic + w.Structural*c.Structural + w.Domain*c.Domain
}
