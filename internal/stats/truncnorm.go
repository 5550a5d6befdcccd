package stats

import (
	"fmt"
	"math"
	"math/rand"

	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
)

// DefaultMaxIterations bounds the rejection loop in SampleTruncNorm.
const DefaultMaxIterations = 100

// Sampler draws from truncated normal distributions using an injected
// random source, so provisioning is reproducible under a fixed seed.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// SampleTruncNorm draws one variate from N(mean, stddev) truncated to
// [min, max] by rejection. If maxIterations draws all fall outside the
// interval it falls back to clamp(mean, min, max) rather than failing:
// a pathological but valid parameterization must still yield a value.
// The result is rounded to 3 decimal places to match stored precision.
func (s *Sampler) SampleTruncNorm(mean, stddev, min, max float64, maxIterations int) (float64, error) {
	if stddev <= 0 {
		return 0, fmt.Errorf("%w: stddev %v must be positive", pkgerr.ErrMalformedDistribution, stddev)
	}
	if min >= max {
		return 0, fmt.Errorf("%w: min %v must be below max %v", pkgerr.ErrMalformedDistribution, min, max)
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	for i := 0; i < maxIterations; i++ {
		v := mean + s.rng.NormFloat64()*stddev
		if v >= min && v <= max {
			return Round3(v), nil
		}
	}
	return Round3(clamp(mean, min, max)), nil
}

// Round3 rounds to the 3-decimal precision used for persisted scalars.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
