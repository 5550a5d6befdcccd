package engagement

import (
	"math/rand"
)

// Model draws engagement decisions from an injected random source so that
// a seeded run reproduces the same activity stream.
type Model struct {
	rng *rand.Rand
}

func NewModel(seed int64) *Model {
	return &Model{rng: rand.New(rand.NewSource(seed))}
}

// Decay returns the late-term attenuation multiplier for a window at the
// given 0-based position among total windows.
//
// The fraction is pos/total, not pos/(total-1): it never reaches 1.0 at
// the last window. GradeViewProbability below uses the other
// normalization; the mismatch is a preserved behavior of the generated
// statistics, not an oversight.
func Decay(pos, total int, params ArchetypeParams) float64 {
	if total <= 0 {
		return 1.0
	}
	fraction := float64(pos) / float64(total)
	d := 1.0 - params.DecayRate*fraction
	if d < params.DecayFloor {
		return params.DecayFloor
	}
	return d
}

// EngageProbability is the effective probability ShouldEngage rolls
// against: base(class) x diligence x decay, clamped into [0,1].
func EngageProbability(class ActionClass, pos, total int, params ArchetypeParams, diligence float64) float64 {
	base := params.PassiveBase
	if class == ClassActive {
		base = params.ActiveBase
	}
	return clamp01(base * diligence * Decay(pos, total, params))
}

// ShouldEngage decides one action roll for one user at one window
// position. Every roll is independent; the only cross-action correlation
// is the shared diligence scalar and decay curve.
func (m *Model) ShouldEngage(class ActionClass, pos, total int, params ArchetypeParams, diligence float64) bool {
	return m.roll(EngageProbability(class, pos, total, params, diligence))
}

// GradeViewProbability ramps up over the term instead of decaying:
// weight is pos/(total-1), reaching exactly 1.0 at the last window.
// This makes grade checking more common late in the term independent of
// the archetype's general decay curve.
func GradeViewProbability(pos, total int, passiveBase, diligence float64) float64 {
	if total <= 1 {
		return 0
	}
	weight := float64(pos) / float64(total-1)
	return clamp01(passiveBase * diligence * weight)
}

// ShouldViewGrades rolls the late-term grade-view ramp.
func (m *Model) ShouldViewGrades(pos, total int, passiveBase, diligence float64) bool {
	return m.roll(GradeViewProbability(pos, total, passiveBase, diligence))
}

// Roll decides a bare probability, used for instructor-profile rolls which
// have no decay or diligence component.
func (m *Model) Roll(p float64) bool {
	return m.roll(clamp01(p))
}

func (m *Model) roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return m.rng.Float64() <= p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
