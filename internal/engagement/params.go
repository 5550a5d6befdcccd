package engagement

import (
	"fmt"

	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
)

const (
	ArchetypeOverachiever = "overachiever"
	ArchetypeStandard     = "standard"
	ArchetypeIntermittent = "intermittent"
	ArchetypeFailing      = "failing"
)

// UnlimitedForumReads disables the per-window cap on the forum reply path.
const UnlimitedForumReads = -1

// ArchetypeParams is the full behavior tuple for one learner archetype.
// The archetype set is closed; there is no behavioral variation beyond
// this data, so archetypes are rows in a table rather than a type
// hierarchy. The diligence distribution fields are consumed once, at
// provisioning time, by the truncated-normal sampler.
type ArchetypeParams struct {
	Tag             string
	PassiveBase     float64
	ActiveBase      float64
	DecayRate       float64
	DecayFloor      float64
	MaxForumReads   int
	DiligenceMean   float64
	DiligenceStdDev float64
	DiligenceMin    float64
	DiligenceMax    float64
}

var archetypeTable = map[string]ArchetypeParams{
	ArchetypeOverachiever: {
		Tag:             ArchetypeOverachiever,
		PassiveBase:     0.95,
		ActiveBase:      0.85,
		DecayRate:       0.10,
		DecayFloor:      0.90,
		MaxForumReads:   UnlimitedForumReads,
		DiligenceMean:   0.92,
		DiligenceStdDev: 0.05,
		DiligenceMin:    0.80,
		DiligenceMax:    1.00,
	},
	ArchetypeStandard: {
		Tag:             ArchetypeStandard,
		PassiveBase:     0.80,
		ActiveBase:      0.55,
		DecayRate:       0.35,
		DecayFloor:      0.50,
		MaxForumReads:   2,
		DiligenceMean:   0.73,
		DiligenceStdDev: 0.08,
		DiligenceMin:    0.60,
		DiligenceMax:    0.85,
	},
	ArchetypeIntermittent: {
		Tag:             ArchetypeIntermittent,
		PassiveBase:     0.60,
		ActiveBase:      0.30,
		DecayRate:       0.60,
		DecayFloor:      0.25,
		MaxForumReads:   1,
		DiligenceMean:   0.50,
		DiligenceStdDev: 0.10,
		DiligenceMin:    0.30,
		DiligenceMax:    0.65,
	},
	ArchetypeFailing: {
		Tag:             ArchetypeFailing,
		PassiveBase:     0.45,
		ActiveBase:      0.15,
		DecayRate:       0.80,
		DecayFloor:      0.05,
		MaxForumReads:   0,
		DiligenceMean:   0.20,
		DiligenceStdDev: 0.08,
		DiligenceMin:    0.05,
		DiligenceMax:    0.35,
	},
}

// ParamsFor resolves a learner archetype tag. Unknown tags are a hard
// configuration error; substituting a default here would silently change
// generated-data statistics. Contrast InstructorProfileFor, which defaults
// on purpose.
func ParamsFor(tag string) (ArchetypeParams, error) {
	p, ok := archetypeTable[tag]
	if !ok {
		return ArchetypeParams{}, fmt.Errorf("%w: %q", pkgerr.ErrUnknownArchetype, tag)
	}
	return p, nil
}

// Archetypes returns the closed tag set in a fixed order.
func Archetypes() []string {
	return []string{
		ArchetypeOverachiever,
		ArchetypeStandard,
		ArchetypeIntermittent,
		ArchetypeFailing,
	}
}

const (
	InstructorResponsive   = "responsive"
	InstructorDelayed      = "delayed"
	InstructorUnresponsive = "unresponsive"
)

// InstructorProfile is the per-window probability tuple driving the
// instructor actor.
type InstructorProfile struct {
	Name         string
	Announce     float64
	ReadThread   float64
	ReplyPerRead float64
	Grade        float64
}

var instructorTable = map[string]InstructorProfile{
	InstructorResponsive: {
		Name:         InstructorResponsive,
		Announce:     0.90,
		ReadThread:   0.90,
		ReplyPerRead: 0.75,
		Grade:        0.85,
	},
	InstructorDelayed: {
		Name:         InstructorDelayed,
		Announce:     0.50,
		ReadThread:   0.50,
		ReplyPerRead: 0.35,
		Grade:        0.45,
	},
	InstructorUnresponsive: {
		Name:         InstructorUnresponsive,
		Announce:     0.15,
		ReadThread:   0.20,
		ReplyPerRead: 0.10,
		Grade:        0.15,
	},
}

// InstructorProfileFor resolves an instructor profile name, silently
// falling back to responsive for unknown names. The asymmetry with
// ParamsFor is deliberate and kept as two separate lookups so it stays
// visible in code.
func InstructorProfileFor(name string) InstructorProfile {
	if p, ok := instructorTable[name]; ok {
		return p
	}
	return instructorTable[InstructorResponsive]
}
