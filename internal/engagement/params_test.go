package engagement

import (
	"errors"
	"testing"

	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
)

func TestParamsForKnownTags(t *testing.T) {
	for _, tag := range Archetypes() {
		p, err := ParamsFor(tag)
		if err != nil {
			t.Fatalf("ParamsFor(%s): %v", tag, err)
		}
		if p.Tag != tag {
			t.Fatalf("ParamsFor(%s) returned tag %q", tag, p.Tag)
		}
		if p.PassiveBase < p.ActiveBase {
			t.Fatalf("%s: passive base %v below active base %v", tag, p.PassiveBase, p.ActiveBase)
		}
		if p.DiligenceMin >= p.DiligenceMax {
			t.Fatalf("%s: diligence bounds [%v, %v] are inverted", tag, p.DiligenceMin, p.DiligenceMax)
		}
	}
}

func TestParamsForUnknownTagHardFails(t *testing.T) {
	_, err := ParamsFor("slacker")
	if err == nil {
		t.Fatal("expected an error for an unknown archetype")
	}
	if !errors.Is(err, pkgerr.ErrUnknownArchetype) {
		t.Fatalf("error %v does not wrap ErrUnknownArchetype", err)
	}
}

func TestArchetypeOrderingIsMonotone(t *testing.T) {
	// Archetypes() is ordered from most to least engaged; the base
	// probabilities must follow.
	tags := Archetypes()
	for i := 1; i < len(tags); i++ {
		hi, _ := ParamsFor(tags[i-1])
		lo, _ := ParamsFor(tags[i])
		if hi.PassiveBase <= lo.PassiveBase || hi.ActiveBase <= lo.ActiveBase {
			t.Fatalf("%s should be strictly more engaged than %s", tags[i-1], tags[i])
		}
		if hi.DiligenceMean <= lo.DiligenceMean {
			t.Fatalf("%s diligence mean should exceed %s", tags[i-1], tags[i])
		}
	}
}

func TestFailingArchetypeSkipsForums(t *testing.T) {
	p, err := ParamsFor(ArchetypeFailing)
	if err != nil {
		t.Fatalf("ParamsFor: %v", err)
	}
	if p.MaxForumReads != 0 {
		t.Fatalf("failing MaxForumReads = %d, want 0", p.MaxForumReads)
	}
}

func TestInstructorProfileForDefaultsSilently(t *testing.T) {
	// Unlike ParamsFor, unknown instructor names fall back to responsive.
	got := InstructorProfileFor("sabbatical")
	want := InstructorProfileFor(InstructorResponsive)
	if got != want {
		t.Fatalf("unknown instructor profile = %+v, want responsive fallback", got)
	}
	if got.Name != InstructorResponsive {
		t.Fatalf("fallback profile name = %q", got.Name)
	}
	delayed := InstructorProfileFor(InstructorDelayed)
	if delayed.Name != InstructorDelayed || delayed.Announce >= want.Announce {
		t.Fatalf("delayed profile %+v should announce less than responsive", delayed)
	}
}

func TestClassOf(t *testing.T) {
	if ClassOf(ActionQuizSubmitted) != ClassActive {
		t.Fatal("quiz_submitted should classify active")
	}
	if ClassOf(ActionThreadRead) != ClassPassive {
		t.Fatal("thread_read should classify passive")
	}
	if ClassOf("made_up_action") != ClassPassive {
		t.Fatal("unknown action types should classify passive")
	}
}
