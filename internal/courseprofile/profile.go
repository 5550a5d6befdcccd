package courseprofile

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/campussim-backend/internal/engagement"
	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
)

// WindowSlot is one simulation slot per day of the term, e.g. "am"/"pm".
type WindowSlot struct {
	Key    string `yaml:"key"`
	Label  string `yaml:"label"`
	Hour   int    `yaml:"hour"`
	Minute int    `yaml:"minute"`
}

// TermProfile shapes everything a term derives at creation time: the
// window schedule, the course/section layout, and the simulated
// population. Profiles are immutable once registered; a term never
// re-reads its profile after its schedule is generated.
type TermProfile struct {
	Key                   string             `yaml:"key"`
	Name                  string             `yaml:"name"`
	Days                  int                `yaml:"days"`
	Slots                 []WindowSlot       `yaml:"slots"`
	Sections              int                `yaml:"sections"`
	Courses               int                `yaml:"courses"`
	StudentsPerCourse     int                `yaml:"students_per_course"`
	InstructorsPerCourse  int                `yaml:"instructors_per_course"`
	InstructorMix         []string           `yaml:"instructor_mix"`
	ArchetypeWeights      map[string]float64 `yaml:"archetype_weights"`
	PagesPerSection       int                `yaml:"pages_per_section"`
	QuizzesPerSection     int                `yaml:"quizzes_per_section"`
	AssignmentsPerSection int                `yaml:"assignments_per_section"`
	ForumsPerSection      int                `yaml:"forums_per_section"`
}

// TotalWindows is the immutable window count the profile generates.
func (p TermProfile) TotalWindows() int {
	return p.Days * len(p.Slots)
}

// SectionForPeriod maps a 1-based day-of-term onto a 1-based section,
// spreading the term's days evenly across sections.
func (p TermProfile) SectionForPeriod(periodIndex int) int {
	if p.Sections <= 1 || p.Days <= 0 {
		return 1
	}
	section := ((periodIndex - 1) * p.Sections / p.Days) + 1
	if section > p.Sections {
		section = p.Sections
	}
	return section
}

// ScheduledWindow is one generated slot of the term schedule.
type ScheduledWindow struct {
	PeriodIndex int
	Key         string
	Label       string
	At          time.Time
}

// Schedule generates the full window schedule from the profile, one slot
// per day per WindowSlot, in chronological order. This runs exactly once
// per term, at creation.
func (p TermProfile) Schedule(start time.Time) []ScheduledWindow {
	out := make([]ScheduledWindow, 0, p.TotalWindows())
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for d := 1; d <= p.Days; d++ {
		for _, slot := range p.Slots {
			out = append(out, ScheduledWindow{
				PeriodIndex: d,
				Key:         slot.Key,
				Label:       fmt.Sprintf("Day %d %s", d, slot.Label),
				At:          day.AddDate(0, 0, d-1).Add(time.Duration(slot.Hour)*time.Hour + time.Duration(slot.Minute)*time.Minute),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// EndAt derives the term end from its start.
func (p TermProfile) EndAt(start time.Time) time.Time {
	return start.AddDate(0, 0, p.Days)
}

func (p TermProfile) validate() error {
	if p.Key == "" {
		return fmt.Errorf("%w: profile key required", pkgerr.ErrInvalidArgument)
	}
	if p.Days <= 0 || len(p.Slots) == 0 {
		return fmt.Errorf("%w: profile %q needs days and slots", pkgerr.ErrInvalidArgument, p.Key)
	}
	if p.Sections <= 0 || p.Courses <= 0 {
		return fmt.Errorf("%w: profile %q needs sections and courses", pkgerr.ErrInvalidArgument, p.Key)
	}
	for tag := range p.ArchetypeWeights {
		if _, err := engagement.ParamsFor(tag); err != nil {
			return fmt.Errorf("profile %q: %w", p.Key, err)
		}
	}
	return nil
}

// Registry resolves term profiles by key: built-ins plus an optional YAML
// overlay. Profile lookup is a hard-fail, mirroring the archetype factory.
type Registry struct {
	profiles map[string]TermProfile
}

func NewRegistry() *Registry {
	r := &Registry{profiles: map[string]TermProfile{}}
	for _, p := range builtinProfiles() {
		r.profiles[p.Key] = p
	}
	return r
}

// LoadOverlay merges profiles from a YAML file over the built-ins.
// Overlay entries fully replace a built-in with the same key.
func (r *Registry) LoadOverlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile overlay: %w", err)
	}
	var doc struct {
		Profiles []TermProfile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse profile overlay: %w", err)
	}
	for _, p := range doc.Profiles {
		if err := p.validate(); err != nil {
			return err
		}
		r.profiles[p.Key] = p
	}
	return nil
}

// ProfileFor resolves a profile key. Unknown keys are a configuration
// error, never a silent default.
func (r *Registry) ProfileFor(key string) (TermProfile, error) {
	p, ok := r.profiles[key]
	if !ok {
		return TermProfile{}, fmt.Errorf("%w: %q", pkgerr.ErrUnknownProfile, key)
	}
	return p, nil
}

// Keys lists registered profile keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func builtinProfiles() []TermProfile {
	amPM := []WindowSlot{
		{Key: "am", Label: "Morning", Hour: 9},
		{Key: "pm", Label: "Afternoon", Hour: 15},
	}
	defaultWeights := map[string]float64{
		engagement.ArchetypeOverachiever: 0.15,
		engagement.ArchetypeStandard:     0.55,
		engagement.ArchetypeIntermittent: 0.20,
		engagement.ArchetypeFailing:      0.10,
	}
	return []TermProfile{
		{
			Key:                   "standard_term",
			Name:                  "Standard four-week term",
			Days:                  28,
			Slots:                 amPM,
			Sections:              4,
			Courses:               3,
			StudentsPerCourse:     12,
			InstructorsPerCourse:  2,
			InstructorMix:         []string{engagement.InstructorResponsive, engagement.InstructorDelayed},
			ArchetypeWeights:      defaultWeights,
			PagesPerSection:       2,
			QuizzesPerSection:     1,
			AssignmentsPerSection: 1,
			ForumsPerSection:      1,
		},
		{
			Key:                   "short_term",
			Name:                  "Short one-week term",
			Days:                  5,
			Slots:                 amPM,
			Sections:              2,
			Courses:               2,
			StudentsPerCourse:     6,
			InstructorsPerCourse:  1,
			InstructorMix:         []string{engagement.InstructorResponsive},
			ArchetypeWeights:      defaultWeights,
			PagesPerSection:       1,
			QuizzesPerSection:     1,
			AssignmentsPerSection: 1,
			ForumsPerSection:      1,
		},
		{
			Key:                   "smoke_term",
			Name:                  "Two-day smoke term",
			Days:                  2,
			Slots:                 []WindowSlot{{Key: "noon", Label: "Midday", Hour: 12}},
			Sections:              1,
			Courses:               1,
			StudentsPerCourse:     3,
			InstructorsPerCourse:  1,
			InstructorMix:         []string{engagement.InstructorResponsive},
			ArchetypeWeights:      defaultWeights,
			PagesPerSection:       1,
			QuizzesPerSection:     1,
			AssignmentsPerSection: 1,
			ForumsPerSection:      1,
		},
	}
}
