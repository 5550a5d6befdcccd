package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/stats"
	"github.com/yungbote/campussim-backend/internal/types"
)

// ProvisionService builds a term's simulated population and course
// content. Every step is idempotent: provisioning the same term twice
// returns the existing rows, and in particular never regenerates a
// learner's diligence scalar.
type ProvisionService interface {
	EnsureTermPool(ctx context.Context, term *types.Term, profile courseprofile.TermProfile) error
}

type provisionService struct {
	db          *gorm.DB
	log         *logger.Logger
	users       repos.SimUserRepo
	profiles    repos.LearnerProfileRepo
	enrollments repos.EnrollmentRepo
	courses     repos.CourseRepo
	activities  repos.ActivityRepo
	sampler     *stats.Sampler
	rng         *rand.Rand
}

func NewProvisionService(db *gorm.DB, baseLog *logger.Logger, users repos.SimUserRepo, profiles repos.LearnerProfileRepo, enrollments repos.EnrollmentRepo, courses repos.CourseRepo, activities repos.ActivityRepo, sampler *stats.Sampler, seed int64) ProvisionService {
	return &provisionService{
		db:          db,
		log:         baseLog.With("service", "ProvisionService"),
		users:       users,
		profiles:    profiles,
		enrollments: enrollments,
		courses:     courses,
		activities:  activities,
		sampler:     sampler,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *provisionService) EnsureTermPool(ctx context.Context, term *types.Term, profile courseprofile.TermProfile) error {
	for c := 1; c <= profile.Courses; c++ {
		course, err := s.ensureCourse(ctx, term, profile, c)
		if err != nil {
			return err
		}
		if err := s.ensureStudents(ctx, term, profile, course, c); err != nil {
			return err
		}
		if err := s.ensureInstructors(ctx, term, profile, course, c); err != nil {
			return err
		}
	}
	s.log.Info("term pool provisioned", "term_id", term.ID, "courses", profile.Courses)
	return nil
}

func (s *provisionService) ensureCourse(ctx context.Context, term *types.Term, profile courseprofile.TermProfile, index int) (*types.Course, error) {
	code := fmt.Sprintf("%s-C%02d", term.WeekAnchor, index)
	course, err := s.courses.GetByTermAndCode(ctx, nil, term.ID, code)
	if err != nil {
		return nil, fmt.Errorf("lookup course %s: %w", code, err)
	}
	if course == nil {
		course, err = s.courses.Create(ctx, nil, &types.Course{
			TermID: term.ID,
			Code:   code,
			Title:  fmt.Sprintf("Simulated Course %02d (%s)", index, term.WeekAnchor),
		})
		if err != nil {
			return nil, fmt.Errorf("create course %s: %w", code, err)
		}
	}
	n, err := s.activities.CountByCourse(ctx, nil, course.ID)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return course, nil
	}

	var rows []*types.CourseActivity
	for section := 1; section <= profile.Sections; section++ {
		ordinal := 1
		add := func(kind, title string, count int) {
			for i := 1; i <= count; i++ {
				rows = append(rows, &types.CourseActivity{
					CourseID: course.ID,
					Section:  section,
					Ordinal:  ordinal,
					Kind:     kind,
					Title:    fmt.Sprintf("%s %d.%d", title, section, i),
				})
				ordinal++
			}
		}
		add(types.ActivityKindPage, "Reading", profile.PagesPerSection)
		add(types.ActivityKindQuiz, "Quiz", profile.QuizzesPerSection)
		add(types.ActivityKindAssignment, "Assignment", profile.AssignmentsPerSection)
		add(types.ActivityKindForum, "Discussion Forum", profile.ForumsPerSection)
	}
	// Section 0 holds the course-level reserved announcements forum.
	announcements := &types.CourseActivity{
		CourseID: course.ID,
		Section:  0,
		Ordinal:  1,
		Kind:     types.ActivityKindForum,
		Title:    "Announcements",
	}
	rows = append(rows, announcements)
	if _, err := s.activities.CreateBatch(ctx, nil, rows); err != nil {
		return nil, fmt.Errorf("create activities: %w", err)
	}
	if err := s.courses.SetAnnouncementsForum(ctx, nil, course.ID, announcements.ID); err != nil {
		return nil, fmt.Errorf("set announcements forum: %w", err)
	}
	return course, nil
}

func (s *provisionService) ensureStudents(ctx context.Context, term *types.Term, profile courseprofile.TermProfile, course *types.Course, courseIndex int) error {
	for i := 1; i <= profile.StudentsPerCourse; i++ {
		username := fmt.Sprintf("student_%s_c%02d_%02d", strings.ToLower(term.WeekAnchor), courseIndex, i)
		user, err := s.ensureUser(ctx, username, fmt.Sprintf("Student %02d-%02d", courseIndex, i))
		if err != nil {
			return err
		}
		if err := s.enrollments.CreateIfAbsent(ctx, nil, &types.Enrollment{
			CourseID: course.ID,
			UserID:   user.ID,
			Role:     types.EnrollmentRoleStudent,
		}); err != nil {
			return fmt.Errorf("enroll student %s: %w", username, err)
		}
		if err := s.ensureLearnerProfile(ctx, user.ID, profile.ArchetypeWeights); err != nil {
			return err
		}
	}
	return nil
}

func (s *provisionService) ensureInstructors(ctx context.Context, term *types.Term, profile courseprofile.TermProfile, course *types.Course, courseIndex int) error {
	for i := 1; i <= profile.InstructorsPerCourse; i++ {
		username := fmt.Sprintf("instructor_%s_c%02d_%02d", strings.ToLower(term.WeekAnchor), courseIndex, i)
		user, err := s.ensureUser(ctx, username, fmt.Sprintf("Instructor %02d-%02d", courseIndex, i))
		if err != nil {
			return err
		}
		mix := profile.InstructorMix
		behavior := engagement.InstructorResponsive
		if len(mix) > 0 {
			behavior = mix[(i-1)%len(mix)]
		}
		if err := s.enrollments.CreateIfAbsent(ctx, nil, &types.Enrollment{
			CourseID:          course.ID,
			UserID:            user.ID,
			Role:              types.EnrollmentRoleInstructor,
			InstructorProfile: behavior,
		}); err != nil {
			return fmt.Errorf("enroll instructor %s: %w", username, err)
		}
	}
	return nil
}

func (s *provisionService) ensureUser(ctx context.Context, username, displayName string) (*types.SimUser, error) {
	user, err := s.users.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", username, err)
	}
	if user != nil {
		return user, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err = s.users.Create(ctx, nil, &types.SimUser{
		Username:     username,
		Email:        username + "@campussim.invalid",
		DisplayName:  displayName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// ensureLearnerProfile lazily assigns the student's archetype and draws
// the diligence scalar. CreateIfAbsent guarantees an existing student
// keeps the scalar first drawn for them.
func (s *provisionService) ensureLearnerProfile(ctx context.Context, userID uuid.UUID, weights map[string]float64) error {
	existing, err := s.profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("lookup learner profile: %w", err)
	}
	if existing != nil {
		return nil
	}
	tag := s.pickArchetype(weights)
	params, err := engagement.ParamsFor(tag)
	if err != nil {
		return err
	}
	diligence, err := s.sampler.SampleTruncNorm(
		params.DiligenceMean, params.DiligenceStdDev,
		params.DiligenceMin, params.DiligenceMax,
		stats.DefaultMaxIterations)
	if err != nil {
		return fmt.Errorf("draw diligence for %s: %w", tag, err)
	}
	if _, err := s.profiles.CreateIfAbsent(ctx, nil, &types.LearnerProfile{
		UserID:    userID,
		Archetype: tag,
		Diligence: diligence,
	}); err != nil {
		return fmt.Errorf("create learner profile: %w", err)
	}
	return nil
}

func (s *provisionService) pickArchetype(weights map[string]float64) string {
	if len(weights) == 0 {
		return engagement.ArchetypeStandard
	}
	tags := make([]string, 0, len(weights))
	total := 0.0
	for tag, w := range weights {
		if w > 0 {
			tags = append(tags, tag)
			total += w
		}
	}
	if len(tags) == 0 || total <= 0 {
		return engagement.ArchetypeStandard
	}
	sort.Strings(tags)
	draw := s.rng.Float64() * total
	acc := 0.0
	for _, tag := range tags {
		acc += weights[tag]
		if draw <= acc {
			return tag
		}
	}
	return tags[len(tags)-1]
}
