package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/types"
)

func SeedUser(tb testing.TB, db *gorm.DB, username string) *types.SimUser {
	tb.Helper()
	u := &types.SimUser{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@campussim.invalid",
		DisplayName:  username,
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTerm(tb testing.TB, db *gorm.DB, profileKey string, startAt time.Time, status string) *types.Term {
	tb.Helper()
	year, week := startAt.ISOWeek()
	term := &types.Term{
		ID:         uuid.New(),
		Name:       "term " + profileKey,
		ProfileKey: profileKey,
		WeekAnchor: fmt.Sprintf("%d-W%02d", year, week),
		StartAt:    startAt,
		EndAt:      startAt.AddDate(0, 0, 28),
		Status:     status,
	}
	if err := db.Create(term).Error; err != nil {
		tb.Fatalf("seed term: %v", err)
	}
	return term
}

func SeedWindow(tb testing.TB, db *gorm.DB, termID uuid.UUID, periodIndex int, scheduledAt time.Time, status string) *types.TermWindow {
	tb.Helper()
	w := &types.TermWindow{
		ID:          uuid.New(),
		TermID:      termID,
		PeriodIndex: periodIndex,
		WindowKey:   "am",
		Label:       "window",
		ScheduledAt: scheduledAt,
		Status:      status,
	}
	if err := db.Create(w).Error; err != nil {
		tb.Fatalf("seed window: %v", err)
	}
	return w
}

func SeedCourse(tb testing.TB, db *gorm.DB, termID uuid.UUID, code string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:     uuid.New(),
		TermID: termID,
		Code:   code,
		Title:  "Course " + code,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedActivity(tb testing.TB, db *gorm.DB, courseID uuid.UUID, section, ordinal int, kind string) *types.CourseActivity {
	tb.Helper()
	a := &types.CourseActivity{
		ID:       uuid.New(),
		CourseID: courseID,
		Section:  section,
		Ordinal:  ordinal,
		Kind:     kind,
		Title:    kind,
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, courseID, userID uuid.UUID, role, instructorProfile string) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:                uuid.New(),
		CourseID:          courseID,
		UserID:            userID,
		Role:              role,
		InstructorProfile: instructorProfile,
	}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedThread(tb testing.TB, db *gorm.DB, forumID, courseID uuid.UUID, authorID *uuid.UUID) *types.DiscussionThread {
	tb.Helper()
	th := &types.DiscussionThread{
		ID:       uuid.New(),
		ForumID:  forumID,
		CourseID: courseID,
		AuthorID: authorID,
		Subject:  "subject",
		Body:     "body",
	}
	if err := db.Create(th).Error; err != nil {
		tb.Fatalf("seed thread: %v", err)
	}
	return th
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
