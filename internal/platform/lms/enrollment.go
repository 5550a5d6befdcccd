package lms

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/types"
)

// Directory is the default EnrollmentDirectory binding.
type Directory struct {
	db          *gorm.DB
	log         *logger.Logger
	enrollments repos.EnrollmentRepo
}

func NewDirectory(db *gorm.DB, baseLog *logger.Logger, enrollments repos.EnrollmentRepo) *Directory {
	return &Directory{
		db:          db,
		log:         baseLog.With("platform", "lms.Directory"),
		enrollments: enrollments,
	}
}

func (d *Directory) Students(ctx context.Context, courseID uuid.UUID) ([]actors.MemberRef, error) {
	return d.list(ctx, courseID, types.EnrollmentRoleStudent)
}

func (d *Directory) Instructors(ctx context.Context, courseID uuid.UUID) ([]actors.MemberRef, error) {
	return d.list(ctx, courseID, types.EnrollmentRoleInstructor)
}

func (d *Directory) list(ctx context.Context, courseID uuid.UUID, role string) ([]actors.MemberRef, error) {
	rows, err := d.enrollments.ListByCourseRole(ctx, nil, courseID, role)
	if err != nil {
		return nil, fmt.Errorf("list %s enrollments: %w", role, err)
	}
	out := make([]actors.MemberRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, actors.MemberRef{
			UserID:            row.UserID,
			InstructorProfile: row.InstructorProfile,
		})
	}
	return out, nil
}
