package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/types"
)

// Recorder is the default ActionRecorder binding: run-log rows plus
// thread read-state.
type Recorder struct {
	db          *gorm.DB
	log         *logger.Logger
	runLog      repos.RunLogRepo
	discussions repos.DiscussionRepo
	now         func() time.Time
}

func NewRecorder(db *gorm.DB, baseLog *logger.Logger, runLog repos.RunLogRepo, discussions repos.DiscussionRepo) *Recorder {
	return &Recorder{
		db:          db,
		log:         baseLog.With("platform", "lms.Recorder"),
		runLog:      runLog,
		discussions: discussions,
		now:         time.Now,
	}
}

// Record appends one ground-truth row. The action class is derived from
// the action type here so callers can never desync the two.
func (r *Recorder) Record(ctx context.Context, in actors.ActionInput) (uuid.UUID, error) {
	var detail datatypes.JSON
	if len(in.Detail) > 0 {
		raw, err := json.Marshal(in.Detail)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal action detail: %w", err)
		}
		detail = datatypes.JSON(raw)
	}
	entry := &types.RunLogEntry{
		TermID:         in.TermID,
		WindowID:       in.WindowID,
		WindowPosition: in.WindowPosition,
		CourseID:       in.CourseID,
		UserID:         in.UserID,
		ActionType:     in.ActionType,
		ActionClass:    string(engagement.ClassOf(in.ActionType)),
		ObjectID:       in.ObjectID,
		RelatedUserID:  in.RelatedUserID,
		TargetAt:       in.TargetAt,
		Outcome:        in.Outcome,
		Detail:         detail,
	}
	created, err := r.runLog.Append(ctx, nil, entry)
	if err != nil {
		return uuid.Nil, fmt.Errorf("append run log: %w", err)
	}
	return created.ID, nil
}

func (r *Recorder) MarkThreadRead(ctx context.Context, threadID, userID uuid.UUID) error {
	return r.discussions.MarkRead(ctx, nil, threadID, userID, r.now())
}
