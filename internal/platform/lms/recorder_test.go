package lms

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/repos/testutil"
)

func newTestRecorder(t *testing.T) (*Recorder, repos.RunLogRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	runLog := repos.NewRunLogRepo(db, log)
	return NewRecorder(db, log, runLog, repos.NewDiscussionRepo(db, log)), runLog
}

func TestRecordPersistsDetailAsJSON(t *testing.T) {
	rec, runLog := newTestRecorder(t)
	ctx := context.Background()

	windowID := uuid.New()
	in := actors.ActionInput{
		TermID:         uuid.New(),
		WindowID:       windowID,
		WindowPosition: 3,
		CourseID:       uuid.New(),
		UserID:         uuid.New(),
		ActionType:     engagement.ActionSubmissionGraded,
		TargetAt:       time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC),
		Detail:         map[string]any{"score": 87.0, "subject": "Week 3 recap"},
	}
	if _, err := rec.Record(ctx, in); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rows, err := runLog.ListByWindow(ctx, nil, windowID)
	if err != nil {
		t.Fatalf("ListByWindow: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("run log has %d rows, want 1", len(rows))
	}
	var detail map[string]any
	if err := json.Unmarshal(rows[0].Detail, &detail); err != nil {
		t.Fatalf("unmarshal detail %q: %v", rows[0].Detail, err)
	}
	if detail["score"] != 87.0 {
		t.Fatalf("detail score = %v, want 87", detail["score"])
	}
	if detail["subject"] != "Week 3 recap" {
		t.Fatalf("detail subject = %v", detail["subject"])
	}
}

func TestRecordWithoutDetailLeavesColumnEmpty(t *testing.T) {
	rec, runLog := newTestRecorder(t)
	ctx := context.Background()

	windowID := uuid.New()
	in := actors.ActionInput{
		TermID:     uuid.New(),
		WindowID:   windowID,
		CourseID:   uuid.New(),
		UserID:     uuid.New(),
		ActionType: engagement.ActionPageViewed,
		TargetAt:   time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
	}
	if _, err := rec.Record(ctx, in); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rows, err := runLog.ListByWindow(ctx, nil, windowID)
	if err != nil {
		t.Fatalf("ListByWindow: %v", err)
	}
	if len(rows) != 1 || len(rows[0].Detail) != 0 {
		t.Fatalf("rows = %d, detail = %q, want one row with no detail", len(rows), rows[0].Detail)
	}
}
