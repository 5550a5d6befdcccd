package engagement

// ActionClass is the closed binary classification of every action type:
// active actions submit or create work, passive actions merely view it.
type ActionClass string

const (
	ClassActive  ActionClass = "active"
	ClassPassive ActionClass = "passive"
)

// Action type tags emitted into the run log.
const (
	ActionCourseViewed        = "course_viewed"
	ActionPageViewed          = "page_viewed"
	ActionQuizAttempted       = "quiz_attempted"
	ActionQuizSubmitted       = "quiz_submitted"
	ActionQuizGradeViewed     = "quiz_grade_viewed"
	ActionAssignmentViewed    = "assignment_viewed"
	ActionAssignmentSubmitted = "assignment_submitted"
	ActionThreadRead          = "thread_read"
	ActionThreadReplied       = "thread_replied"
	ActionThreadCreated       = "thread_created"
	ActionAnnouncementRead    = "announcement_read"
	ActionAnnouncementPosted  = "announcement_posted"
	ActionGradesViewed        = "grades_viewed"
	ActionSubmissionGraded    = "submission_graded"
	ActionGradebookViewed     = "gradebook_viewed"
)

var actionClasses = map[string]ActionClass{
	ActionCourseViewed:        ClassPassive,
	ActionPageViewed:          ClassPassive,
	ActionQuizAttempted:       ClassActive,
	ActionQuizSubmitted:       ClassActive,
	ActionQuizGradeViewed:     ClassPassive,
	ActionAssignmentViewed:    ClassPassive,
	ActionAssignmentSubmitted: ClassActive,
	ActionThreadRead:          ClassPassive,
	ActionThreadReplied:       ClassActive,
	ActionThreadCreated:       ClassActive,
	ActionAnnouncementRead:    ClassPassive,
	ActionAnnouncementPosted:  ClassActive,
	ActionGradesViewed:        ClassPassive,
	ActionSubmissionGraded:    ClassActive,
	ActionGradebookViewed:     ClassPassive,
}

// ClassOf derives the action class for a run-log action type. Unknown
// types classify as passive, which is the weaker claim.
func ClassOf(actionType string) ActionClass {
	if c, ok := actionClasses[actionType]; ok {
		return c
	}
	return ClassPassive
}
