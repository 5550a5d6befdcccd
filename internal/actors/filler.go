package actors

import (
	"fmt"

	"github.com/google/uuid"
)

// Generated content is semantically meaningless by design; only timing,
// authorship and action-type metadata matter to the analytics under test.

var fillerSubjects = []string{
	"Question about this week's material",
	"Clarification on the reading",
	"Thoughts on the last lecture",
	"Stuck on the practice problems",
	"Sharing a useful resource",
	"Study group for the upcoming quiz",
}

var fillerBodies = []string{
	"Could someone expand on the point raised in the overview? I am not sure I follow the argument.",
	"I found the second half of the material easier than the first. Does anyone else feel the same?",
	"Posting this here so I remember to come back to it before the assessment.",
	"Here is a summary of what I understood so far. Corrections welcome.",
	"I think the example in the notes has a typo, or I am misreading it.",
}

func fillerSubject(seed uuid.UUID) string {
	return fillerSubjects[int(seed[0])%len(fillerSubjects)]
}

func fillerBody(seed uuid.UUID) string {
	return fillerBodies[int(seed[1])%len(fillerBodies)]
}

func fillerAnnouncement(period int) (string, string) {
	return fmt.Sprintf("Announcement for day %d", period),
		"Please check the updated schedule and keep up with the posted activities."
}
