package interview

import "github.com/pranavbn/interview-agent/internal/ai"

// QuestionType tags a planned question with its category. Each category
// carries only its relevant supporting data on the PlannedQuestion.
type QuestionType string

const (
	QuestionIntroduction QuestionType = "introduction"
	QuestionHobbies      QuestionType = "hobbies"
	QuestionProject      QuestionType = "project"
	QuestionExperience   QuestionType = "experience"
	QuestionSkills       QuestionType = "skills"
)

// PlannedQuestion is one résumé-derived question. Questions are created once
// at plan-build time and never mutated afterwards.
type PlannedQuestion struct {
	// ID is assigned by overall insertion order across the plan, 1..k.
	ID   int
	Type QuestionType
	Text string
	// ExpectedDuration is informational only, e.g. "2-3 minutes".
	ExpectedDuration string
	// KeyPoints lists what a complete answer should cover.
	KeyPoints []string

	// Project is set for project questions only.
	Project *Project
	// Experience is set for experience questions only.
	Experience *Experience
}

// Context converts the question into the shape the oracle contracts expect.
func (q *PlannedQuestion) Context() ai.QuestionContext {
	if q == nil {
		return ai.QuestionContext{Type: "general"}
	}

	return ai.QuestionContext{
		Type:             string(q.Type),
		Text:             q.Text,
		KeyPoints:        append([]string(nil), q.KeyPoints...),
		ExpectedDuration: q.ExpectedDuration,
	}
}
