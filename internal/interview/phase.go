package interview

import (
	"fmt"
	"math/rand"
	"strings"
)

// TechnicalPhase walks a fixed list of role-specific technical questions.
// The sample is drawn once at construction and never re-randomized, so
// repeated reads of Current are idempotent.
type TechnicalPhase struct {
	role      string
	display   string
	questions []string
	cursor    int
	completed bool
	answers   []PhaseAnswer
}

// PhaseAnswer records one answered technical question.
type PhaseAnswer struct {
	Question string
	Answer   string
	// Ordinal is the 1-based position of the question within the phase.
	Ordinal int
}

// PhaseProgress is a snapshot of how far the phase has advanced.
type PhaseProgress struct {
	// Current is the 1-based ordinal of the question being asked, clipped
	// to Total once the phase has finished.
	Current     int
	Total       int
	Completed   bool
	Role        string
	RoleDisplay string
}

// NewTechnicalPhase draws count questions for the role from the bank. The
// rand source is injectable for deterministic tests.
func NewTechnicalPhase(bank *QuestionBank, role string, count int, rng *rand.Rand) (*TechnicalPhase, error) {
	if bank == nil {
		bank = DefaultBank()
	}

	if count <= 0 {
		return nil, fmt.Errorf("technical phase requires a positive question count, got %d", count)
	}

	questions, err := bank.Sample(role, count, rng)
	if err != nil {
		return nil, err
	}

	return &TechnicalPhase{
		role:      role,
		display:   bank.DisplayName(role),
		questions: questions,
	}, nil
}

// Current returns the question under the cursor without advancing it. The
// second return value is false once all questions have been served.
func (p *TechnicalPhase) Current() (string, bool) {
	if p.cursor >= len(p.questions) {
		return "", false
	}
	return p.questions[p.cursor], true
}

// SubmitAnswer records the answer for the current question and advances the
// cursor. It reports whether more questions remain. Submitting after the
// phase has completed returns ErrPhaseCompleted and false.
func (p *TechnicalPhase) SubmitAnswer(answer string) (bool, error) {
	if p.cursor >= len(p.questions) {
		return false, ErrPhaseCompleted
	}

	p.answers = append(p.answers, PhaseAnswer{
		Question: p.questions[p.cursor],
		Answer:   strings.TrimSpace(answer),
		Ordinal:  p.cursor + 1,
	})

	p.cursor++

	if p.cursor >= len(p.questions) {
		p.completed = true
		return false, nil
	}

	return true, nil
}

// Progress reports the phase position.
func (p *TechnicalPhase) Progress() PhaseProgress {
	current := p.cursor + 1
	if current > len(p.questions) {
		current = len(p.questions)
	}

	return PhaseProgress{
		Current:     current,
		Total:       len(p.questions),
		Completed:   p.completed,
		Role:        p.role,
		RoleDisplay: p.display,
	}
}

// Answers returns a copy of the recorded answers.
func (p *TechnicalPhase) Answers() []PhaseAnswer {
	return append([]PhaseAnswer(nil), p.answers...)
}

// CompletionMessage builds the final thank-you message for an interview that
// included this technical phase. It is a fixed template, no external calls.
func (p *TechnicalPhase) CompletionMessage() string {
	return fmt.Sprintf(`Thank you for completing the interview!

We've covered:
- Personal introduction and background questions
- Questions based on your resume and experience
- %d technical questions for %s

Your responses have been recorded and will be reviewed by our team. We appreciate the time you've taken to participate in this interview process.

Next steps:
- Our team will review your responses
- You'll hear back from us within 2-3 business days
- Feel free to reach out if you have any questions

Thank you once again, and we look forward to potentially working with you!`, len(p.questions), p.display)
}
