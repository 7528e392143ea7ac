package ai

import "context"

// QuestionContext carries the parts of an interview question the language
// model needs to reason about an answer.
type QuestionContext struct {
	// Type is the question category: introduction, hobbies, project,
	// experience, skills or general.
	Type string
	// Text is the question as it was asked.
	Text string
	// KeyPoints lists the aspects a complete answer is expected to cover.
	KeyPoints []string
	// ExpectedDuration is informational, e.g. "2-3 minutes".
	ExpectedDuration string
}

// AnswerAnalysis is the model's judgement of a single answer.
type AnswerAnalysis struct {
	NeedsFollowup bool
	Feedback      string
	// Raw keeps the unparsed model output for debugging.
	Raw string
}

// TranscriptEntry is one question/answer pair of a finished interview.
type TranscriptEntry struct {
	Question string
	Answer   string
}

// Assessment is the model's overall evaluation of a completed interview.
type Assessment struct {
	OverallScore        int
	TechnicalCompetency int
	CommunicationSkills int
	ProblemSolving      int
	Enthusiasm          int
	Strengths           []string
	AreasForImprovement []string
	KeyTakeaways        []string
	DetailedFeedback    string
	Recommendation      string
	Raw                 string
}

// Oracle is the language-generation capability the interview session calls
// but does not implement. Every method is a blocking round trip; callers are
// expected to substitute fallback values on error rather than abort.
type Oracle interface {
	// AnalyzeAnswer decides whether the answer warrants a follow-up question.
	AnalyzeAnswer(ctx context.Context, q QuestionContext, answer string) (*AnswerAnalysis, error)
	// GenerateFollowup produces one extra question digging into the answer.
	GenerateFollowup(ctx context.Context, q QuestionContext, answer string, analysis *AnswerAnalysis) (string, error)
	// GenerateEncouragement produces a short positive reaction to the answer.
	GenerateEncouragement(ctx context.Context, q QuestionContext, answer string) (string, error)
}

// Assessor produces a final evaluation of a completed interview transcript.
type Assessor interface {
	AssessTranscript(ctx context.Context, resumeJSON string, transcript []TranscriptEntry) (*Assessment, error)
}
