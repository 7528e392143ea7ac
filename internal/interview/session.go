package interview

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pranavbn/interview-agent/internal/ai"
)

// State is the lifecycle phase of a session. Sessions move from not_started
// to in_progress when the plan is built, optionally through role_based when
// a role is configured and the plan is exhausted, and end in completed.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateRoleBased  State = "role_based"
	StateCompleted  State = "completed"
)

const (
	// StatusSuccess marks a turn that produced a next question.
	StatusSuccess = "success"
	// StatusCompleted marks the terminal turn of a session.
	StatusCompleted = "completed"

	// SkippedAnswer is the sentinel recorded in place of an answer when the
	// candidate skips a question.
	SkippedAnswer = "Skipped"

	defaultRoleQuestionCount = 4

	technicalTransitionPrefix = "Now let's test your technical knowledge. "
	skipTransitionMessage     = "No problem! Let's move on to the next question."
	technicalPositiveMessage  = "Good answer! Let's continue with the technical questions."
)

// skipVocabulary contains the exact (lowercased, trimmed) inputs treated as
// a skip request. Matching is whole-input, never substring.
var skipVocabulary = map[string]struct{}{
	"skip":          {},
	"skip to next":  {},
	"next question": {},
	"skip this":     {},
	"move to next":  {},
}

var fallbackEncouragements = []string{
	"That's a great answer! Thank you for sharing.",
	"Excellent! I appreciate the detailed response.",
	"Wonderful! Your experience really shows.",
	"Perfect! That's exactly what we wanted to hear.",
}

// fallbackFollowups is keyed by question type and used when the generation
// oracle fails; the interview must always be able to proceed.
var fallbackFollowups = map[QuestionType]string{
	QuestionProject:    "Can you tell me more about the most challenging part of that project?",
	QuestionExperience: "What was the most valuable thing you learned from that experience?",
	QuestionSkills:     "How do you stay updated with the latest developments in this area?",
}

const fallbackFollowupGeneric = "That's interesting! Can you give me a specific example?"

const genericCompletionMessage = `Thank you for completing the interview!

We've covered:
- Personal introduction and background questions
- Questions based on your resume and experience

Your responses have been recorded and will be reviewed by our team. We appreciate the time you've taken to participate in this interview process.

Next steps:
- Our team will review your responses
- You'll hear back from us within 2-3 business days
- Feel free to reach out if you have any questions

Thank you once again, and we look forward to potentially working with you!`

// Stats holds the session question counters. TotalQuestions is fixed at
// start time and does not reserve slots for follow-ups, so QuestionsAsked
// can exceed it when follow-ups fire.
type Stats struct {
	TotalQuestions    int `json:"total_questions"`
	QuestionsAsked    int `json:"questions_asked"`
	QuestionsAnswered int `json:"questions_answered"`
	QuestionsSkipped  int `json:"questions_skipped"`
	ResumeQuestions   int `json:"resume_questions"`
	RoleQuestions     int `json:"role_questions"`
}

// AnswerRecord is one processed turn of the résumé portion. Records are
// append-only and never mutated.
type AnswerRecord struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionInfo is a read-only snapshot of session progress.
type SessionInfo struct {
	SessionID             string `json:"session_id"`
	TotalPlannedQuestions int    `json:"total_planned_questions"`
	CurrentQuestion       int    `json:"current_question"`
	State                 State  `json:"interview_state"`
	Role                  string `json:"role,omitempty"`
	Stats                 Stats  `json:"question_stats"`
}

// Turn is the result of starting a session or processing one answer.
type Turn struct {
	Status           string
	Question         string
	IsFollowup       bool
	PositiveResponse string
	Analysis         string
	// Message is set on the completing turn only.
	Message string
	Info    SessionInfo
}

// Session drives one interview attempt: it serves the résumé-derived plan
// one question at a time, consults the oracle about follow-ups, hands over
// to the technical phase when a role is selected, and accumulates history
// and counters. A session is not safe for concurrent use; the caller model
// is strict request/response turn-taking.
type Session struct {
	id            string
	resume        *Resume
	role          string
	oracle        ai.Oracle
	bank          *QuestionBank
	logger        *zap.Logger
	rng           *rand.Rand
	now           func() time.Time
	roleQuestions int

	state   State
	plan    []*PlannedQuestion
	cursor  int
	phase   *TechnicalPhase
	history []AnswerRecord
	stats   Stats
}

// Option customizes a session at construction time.
type Option func(*Session)

// WithOracle sets the language-generation oracle. Without one the session
// still runs, using fixed fallback responses and never asking follow-ups.
func WithOracle(oracle ai.Oracle) Option {
	return func(s *Session) { s.oracle = oracle }
}

// WithBank replaces the default question bank.
func WithBank(bank *QuestionBank) Option {
	return func(s *Session) { s.bank = bank }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRand fixes the random source used for technical-question sampling and
// fallback phrasing, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithClock overrides the timestamp source for history records.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRoleQuestionCount overrides how many technical questions the role
// phase asks.
func WithRoleQuestionCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.roleQuestions = n
		}
	}
}

// NewSession creates a session for the given résumé and optional role. An
// empty role skips the technical phase entirely. A role not present in the
// question bank fails with ErrUnknownRole.
func NewSession(resume *Resume, role string, opts ...Option) (*Session, error) {
	s := &Session{
		id:            uuid.NewString(),
		resume:        resume,
		role:          strings.TrimSpace(role),
		state:         StateNotStarted,
		roleQuestions: defaultRoleQuestionCount,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.bank == nil {
		s.bank = DefaultBank()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if s.role != "" {
		if _, err := s.bank.QuestionsFor(s.role); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ID returns the session identifier used for transcript storage.
func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

func (s *Session) Role() string { return s.role }

// Plan returns the planned résumé questions. The slice is a copy; the
// questions themselves are immutable after Start.
func (s *Session) Plan() []*PlannedQuestion {
	return append([]*PlannedQuestion(nil), s.plan...)
}

// History returns a copy of the accumulated answer records.
func (s *Session) History() []AnswerRecord {
	return append([]AnswerRecord(nil), s.history...)
}

// Start builds the question plan, initializes the counters and returns the
// first question. It may be called exactly once.
func (s *Session) Start(_ context.Context) (*Turn, error) {
	if s.state != StateNotStarted {
		return nil, ErrSessionAlreadyStarted
	}

	s.plan = BuildPlan(s.resume)
	s.cursor = 0
	s.history = nil

	roleCount := 0
	if s.role != "" {
		roleCount = s.roleQuestions
	}

	s.stats = Stats{
		TotalQuestions:  len(s.plan) + roleCount,
		ResumeQuestions: len(s.plan),
		RoleQuestions:   roleCount,
	}

	s.state = StateInProgress

	question, _ := s.nextQuestion()

	s.logger.Info("interview session started",
		zap.String("session_id", s.id),
		zap.String("role", s.role),
		zap.Int("planned_questions", len(s.plan)),
		zap.Int("total_questions", s.stats.TotalQuestions),
	)

	return &Turn{Status: StatusSuccess, Question: question, Info: s.Info()}, nil
}

// ProcessAnswer handles one candidate answer and returns the next question,
// a follow-up, or the completion turn. Oracle failures never abort the
// session; they degrade to fixed fallback values.
func (s *Session) ProcessAnswer(ctx context.Context, answer string) (*Turn, error) {
	if s.state != StateInProgress && s.state != StateRoleBased {
		return nil, ErrSessionNotActive
	}

	if isSkipRequest(answer) {
		return s.handleSkip(), nil
	}

	s.stats.QuestionsAnswered++

	if s.state == StateRoleBased {
		return s.handleTechnicalAnswer(answer), nil
	}

	return s.handleResumeAnswer(ctx, answer), nil
}

// Complete finalizes the session. It is also reachable directly so a host
// can cut an interview short.
func (s *Session) Complete() *Turn {
	s.state = StateCompleted

	message := genericCompletionMessage
	if s.phase != nil {
		message = s.phase.CompletionMessage()
	}

	s.logger.Info("interview session completed",
		zap.String("session_id", s.id),
		zap.Int("questions_asked", s.stats.QuestionsAsked),
		zap.Int("questions_answered", s.stats.QuestionsAnswered),
		zap.Int("questions_skipped", s.stats.QuestionsSkipped),
	)

	return &Turn{Status: StatusCompleted, Message: message, Info: s.Info()}
}

// Info returns a snapshot of session progress. It never mutates state.
func (s *Session) Info() SessionInfo {
	total := len(s.plan)
	current := s.cursor

	if s.phase != nil {
		progress := s.phase.Progress()
		total += progress.Total
		if s.state == StateRoleBased || progress.Completed {
			current = len(s.plan) + progress.Current
		}
	}

	return SessionInfo{
		SessionID:             s.id,
		TotalPlannedQuestions: total,
		CurrentQuestion:       current,
		State:                 s.state,
		Role:                  s.role,
		Stats:                 s.stats,
	}
}

func (s *Session) handleSkip() *Turn {
	s.stats.QuestionsSkipped++

	if s.state == StateRoleBased && s.phase != nil {
		hasMore, err := s.phase.SubmitAnswer(SkippedAnswer)
		if err != nil || !hasMore {
			return s.Complete()
		}

		question, _ := s.phase.Current()
		s.stats.QuestionsAsked++

		return &Turn{
			Status:           StatusSuccess,
			Question:         question,
			PositiveResponse: skipTransitionMessage,
			Info:             s.Info(),
		}
	}

	s.appendHistory(s.currentQuestionText(), SkippedAnswer)

	question, ok := s.nextQuestion()
	if !ok {
		return s.Complete()
	}

	return &Turn{
		Status:           StatusSuccess,
		Question:         question,
		PositiveResponse: skipTransitionMessage,
		Info:             s.Info(),
	}
}

// handleTechnicalAnswer advances the technical phase. No oracle is consulted
// here: technical phrasing is fixed, so adaptive analysis would only add
// latency and cost.
func (s *Session) handleTechnicalAnswer(answer string) *Turn {
	hasMore, err := s.phase.SubmitAnswer(answer)
	if err != nil || !hasMore {
		return s.Complete()
	}

	question, _ := s.phase.Current()
	s.stats.QuestionsAsked++

	return &Turn{
		Status:           StatusSuccess,
		Question:         question,
		PositiveResponse: technicalPositiveMessage,
		Info:             s.Info(),
	}
}

func (s *Session) handleResumeAnswer(ctx context.Context, answer string) *Turn {
	current := s.currentPlanned()

	s.appendHistory(s.currentQuestionText(), answer)

	positive := s.safeEncouragement(ctx, current, answer)
	analysis := s.safeAnalysis(ctx, current, answer)

	if analysis.NeedsFollowup {
		followup := s.safeFollowup(ctx, current, answer, analysis)
		// Follow-ups occupy an ask slot but the plan cursor stays put and
		// TotalQuestions is not raised, so QuestionsAsked can overrun the
		// announced total. Preserved behavior; see the session tests.
		s.stats.QuestionsAsked++

		return &Turn{
			Status:           StatusSuccess,
			Question:         followup,
			IsFollowup:       true,
			PositiveResponse: positive,
			Analysis:         analysis.Feedback,
			Info:             s.Info(),
		}
	}

	question, ok := s.nextQuestion()
	if !ok {
		return s.Complete()
	}

	return &Turn{
		Status:           StatusSuccess,
		Question:         question,
		PositiveResponse: positive,
		Analysis:         analysis.Feedback,
		Info:             s.Info(),
	}
}

// nextQuestion advances the logical question stream: first the résumé plan,
// then the lazily constructed technical phase when a role is selected.
func (s *Session) nextQuestion() (string, bool) {
	if s.cursor < len(s.plan) {
		question := s.plan[s.cursor].Text
		s.cursor++
		s.stats.QuestionsAsked++
		return question, true
	}

	if s.role != "" && s.state == StateInProgress {
		s.state = StateRoleBased

		if s.phase == nil {
			phase, err := NewTechnicalPhase(s.bank, s.role, s.roleQuestions, s.rng)
			if err != nil {
				// The role was validated at construction, so this only
				// fires on an empty bank; end the interview cleanly.
				s.logger.Warn("constructing technical phase failed",
					zap.String("session_id", s.id),
					zap.String("role", s.role),
					zap.Error(err),
				)
				s.state = StateCompleted
				return "", false
			}
			s.phase = phase
		}

		if question, ok := s.phase.Current(); ok {
			s.stats.QuestionsAsked++
			return technicalTransitionPrefix + question, true
		}
	}

	if s.state == StateRoleBased && s.phase != nil {
		if question, ok := s.phase.Current(); ok {
			s.stats.QuestionsAsked++
			return question, true
		}
		s.state = StateCompleted
	}

	return "", false
}

func (s *Session) currentPlanned() *PlannedQuestion {
	if s.cursor == 0 || s.cursor > len(s.plan) {
		return nil
	}
	return s.plan[s.cursor-1]
}

func (s *Session) currentQuestionText() string {
	if q := s.currentPlanned(); q != nil {
		return q.Text
	}
	return "Unknown"
}

func (s *Session) appendHistory(question, answer string) {
	s.history = append(s.history, AnswerRecord{
		Question:  question,
		Answer:    answer,
		Timestamp: s.now(),
	})
}

func (s *Session) safeAnalysis(ctx context.Context, q *PlannedQuestion, answer string) *ai.AnswerAnalysis {
	fallback := &ai.AnswerAnalysis{NeedsFollowup: false, Feedback: ""}
	if s.oracle == nil {
		return fallback
	}

	analysis, err := s.oracle.AnalyzeAnswer(ctx, q.Context(), answer)
	if err != nil || analysis == nil {
		s.logger.Warn("answer analysis failed, assuming no follow-up needed",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return fallback
	}

	return analysis
}

func (s *Session) safeEncouragement(ctx context.Context, q *PlannedQuestion, answer string) string {
	if s.oracle == nil {
		return s.pickFallbackEncouragement()
	}

	response, err := s.oracle.GenerateEncouragement(ctx, q.Context(), answer)
	if err != nil || strings.TrimSpace(response) == "" {
		s.logger.Warn("encouragement generation failed, using fallback",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return s.pickFallbackEncouragement()
	}

	return strings.TrimSpace(response)
}

func (s *Session) safeFollowup(ctx context.Context, q *PlannedQuestion, answer string, analysis *ai.AnswerAnalysis) string {
	if s.oracle != nil {
		followup, err := s.oracle.GenerateFollowup(ctx, q.Context(), answer, analysis)
		if err == nil && strings.TrimSpace(followup) != "" {
			return strings.TrimSpace(followup)
		}

		s.logger.Warn("follow-up generation failed, using fallback",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
	}

	if q != nil {
		if fallback, ok := fallbackFollowups[q.Type]; ok {
			return fallback
		}
	}

	return fallbackFollowupGeneric
}

func (s *Session) pickFallbackEncouragement() string {
	return fallbackEncouragements[s.rng.Intn(len(fallbackEncouragements))]
}

// isSkipRequest matches the whole input, case- and whitespace-insensitively,
// against the skip vocabulary. "I will not skip this" is not a skip.
func isSkipRequest(answer string) bool {
	_, ok := skipVocabulary[strings.ToLower(strings.TrimSpace(answer))]
	return ok
}
