package interview

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/pranavbn/interview-agent/internal/ai"
)

// scriptedOracle serves canned analyses in order and records how often it was
// consulted. A nil analyses slice means "never ask a follow-up".
type scriptedOracle struct {
	analyses         []*ai.AnswerAnalysis
	analyzeErr       error
	followup         string
	followupErr      error
	encouragement    string
	encouragementErr error

	analyzeCalls  int
	followupCalls int
}

func (o *scriptedOracle) AnalyzeAnswer(_ context.Context, _ ai.QuestionContext, _ string) (*ai.AnswerAnalysis, error) {
	o.analyzeCalls++

	if o.analyzeErr != nil {
		return nil, o.analyzeErr
	}

	if len(o.analyses) == 0 {
		return &ai.AnswerAnalysis{}, nil
	}

	analysis := o.analyses[0]
	o.analyses = o.analyses[1:]
	return analysis, nil
}

func (o *scriptedOracle) GenerateFollowup(_ context.Context, _ ai.QuestionContext, _ string, _ *ai.AnswerAnalysis) (string, error) {
	o.followupCalls++
	return o.followup, o.followupErr
}

func (o *scriptedOracle) GenerateEncouragement(_ context.Context, _ ai.QuestionContext, _ string) (string, error) {
	return o.encouragement, o.encouragementErr
}

func fourProjectResume() *Resume {
	return &Resume{
		Name: "Asha",
		Projects: []Project{
			{Title: "Alpha"},
			{Title: "Beta"},
			{Title: "Gamma"},
			{Title: "Delta"},
		},
	}
}

func TestIsSkipRequest(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"skip", true},
		{"  SKIP  ", true},
		{"Skip To Next", true},
		{"next question", true},
		{"skip this", true},
		{"move to next", true},
		{"I will not skip this", false},
		{"please skip", false},
		{"skipping stones is my hobby", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := isSkipRequest(tc.answer); got != tc.want {
			t.Errorf("isSkipRequest(%q): expected %v, got %v", tc.answer, tc.want, got)
		}
	}
}

func TestNewSessionUnknownRole(t *testing.T) {
	_, err := NewSession(fourProjectResume(), "golang_developer")
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestSessionLifecycleGuards(t *testing.T) {
	ctx := context.Background()

	session, err := NewSession(fourProjectResume(), "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.ProcessAnswer(ctx, "hello"); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("answer before start: expected ErrSessionNotActive, got %v", err)
	}

	if _, err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := session.Start(ctx); !errors.Is(err, ErrSessionAlreadyStarted) {
		t.Errorf("second start: expected ErrSessionAlreadyStarted, got %v", err)
	}

	session.Complete()

	if _, err := session.ProcessAnswer(ctx, "hello"); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("answer after completion: expected ErrSessionNotActive, got %v", err)
	}
}

func TestSessionFullWalkWithRole(t *testing.T) {
	ctx := context.Background()

	session, err := NewSession(fourProjectResume(), "python_developer",
		withSeed(1),
	)
	if err != nil {
		t.Fatal(err)
	}

	turn, err := session.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if turn.Info.Stats.TotalQuestions != 11 {
		t.Fatalf("expected 11 total questions, got %d", turn.Info.Stats.TotalQuestions)
	}
	if turn.Info.Stats.ResumeQuestions != 7 || turn.Info.Stats.RoleQuestions != 4 {
		t.Fatalf("unexpected question split: %+v", turn.Info.Stats)
	}
	if !strings.Contains(turn.Question, "Hello Asha!") {
		t.Fatalf("expected the introduction first, got %q", turn.Question)
	}

	var sawTransition bool
	for i := 1; ; i++ {
		turn, err = session.ProcessAnswer(ctx, fmt.Sprintf("answer %d", i))
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}

		if strings.HasPrefix(turn.Question, "Now let's test your technical knowledge. ") {
			sawTransition = true
			if turn.Info.State != StateRoleBased {
				t.Errorf("expected role_based state at the transition, got %s", turn.Info.State)
			}
		}

		if turn.Status == StatusCompleted {
			if i != 11 {
				t.Errorf("expected completion after 11 answers, got %d", i)
			}
			break
		}

		if i > 20 {
			t.Fatal("session never completed")
		}
	}

	if !sawTransition {
		t.Error("expected a technical transition question")
	}

	stats := session.Info().Stats
	if stats.QuestionsAsked != 11 || stats.QuestionsAnswered != 11 || stats.QuestionsSkipped != 0 {
		t.Errorf("unexpected final stats: %+v", stats)
	}

	if !strings.Contains(turn.Message, "4 technical questions for Python Developer") {
		t.Errorf("completion message should name the technical round, got %q", turn.Message)
	}

	if session.State() != StateCompleted {
		t.Errorf("expected completed state, got %s", session.State())
	}
}

func TestSessionWithoutRole(t *testing.T) {
	ctx := context.Background()

	session, err := NewSession(&Resume{Name: "Asha"}, "")
	if err != nil {
		t.Fatal(err)
	}

	turn, err := session.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// intro + hobbies + two skills questions, no technical round.
	if turn.Info.Stats.TotalQuestions != 4 {
		t.Fatalf("expected 4 total questions, got %d", turn.Info.Stats.TotalQuestions)
	}

	for i := 1; i <= 4; i++ {
		turn, err = session.ProcessAnswer(ctx, "an answer")
		if err != nil {
			t.Fatal(err)
		}
	}

	if turn.Status != StatusCompleted {
		t.Fatalf("expected completion after 4 answers, got %+v", turn)
	}

	if strings.Contains(turn.Message, "technical questions") {
		t.Errorf("completion message should not mention a technical round, got %q", turn.Message)
	}
}

func TestSessionSkipFirstQuestion(t *testing.T) {
	ctx := context.Background()

	session, err := NewSession(fourProjectResume(), "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	turn, err := session.ProcessAnswer(ctx, "skip")
	if err != nil {
		t.Fatal(err)
	}

	if turn.PositiveResponse != "No problem! Let's move on to the next question." {
		t.Errorf("unexpected skip acknowledgement: %q", turn.PositiveResponse)
	}

	if !strings.Contains(turn.Question, "hobbies") {
		t.Errorf("expected the hobbies question next, got %q", turn.Question)
	}

	stats := turn.Info.Stats
	if stats.QuestionsSkipped != 1 || stats.QuestionsAnswered != 0 {
		t.Errorf("skip must not count as answered: %+v", stats)
	}

	history := session.History()
	if len(history) != 1 || history[0].Answer != SkippedAnswer {
		t.Errorf("expected one skipped history record, got %+v", history)
	}
}

func TestSessionSkipTechnicalQuestions(t *testing.T) {
	ctx := context.Background()

	session, err := NewSession(&Resume{Name: "Asha"}, "python_developer",
		withSeed(3),
		WithRoleQuestionCount(2),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	// Answer through the résumé plan (4 questions) into the technical phase.
	var turn *Turn
	for i := 0; i < 4; i++ {
		turn, err = session.ProcessAnswer(ctx, "an answer")
		if err != nil {
			t.Fatal(err)
		}
	}

	if turn.Info.State != StateRoleBased {
		t.Fatalf("expected role_based state, got %s", turn.Info.State)
	}

	turn, err = session.ProcessAnswer(ctx, "skip")
	if err != nil {
		t.Fatal(err)
	}
	if turn.Status != StatusSuccess || turn.Question == "" {
		t.Fatalf("expected the next technical question after a skip, got %+v", turn)
	}

	turn, err = session.ProcessAnswer(ctx, "skip")
	if err != nil {
		t.Fatal(err)
	}
	if turn.Status != StatusCompleted {
		t.Fatalf("expected completion after skipping the last question, got %+v", turn)
	}

	stats := turn.Info.Stats
	if stats.QuestionsSkipped != 2 || stats.QuestionsAnswered != 4 {
		t.Errorf("unexpected final stats: %+v", stats)
	}
}

func TestSessionFollowupAccounting(t *testing.T) {
	ctx := context.Background()

	oracle := &scriptedOracle{
		analyses: []*ai.AnswerAnalysis{
			{NeedsFollowup: true, Feedback: "too brief"},
		},
		followup:      "What exactly did you build?",
		encouragement: "Nice.",
	}

	session, err := NewSession(&Resume{Name: "Asha"}, "", WithOracle(oracle))
	if err != nil {
		t.Fatal(err)
	}

	turn, err := session.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	total := turn.Info.Stats.TotalQuestions

	turn, err = session.ProcessAnswer(ctx, "short answer")
	if err != nil {
		t.Fatal(err)
	}

	if !turn.IsFollowup {
		t.Fatalf("expected a follow-up turn, got %+v", turn)
	}
	if turn.Question != "What exactly did you build?" {
		t.Errorf("unexpected follow-up question: %q", turn.Question)
	}
	if turn.Analysis != "too brief" {
		t.Errorf("expected the analysis feedback on the turn, got %q", turn.Analysis)
	}

	for turn.Status != StatusCompleted {
		turn, err = session.ProcessAnswer(ctx, "a fuller answer")
		if err != nil {
			t.Fatal(err)
		}
	}

	// The follow-up consumed an ask slot without raising the announced
	// total, so asked ends up above it.
	stats := turn.Info.Stats
	if stats.QuestionsAsked != total+1 {
		t.Errorf("expected asked=%d, got %d", total+1, stats.QuestionsAsked)
	}
	if stats.TotalQuestions != total {
		t.Errorf("total must not change mid-session: %+v", stats)
	}
}

func TestSessionOracleFailuresDegrade(t *testing.T) {
	ctx := context.Background()

	oracle := &scriptedOracle{
		analyzeErr:       errors.New("model unavailable"),
		encouragementErr: errors.New("model unavailable"),
	}

	session, err := NewSession(&Resume{Name: "Asha"}, "",
		WithOracle(oracle),
		withSeed(5),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	turn, err := session.ProcessAnswer(ctx, "a normal answer")
	if err != nil {
		t.Fatalf("oracle failures must not surface as errors, got %v", err)
	}

	if turn.Status != StatusSuccess || turn.IsFollowup {
		t.Fatalf("expected a plain success turn, got %+v", turn)
	}

	var known bool
	for _, fallback := range fallbackEncouragements {
		if turn.PositiveResponse == fallback {
			known = true
		}
	}
	if !known {
		t.Errorf("expected a fallback encouragement, got %q", turn.PositiveResponse)
	}
}

func TestSessionFallbackFollowupByType(t *testing.T) {
	ctx := context.Background()

	oracle := &scriptedOracle{
		analyses: []*ai.AnswerAnalysis{
			{NeedsFollowup: true},
			{NeedsFollowup: false},
			{NeedsFollowup: false},
			{NeedsFollowup: true},
		},
		followupErr:   errors.New("model unavailable"),
		encouragement: "Nice.",
	}

	session, err := NewSession(fourProjectResume(), "", WithOracle(oracle))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	// The first two questions are introduction and hobbies; neither has a
	// typed fallback, so the generic one is used.
	turn, err := session.ProcessAnswer(ctx, "an answer")
	if err != nil {
		t.Fatal(err)
	}
	if turn.Question != fallbackFollowupGeneric {
		t.Errorf("expected the generic fallback, got %q", turn.Question)
	}

	// Answer the follow-up, then the hobbies question, landing on a project
	// question whose follow-up fallback is type specific.
	if _, err := session.ProcessAnswer(ctx, "a fuller answer"); err != nil {
		t.Fatal(err)
	}
	if _, err := session.ProcessAnswer(ctx, "an answer about hobbies"); err != nil {
		t.Fatal(err)
	}

	turn, err = session.ProcessAnswer(ctx, "an answer about the project")
	if err != nil {
		t.Fatal(err)
	}
	if turn.Question != fallbackFollowups[QuestionProject] {
		t.Errorf("expected the project fallback, got %q", turn.Question)
	}
}

func TestSessionHistoryTimestamps(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	session, err := NewSession(&Resume{Name: "Asha"}, "",
		WithClock(func() time.Time { return fixed }),
	)
	if err != nil {
		t.Fatal(err)
	}

	first, err := session.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session.ProcessAnswer(ctx, "my answer"); err != nil {
		t.Fatal(err)
	}

	history := session.History()
	if len(history) != 1 {
		t.Fatalf("expected one record, got %d", len(history))
	}

	record := history[0]
	if record.Question != first.Question || record.Answer != "my answer" {
		t.Errorf("unexpected record: %+v", record)
	}
	if !record.Timestamp.Equal(fixed) {
		t.Errorf("expected the injected clock time, got %v", record.Timestamp)
	}
}

// withSeed fixes the session rand source for reproducible sampling.
func withSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}
