package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/pranavbn/interview-agent/internal/ai"
	"github.com/pranavbn/interview-agent/internal/logger"
)

//go:embed prompts/analyze.md
var analyzeTemplate string

//go:embed prompts/followup.md
var followupTemplate string

//go:embed prompts/encouragement.md
var encouragementTemplate string

//go:embed prompts/assessment.md
var assessmentTemplate string

const (
	systemInstruction = "You are an expert interviewer conducting a friendly but thorough technical screening. Follow the response format instructions exactly."

	defaultMaxLogLength = 200

	// Long answers are previewed rather than sent whole to the
	// encouragement prompt; the reaction does not need the full text.
	answerPreviewRunes = 500
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Oracle implements the interview oracle contracts on top of a Gemini
// content generator.
type Oracle struct {
	generator contentGenerator
	maxLogLen int
	logger    *zap.Logger
}

// NewOracle creates the Gemini-backed oracle.
func NewOracle(generator contentGenerator, maxLogLength int, log *zap.Logger) *Oracle {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Oracle{
		generator: generator,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", model),
	}
}

// AnalyzeAnswer asks the model whether the answer warrants a follow-up.
func (o *Oracle) AnalyzeAnswer(ctx context.Context, q ai.QuestionContext, answer string) (*ai.AnswerAnalysis, error) {
	prompt := renderTemplate(analyzeTemplate, map[string]string{
		"QUESTION_TYPE":     questionType(q),
		"QUESTION":          q.Text,
		"ANSWER":            answer,
		"KEY_POINTS":        strings.Join(q.KeyPoints, ", "),
		"EXPECTED_DURATION": q.ExpectedDuration,
	})

	raw, err := o.generate(ctx, "analyze_answer", prompt)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// GenerateFollowup produces one extra question digging into the answer.
func (o *Oracle) GenerateFollowup(ctx context.Context, q ai.QuestionContext, answer string, analysis *ai.AnswerAnalysis) (string, error) {
	feedback := ""
	if analysis != nil {
		feedback = analysis.Feedback
	}

	prompt := renderTemplate(followupTemplate, map[string]string{
		"QUESTION":      q.Text,
		"QUESTION_TYPE": questionType(q),
		"ANSWER":        preview(answer, 300),
		"FEEDBACK":      feedback,
	})

	raw, err := o.generate(ctx, "generate_followup", prompt)
	if err != nil {
		return "", err
	}

	return strings.Trim(strings.TrimSpace(raw), `"`), nil
}

// GenerateEncouragement produces a short positive reaction to the answer.
func (o *Oracle) GenerateEncouragement(ctx context.Context, q ai.QuestionContext, answer string) (string, error) {
	prompt := renderTemplate(encouragementTemplate, map[string]string{
		"QUESTION_TYPE":  questionType(q),
		"ANSWER_PREVIEW": preview(answer, answerPreviewRunes),
	})

	raw, err := o.generate(ctx, "generate_encouragement", prompt)
	if err != nil {
		return "", err
	}

	return strings.Trim(strings.TrimSpace(raw), `"`), nil
}

// AssessTranscript produces the final evaluation of a completed interview.
func (o *Oracle) AssessTranscript(ctx context.Context, resumeJSON string, transcript []ai.TranscriptEntry) (*ai.Assessment, error) {
	transcriptJSON, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}

	prompt := renderTemplate(assessmentTemplate, map[string]string{
		"RESUME_JSON":     resumeJSON,
		"TRANSCRIPT_JSON": string(transcriptJSON),
	})

	raw, err := o.generate(ctx, "assess_transcript", prompt)
	if err != nil {
		return nil, err
	}

	return parseAssessment(raw)
}

func (o *Oracle) generate(ctx context.Context, operation, prompt string) (string, error) {
	if o == nil || o.generator == nil {
		return "", fmt.Errorf("gemini oracle is not initialized")
	}

	o.logger.Debug("gemini request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, o.maxLogLen)),
	)

	raw, err := o.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	o.logger.Debug("gemini response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, o.maxLogLen)),
	)

	return raw, nil
}

func parseAnalysis(raw string) (*ai.AnswerAnalysis, error) {
	var payload struct {
		NeedsFollowup bool   `mapstructure:"needs_followup"`
		Feedback      string `mapstructure:"feedback"`
	}

	if err := decodeLooseJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	return &ai.AnswerAnalysis{
		NeedsFollowup: payload.NeedsFollowup,
		Feedback:      strings.TrimSpace(payload.Feedback),
		Raw:           raw,
	}, nil
}

func parseAssessment(raw string) (*ai.Assessment, error) {
	var payload struct {
		OverallScore        int      `mapstructure:"overall_score"`
		TechnicalCompetency int      `mapstructure:"technical_competency"`
		CommunicationSkills int      `mapstructure:"communication_skills"`
		ProblemSolving      int      `mapstructure:"problem_solving"`
		Enthusiasm          int      `mapstructure:"enthusiasm"`
		Strengths           []string `mapstructure:"strengths"`
		AreasForImprovement []string `mapstructure:"areas_for_improvement"`
		KeyTakeaways        []string `mapstructure:"key_takeaways"`
		DetailedFeedback    string   `mapstructure:"detailed_feedback"`
		Recommendation      string   `mapstructure:"recommendation"`
	}

	if err := decodeLooseJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse assessment response: %w", err)
	}

	return &ai.Assessment{
		OverallScore:        payload.OverallScore,
		TechnicalCompetency: payload.TechnicalCompetency,
		CommunicationSkills: payload.CommunicationSkills,
		ProblemSolving:      payload.ProblemSolving,
		Enthusiasm:          payload.Enthusiasm,
		Strengths:           payload.Strengths,
		AreasForImprovement: payload.AreasForImprovement,
		KeyTakeaways:        payload.KeyTakeaways,
		DetailedFeedback:    strings.TrimSpace(payload.DetailedFeedback),
		Recommendation:      strings.TrimSpace(payload.Recommendation),
		Raw:                 raw,
	}, nil
}

// decodeLooseJSON unmarshals the model output into a map and then decodes it
// weakly typed into target, tolerating "true"/"8" style string values the
// model occasionally produces.
func decodeLooseJSON(raw string, target any) error {
	cleaned := ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return err
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

// ExtractJSON strips markdown code fences the model wraps around JSON output.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func renderTemplate(template string, values map[string]string) string {
	prompt := template
	for key, value := range values {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", value)
	}
	return prompt
}

func questionType(q ai.QuestionContext) string {
	if strings.TrimSpace(q.Type) == "" {
		return "general"
	}
	return q.Type
}

func preview(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
