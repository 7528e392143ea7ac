// Package extract turns a PDF résumé into the structured record the
// interview session is created from. Extraction is a pre-session step: the
// session itself never sees a raw document or an extraction failure.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/pranavbn/interview-agent/internal/interview"
	"github.com/pranavbn/interview-agent/internal/logger"
)

//go:embed resume_prompt.md
var resumeTemplate string

const (
	systemInstruction = "You are a resume parser. Extract structured data from resume text and respond with strict JSON only."

	defaultMaxLogLength = 200
)

// Stage names used in extraction errors.
const (
	StageRead      = "read"
	StageStructure = "structure"
)

// Error describes a failed extraction and the stage it failed at.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resume extraction failed at %s stage: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Extractor structures raw résumé text into an interview.Resume via the
// language model.
type Extractor struct {
	generator contentGenerator
	maxLogLen int
	logger    *zap.Logger
}

// NewExtractor creates an extractor backed by the provided generator.
func NewExtractor(generator contentGenerator, maxLogLength int, log *zap.Logger) *Extractor {
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

	return &Extractor{
		generator: generator,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", model),
	}
}

// ExtractFile reads the PDF at path and structures its text.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*interview.Resume, error) {
	text, err := ReadPDFText(path)
	if err != nil {
		return nil, &Error{Stage: StageRead, Err: err}
	}

	return e.StructureText(ctx, text)
}

// StructureText asks the model to emit the résumé record as JSON and decodes
// it. Empty or unparseable model output is an extraction error; the caller
// must not start a session from it.
func (e *Extractor) StructureText(ctx context.Context, text string) (*interview.Resume, error) {
	if e == nil || e.generator == nil {
		return nil, &Error{Stage: StageStructure, Err: fmt.Errorf("extractor is not initialized")}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &Error{Stage: StageStructure, Err: fmt.Errorf("resume text is empty")}
	}

	prompt := strings.ReplaceAll(resumeTemplate, "{{RESUME_TEXT}}", text)

	e.logger.Debug("resume structuring request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", logger.TruncateForLog(text, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, &Error{Stage: StageStructure, Err: err}
	}

	resume, err := decodeResume(raw)
	if err != nil {
		return nil, &Error{Stage: StageStructure, Err: err}
	}

	e.logger.Debug("resume structured",
		zap.String("name", resume.Name),
		zap.Int("projects", len(resume.Projects)),
		zap.Int("experience", len(resume.Experience)),
		zap.Int("skills", len(resume.Skills)),
	)

	return resume, nil
}

func decodeResume(raw string) (*interview.Resume, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse resume response: %w", err)
	}

	var resume interview.Resume
	cfg := &mapstructure.DecoderConfig{
		Result:           &resume,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode resume record: %w", err)
	}

	resume.Skills = cleanStrings(resume.Skills)

	return &resume, nil
}

func cleanStrings(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

func extractJSON(raw string) string {
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
