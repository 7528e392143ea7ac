package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub-model" }

const resumeResponse = "```json\n" + `{
  "name": "Asha Rao",
  "education": [
    {"degree": "B.Tech CSE", "institution": "REC", "year": "2024"}
  ],
  "skills": ["Python", "  ", "Go", ""],
  "experience": [
    {"title": "Backend Intern", "company": "Globex", "duration": "6 months", "description": "APIs"}
  ],
  "projects": [
    {"title": "Scheduler", "description": "cron-like service", "tech": ["Go", "Redis"]}
  ]
}` + "\n```"

func TestStructureText(t *testing.T) {
	generator := &stubGenerator{response: resumeResponse}
	extractor := NewExtractor(generator, 0, nil)

	resume, err := extractor.StructureText(context.Background(), "Asha Rao\nBackend Intern at Globex...")
	if err != nil {
		t.Fatal(err)
	}

	if resume.Name != "Asha Rao" {
		t.Errorf("expected name, got %q", resume.Name)
	}

	// Blank skill entries are dropped.
	if len(resume.Skills) != 2 || resume.Skills[0] != "Python" || resume.Skills[1] != "Go" {
		t.Errorf("unexpected skills: %v", resume.Skills)
	}

	if len(resume.Experience) != 1 || resume.Experience[0].Company != "Globex" {
		t.Errorf("unexpected experience: %+v", resume.Experience)
	}

	if len(resume.Projects) != 1 || resume.Projects[0].Title != "Scheduler" {
		t.Errorf("unexpected projects: %+v", resume.Projects)
	}

	if len(resume.Education) != 1 || resume.Education[0].Year != "2024" {
		t.Errorf("unexpected education: %+v", resume.Education)
	}

	if len(generator.prompts) != 1 || !strings.Contains(generator.prompts[0], "Backend Intern at Globex") {
		t.Error("the resume text should be embedded in the prompt")
	}
}

func TestStructureTextEmptyInput(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{}, 0, nil)

	_, err := extractor.StructureText(context.Background(), "   \n  ")
	if err == nil {
		t.Fatal("expected an error for empty resume text")
	}

	var extractErr *Error
	if !errors.As(err, &extractErr) || extractErr.Stage != StageStructure {
		t.Errorf("expected a structure-stage error, got %v", err)
	}
}

func TestStructureTextGeneratorFailure(t *testing.T) {
	generator := &stubGenerator{err: errors.New("backend down")}
	extractor := NewExtractor(generator, 0, nil)

	_, err := extractor.StructureText(context.Background(), "some resume text")
	if err == nil {
		t.Fatal("expected an error")
	}

	var extractErr *Error
	if !errors.As(err, &extractErr) || extractErr.Stage != StageStructure {
		t.Errorf("expected a structure-stage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("expected the cause in the message, got %v", err)
	}
}

func TestStructureTextUnparseableOutput(t *testing.T) {
	generator := &stubGenerator{response: "Sure! Here is the resume summary you asked for."}
	extractor := NewExtractor(generator, 0, nil)

	if _, err := extractor.StructureText(context.Background(), "some resume text"); err == nil {
		t.Fatal("expected an error for non-JSON model output")
	}
}

func TestExtractFileMissingPDF(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{}, 0, nil)

	_, err := extractor.ExtractFile(context.Background(), "does-not-exist.pdf")
	if err == nil {
		t.Fatal("expected an error")
	}

	var extractErr *Error
	if !errors.As(err, &extractErr) || extractErr.Stage != StageRead {
		t.Errorf("expected a read-stage error, got %v", err)
	}
}

func TestDecodeResumeWeakTyping(t *testing.T) {
	resume, err := decodeResume(`{"name": "Asha", "skills": ["Go"], "experience": [{"title": "Engineer", "company": "Initech", "duration": 2}]}`)
	if err != nil {
		t.Fatal(err)
	}

	// Numeric durations the model occasionally emits coerce to strings.
	if resume.Experience[0].Duration != "2" {
		t.Errorf("expected weak typing to coerce the duration, got %q", resume.Experience[0].Duration)
	}
}
