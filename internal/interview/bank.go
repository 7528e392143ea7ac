package interview

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultCatalogue []byte

// QuestionBank is a static, role-keyed catalogue of technical questions.
// The catalogue is compiled-in data: no side effects, no external calls.
type QuestionBank struct {
	roles map[string]bankRole
}

type bankRole struct {
	Display   string   `yaml:"display"`
	Questions []string `yaml:"questions"`
}

var (
	defaultBankOnce sync.Once
	defaultBank     *QuestionBank
)

// DefaultBank returns the bank built from the embedded catalogue.
func DefaultBank() *QuestionBank {
	defaultBankOnce.Do(func() {
		bank, err := NewQuestionBank(defaultCatalogue)
		if err != nil {
			// The embedded catalogue is part of the binary; failing to
			// parse it is a build defect, not a runtime condition.
			panic(fmt.Sprintf("parsing embedded question catalogue: %v", err))
		}
		defaultBank = bank
	})

	return defaultBank
}

// NewQuestionBank parses a YAML catalogue into a bank.
func NewQuestionBank(data []byte) (*QuestionBank, error) {
	var doc struct {
		Roles map[string]bankRole `yaml:"roles"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal question catalogue: %w", err)
	}

	if len(doc.Roles) == 0 {
		return nil, fmt.Errorf("question catalogue contains no roles")
	}

	for role, entry := range doc.Roles {
		if len(entry.Questions) == 0 {
			return nil, fmt.Errorf("role %q has no questions", role)
		}
	}

	return &QuestionBank{roles: doc.Roles}, nil
}

// Roles returns the sorted list of available role keys.
func (b *QuestionBank) Roles() []string {
	keys := make([]string, 0, len(b.roles))
	for role := range b.roles {
		keys = append(keys, role)
	}
	sort.Strings(keys)
	return keys
}

// DisplayName returns the user-friendly name for a role, falling back to the
// role key itself when the role is unknown.
func (b *QuestionBank) DisplayName(role string) string {
	entry, ok := b.roles[role]
	if !ok || entry.Display == "" {
		return role
	}
	return entry.Display
}

// QuestionsFor returns all questions for the role in catalogue order.
func (b *QuestionBank) QuestionsFor(role string) ([]string, error) {
	entry, ok := b.roles[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownRole, role, b.Roles())
	}

	return append([]string(nil), entry.Questions...), nil
}

// Sample draws n distinct questions for the role uniformly at random without
// replacement. When n is at least the catalogue size, all questions are
// returned. The rand source is injectable so tests can fix the order; a nil
// rng falls back to the global source.
func (b *QuestionBank) Sample(role string, n int, rng *rand.Rand) ([]string, error) {
	questions, err := b.QuestionsFor(role)
	if err != nil {
		return nil, err
	}

	if n >= len(questions) {
		return questions, nil
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions[:n], nil
}
