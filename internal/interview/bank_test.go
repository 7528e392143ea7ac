package interview

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

const testCatalogue = `
roles:
  python_developer:
    display: Python Developer
    questions:
      - q1
      - q2
      - q3
      - q4
      - q5
`

func TestNewQuestionBankValidation(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: testCatalogue},
		{name: "no roles", data: "roles: {}", wantErr: true},
		{name: "role without questions", data: "roles:\n  empty_role:\n    display: Empty\n", wantErr: true},
		{name: "not yaml", data: "{{{", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuestionBank([]byte(tc.data))
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDefaultBankRoles(t *testing.T) {
	bank := DefaultBank()

	want := []string{"java_developer", "mern_stack", "python_developer"}
	if got := bank.Roles(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected roles %v, got %v", want, got)
	}

	for _, role := range want {
		questions, err := bank.QuestionsFor(role)
		if err != nil {
			t.Fatalf("QuestionsFor(%s): %v", role, err)
		}
		if len(questions) != 10 {
			t.Errorf("role %s: expected 10 questions, got %d", role, len(questions))
		}
	}
}

func TestQuestionsForUnknownRole(t *testing.T) {
	_, err := DefaultBank().QuestionsFor("golang_developer")
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestDisplayNameFallback(t *testing.T) {
	bank := DefaultBank()

	if got := bank.DisplayName("python_developer"); got != "Python Developer" {
		t.Errorf("expected display name, got %q", got)
	}

	if got := bank.DisplayName("unknown_role"); got != "unknown_role" {
		t.Errorf("expected the role key as fallback, got %q", got)
	}
}

func TestSampleDistinctMembers(t *testing.T) {
	bank, err := NewQuestionBank([]byte(testCatalogue))
	if err != nil {
		t.Fatal(err)
	}

	all, err := bank.QuestionsFor("python_developer")
	if err != nil {
		t.Fatal(err)
	}

	members := make(map[string]struct{}, len(all))
	for _, q := range all {
		members[q] = struct{}{}
	}

	sample, err := bank.Sample("python_developer", 3, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}

	if len(sample) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(sample))
	}

	seen := make(map[string]struct{}, len(sample))
	for _, q := range sample {
		if _, ok := members[q]; !ok {
			t.Errorf("sampled question %q is not in the catalogue", q)
		}
		if _, ok := seen[q]; ok {
			t.Errorf("question %q sampled twice", q)
		}
		seen[q] = struct{}{}
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	bank, err := NewQuestionBank([]byte(testCatalogue))
	if err != nil {
		t.Fatal(err)
	}

	first, err := bank.Sample("python_developer", 3, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}

	second, err := bank.Sample("python_developer", 3, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed should reproduce the sample: %v vs %v", first, second)
	}
}

func TestSampleOversizedCount(t *testing.T) {
	bank, err := NewQuestionBank([]byte(testCatalogue))
	if err != nil {
		t.Fatal(err)
	}

	sample, err := bank.Sample("python_developer", 50, nil)
	if err != nil {
		t.Fatal(err)
	}

	want, _ := bank.QuestionsFor("python_developer")
	if !reflect.DeepEqual(sample, want) {
		t.Errorf("oversized sample should return the whole catalogue in order, got %v", sample)
	}
}

func TestSampleUnknownRole(t *testing.T) {
	bank, err := NewQuestionBank([]byte(testCatalogue))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := bank.Sample("java_developer", 3, nil); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
