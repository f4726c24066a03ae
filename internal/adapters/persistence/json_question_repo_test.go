package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quizapp/internal/domain/quiz"
)

const sampleBank = `{
  "questions": [
    {"question": "Capital do Brasil?", "options": {"a": "Rio", "b": "Brasília"}, "ca": "b", "difficulty": 1, "theme": "geografia"},
    {"question": "2 + 2?", "options": {"A": "4", "B": "5"}, "ca": "A", "difficulty": 2, "theme": "matematica"},
    {"question": "Maior oceano?", "options": {"a": "Atlântico", "b": "Pacífico"}, "ca": "b", "difficulty": 2, "theme": "geografia"}
  ]
}`

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func TestLoadQuestions(t *testing.T) {
	repo, err := NewJSONQuestionRepository(writeBank(t, sampleBank))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	all := repo.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(all))
	}
	for i, q := range all {
		if q.ID != i {
			t.Fatalf("question %d has id %d", i, q.ID)
		}
	}
	if all[1].CorrectKey != "a" || all[1].Options["a"] != "4" {
		t.Fatalf("keys should be normalized: %+v", all[1])
	}

	themes := repo.Themes()
	if len(themes) != 2 || themes[0] != "geografia" || themes[1] != "matematica" {
		t.Fatalf("unexpected themes %v", themes)
	}
	levels := repo.Difficulties()
	if len(levels) != 2 || levels[0] != 1 || levels[1] != 2 {
		t.Fatalf("unexpected difficulties %v", levels)
	}
}

func TestLoadQuestionsMissingFile(t *testing.T) {
	_, err := LoadQuestions(filepath.Join(t.TempDir(), "nao-existe.json"))
	if !errors.Is(err, quiz.ErrBancoNaoEncontrado) {
		t.Fatalf("expected ErrBancoNaoEncontrado, got %v", err)
	}
}

func TestParseQuestionsFormatErrors(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{"questions": [`,
		"no questions key": `{"perguntas": []}`,
		"missing ca":       `{"questions": [{"question": "x", "options": {"a": "1", "b": "2"}, "difficulty": 1, "theme": "t"}]}`,
		"missing theme":    `{"questions": [{"question": "x", "options": {"a": "1", "b": "2"}, "ca": "a", "difficulty": 1}]}`,
		"missing diff":     `{"questions": [{"question": "x", "options": {"a": "1", "b": "2"}, "ca": "a", "theme": "t"}]}`,
		"ca not an option": `{"questions": [{"question": "x", "options": {"a": "1", "b": "2"}, "ca": "c", "difficulty": 1, "theme": "t"}]}`,
		"duplicated key":   `{"questions": [{"question": "x", "options": {"a": "1", "A": "2"}, "ca": "a", "difficulty": 1, "theme": "t"}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestions([]byte(doc))
			if !errors.Is(err, quiz.ErrFormatoPergunta) {
				t.Fatalf("expected ErrFormatoPergunta, got %v", err)
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	repo, err := NewJSONQuestionRepository(writeBank(t, sampleBank))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	all := repo.All()
	all[0].Text = "alterado"
	if repo.All()[0].Text == "alterado" {
		t.Fatalf("All must not expose the internal slice")
	}
}

func TestFindByIDs(t *testing.T) {
	repo, err := NewJSONQuestionRepository(writeBank(t, sampleBank))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	qs, err := repo.FindByIDs([]int{2, 0})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(qs) != 2 || qs[0].ID != 2 || qs[1].ID != 0 {
		t.Fatalf("unexpected order: %+v", qs)
	}
	if _, err := repo.FindByIDs([]int{7}); err == nil {
		t.Fatalf("unknown id must fail")
	}
}
