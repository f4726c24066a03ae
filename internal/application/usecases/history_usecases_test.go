package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizapp/internal/domain/quiz"
)

func TestHistoryUseCases(t *testing.T) {
	ctx := context.Background()
	repo := &fakeHistoryRepo{}
	uc := NewHistoryUseCases(repo)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	summary := quiz.NewSummary(1, 2, []quiz.MissRecord{{QuestionText: "x"}})
	a, err := uc.ArchiveAttempt(ctx, "u1", quiz.ByTheme("historia"), summary, start, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if a.Strategy != "theme" || a.Criteria != "theme=historia" || a.Percentage != 50 || a.ID == "" {
		t.Fatalf("unexpected attempt %+v", a)
	}

	list, err := uc.ListAttempts(ctx, "u1", 0, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %v", list, err)
	}
	if page2, _ := uc.ListAttempts(ctx, "u1", 2, 20); len(page2) != 0 {
		t.Fatalf("page 2 must be empty, got %d", len(page2))
	}

	if _, err := uc.GetAttempt(ctx, a.ID, "u1", false); err != nil {
		t.Fatalf("owner must see attempt: %v", err)
	}
	if _, err := uc.GetAttempt(ctx, a.ID, "u2", true); err != nil {
		t.Fatalf("admin must see attempt: %v", err)
	}
	if _, err := uc.GetAttempt(ctx, a.ID, "u2", false); !errors.Is(err, ErrTentativaNaoEncontrada) {
		t.Fatalf("other users must not see attempt, got %v", err)
	}
	if _, err := uc.GetAttempt(ctx, "nao-existe", "u1", true); !errors.Is(err, ErrTentativaNaoEncontrada) {
		t.Fatalf("expected ErrTentativaNaoEncontrada, got %v", err)
	}
}

func TestQuestionUseCasesCatalog(t *testing.T) {
	uc := NewQuestionUseCases(&fakeQuestionRepo{questions: testBank()})
	c := uc.Catalog()
	if c.TotalQuestions != 4 || len(c.Strategies) != 4 {
		t.Fatalf("unexpected catalog %+v", c)
	}
	if len(c.Themes) != 3 || c.Themes[0] != "ciencias" {
		t.Fatalf("unexpected themes %v", c.Themes)
	}
	if len(c.Difficulties) != 3 || c.Difficulties[2] != 3 {
		t.Fatalf("unexpected difficulties %v", c.Difficulties)
	}

	qs, err := uc.Select(quiz.ByDifficulty(1))
	if err != nil || len(qs) != 2 {
		t.Fatalf("select: %v, %v", qs, err)
	}
}
