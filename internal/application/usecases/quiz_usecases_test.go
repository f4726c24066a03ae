package usecases

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"quizapp/internal/domain/quiz"
	"quizapp/internal/domain/user"
)

func intPtr(v int) *int { return &v }

func TestStartInputCriteria(t *testing.T) {
	cases := []struct {
		name  string
		input StartInput
		want  quiz.Criteria
		err   error
	}{
		{"all", StartInput{Strategy: "all"}, quiz.AllQuestions(), nil},
		{"difficulty", StartInput{Strategy: "difficulty", Difficulty: intPtr(2)}, quiz.ByDifficulty(2), nil},
		{"difficulty missing", StartInput{Strategy: "difficulty"}, quiz.Criteria{}, quiz.ErrCriterioInvalido},
		{"theme", StartInput{Strategy: "theme", Theme: "historia"}, quiz.ByTheme("historia"), nil},
		{"random", StartInput{Strategy: "random", Count: intPtr(3)}, quiz.RandomSample(3), nil},
		{"random missing count", StartInput{Strategy: "random"}, quiz.Criteria{}, quiz.ErrCriterioInvalido},
		{"unknown", StartInput{Strategy: "hardest"}, quiz.Criteria{}, quiz.ErrEstrategiaDesconhecida},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.input.Criteria()
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %+v, %v; want %+v", got, err, tc.want)
			}
		})
	}
}

func TestQuizFullFlow(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	ana, _ := user.NewUser("ana", "segredo123")
	_ = f.users.Create(ctx, ana)

	view, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "all"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Total != 4 || view.Index != 0 || view.Question == nil || view.Question.Text != "Pergunta 0" {
		t.Fatalf("unexpected first view %+v", view)
	}

	// Respostas: certa, errada, certa, certa -> 75%
	answers := []string{"a", "b", "A", " a "}
	for i, ans := range answers {
		view, err = f.uc.Answer(ctx, "s1", AnswerInput{Index: i, Answer: ans})
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if !view.Completed || view.Question != nil {
		t.Fatalf("quiz should be complete: %+v", view)
	}

	// Responder de novo após o fim é conflito.
	if _, err := f.uc.Answer(ctx, "s1", AnswerInput{Index: 4, Answer: "a"}); !errors.Is(err, quiz.ErrQuizFinalizado) {
		t.Fatalf("expected ErrQuizFinalizado, got %v", err)
	}

	result, err := f.uc.Summary(ctx, "s1", ana.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	s := result.Summary
	if s.CorrectCount != 3 || s.Total != 4 || s.Percentage != 75 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if len(s.Missed) != 1 || s.Missed[0].QuestionText != "Pergunta 1" || s.Missed[0].ChosenText != "errada" {
		t.Fatalf("unexpected missed %+v", s.Missed)
	}

	// Sessão limpa: um segundo resumo não existe mais.
	if _, err := f.uc.Summary(ctx, "s1", ana.ID); !errors.Is(err, ErrNenhumQuizAtivo) {
		t.Fatalf("expected ErrNenhumQuizAtivo, got %v", err)
	}

	if len(f.history.attempts) != 1 || f.history.attempts[0].Criteria != "all" || f.history.attempts[0].UserID != ana.ID {
		t.Fatalf("attempt not archived: %+v", f.history.attempts)
	}
	if len(f.feed.events) != 1 || f.feed.events[0].eventType != "quiz_completed" {
		t.Fatalf("event not published: %+v", f.feed.events)
	}
	payload := f.feed.events[0].payload.(map[string]interface{})
	if payload["userName"] != "ana" || payload["percentage"] != 75.0 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if f.metrics.started["all"] != 1 || f.metrics.answers["correct"] != 3 || f.metrics.answers["wrong"] != 1 {
		t.Fatalf("unexpected metrics %+v", f.metrics)
	}
	if len(f.metrics.completed) != 1 || f.metrics.completed[0] != 75 {
		t.Fatalf("unexpected completed metrics %+v", f.metrics.completed)
	}
}

func TestAnswerValidationKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	if _, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "theme", Theme: "geografia"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	cases := []struct {
		name  string
		input AnswerInput
		want  error
	}{
		{"no option", AnswerInput{Index: 0, Answer: "  "}, quiz.ErrNenhumaOpcao},
		{"unknown option", AnswerInput{Index: 0, Answer: "z"}, quiz.ErrOpcaoInvalida},
		{"stale index", AnswerInput{Index: 1, Answer: "a"}, quiz.ErrPerguntaForaDeOrdem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := f.uc.Answer(ctx, "s1", tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if view == nil || view.Index != 0 || view.Question == nil || view.Question.Text != "Pergunta 0" || view.Error == "" {
				t.Fatalf("view must re-display the same question with the error: %+v", view)
			}
		})
	}

	current, err := f.uc.Current(ctx, "s1")
	if err != nil || current.Index != 0 || current.Total != 2 {
		t.Fatalf("state changed after invalid answers: %+v, %v", current, err)
	}
	if f.metrics.answers["invalid"] != 3 {
		t.Fatalf("invalid answers not counted: %+v", f.metrics.answers)
	}
}

func TestSummaryBeforeEnd(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	_, _ = f.uc.Start(ctx, "s1", StartInput{Strategy: "all"})

	if _, err := f.uc.Summary(ctx, "s1", "u1"); !errors.Is(err, quiz.ErrQuizNaoFinalizado) {
		t.Fatalf("expected ErrQuizNaoFinalizado, got %v", err)
	}
	// O quiz continua disponível.
	if _, err := f.uc.Current(ctx, "s1"); err != nil {
		t.Fatalf("quiz must survive an early summary request: %v", err)
	}
}

func TestEmptySelectionCompletesImmediately(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()

	view, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "difficulty", Difficulty: intPtr(9)})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !view.Completed || view.Total != 0 {
		t.Fatalf("empty quiz must start complete: %+v", view)
	}

	result, err := f.uc.Summary(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if result.Summary.Total != 0 || result.Summary.Percentage != 0 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
}

func TestStartInvalidArguments(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()

	if _, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "random", Count: intPtr(10)}); !errors.Is(err, quiz.ErrQuantidadeInvalida) {
		t.Fatalf("expected ErrQuantidadeInvalida, got %v", err)
	}
	if _, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "theme"}); !errors.Is(err, quiz.ErrCriterioInvalido) {
		t.Fatalf("expected ErrCriterioInvalido, got %v", err)
	}
	if _, err := f.uc.Current(ctx, "s1"); !errors.Is(err, ErrNenhumQuizAtivo) {
		t.Fatalf("no quiz should have been started, got %v", err)
	}
}

func TestRandomSampleIsFrozen(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.uc.questions.SetRand(rand.New(rand.NewPCG(1, 2)))

	start, err := f.uc.Start(ctx, "s1", StartInput{Strategy: "random", Count: intPtr(3)})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	first := start.Question.ID

	for i := 0; i < 5; i++ {
		current, err := f.uc.Current(ctx, "s1")
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if current.Question.ID != first || current.Total != 3 {
			t.Fatalf("random sample must not be redrawn between requests")
		}
	}
}

func TestCorruptedSessionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	_ = f.sessions.Set(ctx, "s1", quizSessionKey, []byte(`{"questionIds":[99],"currentIndex":0}`))

	if _, err := f.uc.Current(ctx, "s1"); !errors.Is(err, ErrNenhumQuizAtivo) {
		t.Fatalf("expected ErrNenhumQuizAtivo, got %v", err)
	}
	if data, _ := f.sessions.Get(ctx, "s1", quizSessionKey); data != nil {
		t.Fatalf("corrupted record must be removed")
	}
}

func TestArchiveFailureStillReturnsSummary(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.history.failSave = true

	_, _ = f.uc.Start(ctx, "s1", StartInput{Strategy: "theme", Theme: "ciencias"})
	_, _ = f.uc.Answer(ctx, "s1", AnswerInput{Index: 0, Answer: "a"})
	result, err := f.uc.Summary(ctx, "s1", "u1")
	if err != nil || result.Summary.Percentage != 100 {
		t.Fatalf("summary must survive archive failure: %+v, %v", result, err)
	}
}

func TestAbandon(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	_, _ = f.uc.Start(ctx, "s1", StartInput{Strategy: "all"})

	if err := f.uc.Abandon(ctx, "s1"); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := f.uc.Current(ctx, "s1"); !errors.Is(err, ErrNenhumQuizAtivo) {
		t.Fatalf("expected ErrNenhumQuizAtivo, got %v", err)
	}
	// Abandonar sem quiz não é erro.
	if err := f.uc.Abandon(ctx, "s1"); err != nil {
		t.Fatalf("abandon without quiz: %v", err)
	}
}

func TestConcurrentAnswersSameSession(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	_, _ = f.uc.Start(ctx, "s1", StartInput{Strategy: "all"})

	// Duas abas enviam a resposta da pergunta 0 ao mesmo tempo: só uma é aceita.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Answer(ctx, "s1", AnswerInput{Index: 0, Answer: "a"})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else if !errors.Is(err, quiz.ErrPerguntaForaDeOrdem) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted answer, got %d", accepted)
	}

	current, _ := f.uc.Current(ctx, "s1")
	if current.Index != 1 {
		t.Fatalf("index = %d, want 1", current.Index)
	}
}

func (uc *QuizUseCases) activeLocks() int {
	uc.locksMu.Lock()
	defer uc.locksMu.Unlock()
	return len(uc.locks)
}

func (uc *QuizUseCases) lockRefs(sessionID string) int {
	uc.locksMu.Lock()
	defer uc.locksMu.Unlock()
	if l, ok := uc.locks[sessionID]; ok {
		return l.refs
	}
	return 0
}

func TestLocksReleasedAfterRequests(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()

	// Sessões que nunca fazem logout (token expirado) não podem deixar lock para trás.
	for _, sid := range []string{"s1", "s2", "s3"} {
		_, _ = f.uc.Start(ctx, sid, StartInput{Strategy: "all"})
		_, _ = f.uc.Current(ctx, sid)
		_, _ = f.uc.Answer(ctx, sid, AnswerInput{Index: 0, Answer: "a"})
	}
	_ = f.uc.Abandon(ctx, "s1")

	if n := f.uc.activeLocks(); n != 0 {
		t.Fatalf("expected no locks after requests finish, got %d", n)
	}
}

func TestLockKeptWhileWaiting(t *testing.T) {
	f := newQuizFixture()

	unlockFirst := f.uc.lock("s1")
	acquired := make(chan func())
	go func() { acquired <- f.uc.lock("s1") }()

	// O segundo pedido espera no mesmo lock em vez de criar outro.
	for f.uc.lockRefs("s1") != 2 {
		time.Sleep(time.Millisecond)
	}
	unlockFirst()
	unlockSecond := <-acquired
	if n := f.uc.activeLocks(); n != 1 {
		t.Fatalf("lock must survive while held, got %d", n)
	}
	unlockSecond()
	if n := f.uc.activeLocks(); n != 0 {
		t.Fatalf("lock must be removed after last release, got %d", n)
	}
}
