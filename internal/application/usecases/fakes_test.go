package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"quizapp/internal/domain/history"
	"quizapp/internal/domain/quiz"
	"quizapp/internal/domain/user"
	"quizapp/internal/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Name == u.Name {
			return user.ErrNomeDuplicado
		}
	}
	if len(r.users) == 0 {
		u.IsAdmin = true
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByName(_ context.Context, name string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) Promote(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("não encontrado")
	}
	u.Promote()
	return nil
}

// fakeHasher prefixa a senha; suficiente para os casos de uso.
type fakeHasher struct{}

func (fakeHasher) HashPassword(p string) (string, error) { return "hash:" + p, nil }

func (fakeHasher) ComparePassword(hash, p string) error {
	if hash != "hash:"+p {
		return errors.New("senha incorreta")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID, sessionID string) (string, int64, error) {
	return userID + "|" + sessionID, 60, nil
}

func (fakeTokens) ValidateToken(token string) (*ports.SessionClaims, error) {
	for i := 0; i < len(token); i++ {
		if token[i] == '|' {
			return &ports.SessionClaims{UserID: token[:i], SessionID: token[i+1:]}, nil
		}
	}
	return nil, errors.New("token inválido")
}

type fakeSessionStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: make(map[string][]byte)}
}

func (s *fakeSessionStore) Get(_ context.Context, sid, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[sid+":"+key], nil
}

func (s *fakeSessionStore) Set(_ context.Context, sid, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sid+":"+key] = value
	return nil
}

func (s *fakeSessionStore) Pop(_ context.Context, sid, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.data[sid+":"+key]
	delete(s.data, sid+":"+key)
	return v, nil
}

type fakeQuestionRepo struct {
	questions []quiz.Question
}

func (r *fakeQuestionRepo) All() []quiz.Question {
	out := make([]quiz.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

func (r *fakeQuestionRepo) FindByIDs(ids []int) ([]quiz.Question, error) {
	out := make([]quiz.Question, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(r.questions) {
			return nil, fmt.Errorf("pergunta %d não existe", id)
		}
		out = append(out, r.questions[id])
	}
	return out, nil
}

func (r *fakeQuestionRepo) Themes() []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range r.questions {
		if !seen[q.Theme] {
			seen[q.Theme] = true
			out = append(out, q.Theme)
		}
	}
	sort.Strings(out)
	return out
}

func (r *fakeQuestionRepo) Difficulties() []int {
	seen := map[int]bool{}
	var out []int
	for _, q := range r.questions {
		if !seen[q.Difficulty] {
			seen[q.Difficulty] = true
			out = append(out, q.Difficulty)
		}
	}
	sort.Ints(out)
	return out
}

type fakeHistoryRepo struct {
	mu       sync.Mutex
	attempts []*history.Attempt
	failSave bool
}

func (r *fakeHistoryRepo) SaveAttempt(_ context.Context, a *history.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disco cheio")
	}
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *fakeHistoryRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*history.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*history.Attempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			mine = append(mine, a)
		}
	}
	if offset >= len(mine) {
		return []*history.Attempt{}, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (r *fakeHistoryRepo) GetByID(_ context.Context, id string) (*history.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeHistoryRepo) Stats(_ context.Context) (*history.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &history.Stats{TotalAttempts: len(r.attempts)}, nil
}

type feedEvent struct {
	eventType string
	payload   interface{}
}

type fakeFeed struct {
	mu     sync.Mutex
	events []feedEvent
}

func (f *fakeFeed) Broadcast(eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, feedEvent{eventType, payload})
}

type fakeMetrics struct {
	mu        sync.Mutex
	started   map[string]int
	answers   map[string]int
	completed []float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{started: map[string]int{}, answers: map[string]int{}}
}

func (m *fakeMetrics) QuizStarted(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started[strategy]++
}

func (m *fakeMetrics) AnswerRecorded(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[outcome]++
}

func (m *fakeMetrics) QuizCompleted(p float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, p)
}

// testBank tem quatro perguntas; a correta é sempre "a".
func testBank() []quiz.Question {
	mk := func(id int, text, theme string, difficulty int) quiz.Question {
		return quiz.Question{
			ID:         id,
			Text:       text,
			Options:    map[string]string{"a": "certa", "b": "errada", "c": "outra"},
			CorrectKey: "a",
			Difficulty: difficulty,
			Theme:      theme,
		}
	}
	return []quiz.Question{
		mk(0, "Pergunta 0", "geografia", 1),
		mk(1, "Pergunta 1", "historia", 1),
		mk(2, "Pergunta 2", "geografia", 2),
		mk(3, "Pergunta 3", "ciencias", 3),
	}
}

type quizFixture struct {
	uc       *QuizUseCases
	sessions *fakeSessionStore
	users    *fakeUserRepo
	history  *fakeHistoryRepo
	feed     *fakeFeed
	metrics  *fakeMetrics
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		sessions: newFakeSessionStore(),
		users:    newFakeUserRepo(),
		history:  &fakeHistoryRepo{},
		feed:     &fakeFeed{},
		metrics:  newFakeMetrics(),
	}
	questions := NewQuestionUseCases(&fakeQuestionRepo{questions: testBank()})
	f.uc = NewQuizUseCases(questions, f.sessions, f.users, NewHistoryUseCases(f.history), f.feed, f.metrics)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.uc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return f
}
