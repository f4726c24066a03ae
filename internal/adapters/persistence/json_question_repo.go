package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"quizapp/internal/domain/quiz"
)

// questionFile é o formato do arquivo quiz.json.
type questionFile struct {
	Questions []questionRecord `json:"questions"`
}

// Campos como ponteiro para distinguir ausência de valor zero.
type questionRecord struct {
	Question   *string           `json:"question"`
	Options    map[string]string `json:"options"`
	CA         *string           `json:"ca"`
	Difficulty *int              `json:"difficulty"`
	Theme      *string           `json:"theme"`
}

// JSONQuestionRepository mantém o banco de perguntas em memória, somente leitura.
type JSONQuestionRepository struct {
	questions []quiz.Question
}

// NewJSONQuestionRepository carrega o arquivo uma única vez.
func NewJSONQuestionRepository(path string) (*JSONQuestionRepository, error) {
	qs, err := LoadQuestions(path)
	if err != nil {
		return nil, err
	}
	return &JSONQuestionRepository{questions: qs}, nil
}

// NewQuestionRepositoryFrom cria o repositório a partir de perguntas já carregadas.
func NewQuestionRepositoryFrom(questions []quiz.Question) *JSONQuestionRepository {
	qs := make([]quiz.Question, len(questions))
	copy(qs, questions)
	for i := range qs {
		qs[i].ID = i
	}
	return &JSONQuestionRepository{questions: qs}
}

// LoadQuestions lê e valida o arquivo de perguntas.
func LoadQuestions(path string) ([]quiz.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", quiz.ErrBancoNaoEncontrado, path, err)
	}
	return ParseQuestions(data)
}

// ParseQuestions converte o documento JSON em perguntas. Qualquer registro
// incompleto invalida o banco inteiro.
func ParseQuestions(data []byte) ([]quiz.Question, error) {
	var file questionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", quiz.ErrFormatoPergunta, err)
	}
	if file.Questions == nil {
		return nil, fmt.Errorf("%w: campo \"questions\" ausente", quiz.ErrFormatoPergunta)
	}

	questions := make([]quiz.Question, 0, len(file.Questions))
	for i, rec := range file.Questions {
		q, err := rec.toDomain(i)
		if err != nil {
			return nil, fmt.Errorf("%w: registro %d: %v", quiz.ErrFormatoPergunta, i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r questionRecord) toDomain(id int) (quiz.Question, error) {
	switch {
	case r.Question == nil:
		return quiz.Question{}, fmt.Errorf("campo \"question\" ausente")
	case r.Options == nil:
		return quiz.Question{}, fmt.Errorf("campo \"options\" ausente")
	case r.CA == nil:
		return quiz.Question{}, fmt.Errorf("campo \"ca\" ausente")
	case r.Difficulty == nil:
		return quiz.Question{}, fmt.Errorf("campo \"difficulty\" ausente")
	case r.Theme == nil:
		return quiz.Question{}, fmt.Errorf("campo \"theme\" ausente")
	}

	options := make(map[string]string, len(r.Options))
	for k, v := range r.Options {
		key := quiz.NormalizeKey(k)
		if _, dup := options[key]; dup {
			return quiz.Question{}, fmt.Errorf("alternativa %q duplicada", key)
		}
		options[key] = v
	}

	q := quiz.Question{
		ID:         id,
		Text:       *r.Question,
		Options:    options,
		CorrectKey: quiz.NormalizeKey(*r.CA),
		Difficulty: *r.Difficulty,
		Theme:      *r.Theme,
	}
	if err := q.Validate(); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

// All retorna uma cópia do banco completo.
func (r *JSONQuestionRepository) All() []quiz.Question {
	out := make([]quiz.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// FindByIDs retorna as perguntas na ordem dos IDs pedidos.
func (r *JSONQuestionRepository) FindByIDs(ids []int) ([]quiz.Question, error) {
	out := make([]quiz.Question, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(r.questions) {
			return nil, fmt.Errorf("pergunta %d não existe no banco", id)
		}
		out = append(out, r.questions[id])
	}
	return out, nil
}

// Themes lista os temas distintos em ordem alfabética.
func (r *JSONQuestionRepository) Themes() []string {
	seen := make(map[string]bool)
	themes := make([]string, 0)
	for _, q := range r.questions {
		if !seen[q.Theme] {
			seen[q.Theme] = true
			themes = append(themes, q.Theme)
		}
	}
	sort.Strings(themes)
	return themes
}

// Difficulties lista as dificuldades distintas em ordem crescente.
func (r *JSONQuestionRepository) Difficulties() []int {
	seen := make(map[int]bool)
	levels := make([]int, 0)
	for _, q := range r.questions {
		if !seen[q.Difficulty] {
			seen[q.Difficulty] = true
			levels = append(levels, q.Difficulty)
		}
	}
	sort.Ints(levels)
	return levels
}
