package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrEstrategiaDesconhecida = errors.New("estratégia de seleção desconhecida")
	ErrQuantidadeInvalida     = errors.New("quantidade de perguntas maior que o banco disponível")
	ErrCriterioInvalido       = errors.New("critério de seleção inválido")
)

// Strategy identifica como o conjunto de perguntas é montado.
type Strategy int

const (
	StrategyAll Strategy = iota
	StrategyDifficulty
	StrategyTheme
	StrategyRandom
)

var strategyNames = map[Strategy]string{
	StrategyAll:        "all",
	StrategyDifficulty: "difficulty",
	StrategyTheme:      "theme",
	StrategyRandom:     "random",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converte o nome recebido do cliente. Nomes desconhecidos são erro.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrEstrategiaDesconhecida, name)
}

// MarshalText permite serializar a estratégia pelo nome.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, ErrEstrategiaDesconhecida
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Criteria são os parâmetros que reduzem o banco à sequência do quiz.
// Apenas o campo correspondente à estratégia é considerado.
type Criteria struct {
	Strategy   Strategy `json:"strategy"`
	Difficulty int      `json:"difficulty,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	Count      int      `json:"count,omitempty"`
}

func AllQuestions() Criteria { return Criteria{Strategy: StrategyAll} }
func ByDifficulty(d int) Criteria { return Criteria{Strategy: StrategyDifficulty, Difficulty: d} }
func ByTheme(theme string) Criteria { return Criteria{Strategy: StrategyTheme, Theme: theme} }
func RandomSample(count int) Criteria { return Criteria{Strategy: StrategyRandom, Count: count} }

// Label descreve o critério para relatórios e métricas.
func (c Criteria) Label() string {
	switch c.Strategy {
	case StrategyDifficulty:
		return fmt.Sprintf("difficulty=%d", c.Difficulty)
	case StrategyTheme:
		return "theme=" + c.Theme
	case StrategyRandom:
		return fmt.Sprintf("random=%d", c.Count)
	default:
		return c.Strategy.String()
	}
}

// Select aplica o critério sobre o banco e retorna uma nova sequência.
// O slice de entrada nunca é modificado. Com rng nil usa a fonte global.
//
// Na estratégia aleatória as perguntas são sorteadas sem reposição e a ordem
// do resultado é a ordem do sorteio.
func Select(questions []Question, c Criteria, rng *rand.Rand) ([]Question, error) {
	switch c.Strategy {
	case StrategyAll:
		out := make([]Question, len(questions))
		copy(out, questions)
		return out, nil

	case StrategyDifficulty:
		return filter(questions, func(q Question) bool { return q.Difficulty == c.Difficulty }), nil

	case StrategyTheme:
		if strings.TrimSpace(c.Theme) == "" {
			return nil, fmt.Errorf("%w: tema vazio", ErrCriterioInvalido)
		}
		return filter(questions, func(q Question) bool { return q.Theme == c.Theme }), nil

	case StrategyRandom:
		return sample(questions, c.Count, rng)
	}

	return nil, fmt.Errorf("%w: %s", ErrEstrategiaDesconhecida, c.Strategy)
}

func filter(questions []Question, keep func(Question) bool) []Question {
	out := make([]Question, 0)
	for _, q := range questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// sample faz um Fisher-Yates parcial sobre uma cópia dos índices.
func sample(questions []Question, count int, rng *rand.Rand) ([]Question, error) {
	if count < 0 || count > len(questions) {
		return nil, fmt.Errorf("%w: pedidas %d, disponíveis %d", ErrQuantidadeInvalida, count, len(questions))
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	idx := make([]int, len(questions))
	for i := range idx {
		idx[i] = i
	}

	out := make([]Question, count)
	for i := 0; i < count; i++ {
		j := i + intN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = questions[idx[i]]
	}
	return out, nil
}
