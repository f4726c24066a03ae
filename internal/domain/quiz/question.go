package quiz

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrBancoNaoEncontrado = errors.New("banco de perguntas não encontrado")
	ErrFormatoPergunta    = errors.New("pergunta com formato inválido")
)

// Question representa uma pergunta de múltipla escolha do banco.
// Depois de carregada não deve ser alterada.
type Question struct {
	ID         int               `json:"id"`      // Posição no banco
	Text       string            `json:"question"`
	Options    map[string]string `json:"options"` // chave -> texto (ex: "a" -> "Brasília")
	CorrectKey string            `json:"ca"`
	Difficulty int               `json:"difficulty"`
	Theme      string            `json:"theme"`
}

// NormalizeKey padroniza a chave de uma alternativa (sem espaços, minúscula).
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Validate verifica se a pergunta é utilizável num quiz.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("o enunciado é obrigatório")
	}
	if len(q.Options) < 2 {
		return errors.New("a pergunta deve ter pelo menos duas alternativas")
	}
	for key, text := range q.Options {
		if key == "" || strings.TrimSpace(text) == "" {
			return errors.New("alternativas não podem ser vazias")
		}
	}
	if _, ok := q.Options[q.CorrectKey]; !ok {
		return errors.New("a resposta correta não está entre as alternativas")
	}
	return nil
}

// HasOption indica se a chave corresponde a uma alternativa desta pergunta.
func (q Question) HasOption(key string) bool {
	_, ok := q.Options[key]
	return ok
}

// OptionText retorna o texto da alternativa (vazio se não existir).
func (q Question) OptionText(key string) string {
	return q.Options[key]
}

// Keys retorna as chaves das alternativas em ordem alfabética.
func (q Question) Keys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Option é uma alternativa pronta para exibição.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuestionView é a visão de exibição de uma pergunta, sem a resposta correta.
type QuestionView struct {
	ID         int      `json:"id"`
	Text       string   `json:"question"`
	Options    []Option `json:"options"`
	Difficulty int      `json:"difficulty"`
	Theme      string   `json:"theme"`
}

// View monta uma cópia da pergunta para exibição. O registro do banco não é tocado.
func (q Question) View() QuestionView {
	opts := make([]Option, 0, len(q.Options))
	for _, k := range q.Keys() {
		opts = append(opts, Option{Key: k, Text: q.Options[k]})
	}
	return QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		Options:    opts,
		Difficulty: q.Difficulty,
		Theme:      q.Theme,
	}
}
