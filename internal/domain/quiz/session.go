package quiz

import (
	"errors"
)

var (
	ErrNenhumaOpcao        = errors.New("nenhuma opção selecionada")
	ErrOpcaoInvalida       = errors.New("a opção escolhida não existe nesta pergunta")
	ErrPerguntaForaDeOrdem = errors.New("a resposta não corresponde à pergunta atual")
	ErrQuizFinalizado      = errors.New("o quiz já foi finalizado")
	ErrQuizNaoFinalizado   = errors.New("o quiz ainda não foi finalizado")
	ErrResumoJaGerado      = errors.New("o resultado deste quiz já foi exibido")
)

// IsValidationError indica erros de resposta que apenas pedem para reexibir a pergunta.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNenhumaOpcao) ||
		errors.Is(err, ErrOpcaoInvalida) ||
		errors.Is(err, ErrPerguntaForaDeOrdem)
}

// MissRecord registra uma pergunta respondida de forma errada.
type MissRecord struct {
	QuestionText string `json:"questionText"`
	ChosenKey    string `json:"chosenKey"`
	ChosenText   string `json:"chosenText"`
	CorrectKey   string `json:"correctKey"`
	CorrectText  string `json:"correctText"`
}

// Session é o estado de um quiz em andamento.
// Estados: aguardando resposta da pergunta CurrentIndex, ou finalizado
// quando CurrentIndex == len(Questions).
type Session struct {
	Questions    []Question
	CurrentIndex int
	CorrectCount int
	Missed       []MissRecord

	summarized bool
}

// NewSession inicia um quiz sobre a sequência já selecionada.
// Uma sequência vazia já nasce finalizada.
func NewSession(questions []Question) *Session {
	return &Session{
		Questions: questions,
		Missed:    []MissRecord{},
	}
}

// RestoreSession reconstrói uma sessão salva entre requisições.
func RestoreSession(questions []Question, currentIndex, correctCount int, missed []MissRecord) (*Session, error) {
	if currentIndex < 0 || currentIndex > len(questions) {
		return nil, errors.New("índice da pergunta atual fora da sequência")
	}
	if correctCount < 0 || correctCount+len(missed) != currentIndex {
		return nil, errors.New("contagem de respostas inconsistente")
	}
	if missed == nil {
		missed = []MissRecord{}
	}
	return &Session{
		Questions:    questions,
		CurrentIndex: currentIndex,
		CorrectCount: correctCount,
		Missed:       missed,
	}, nil
}

// Total é o número de perguntas da sequência.
func (s *Session) Total() int {
	return len(s.Questions)
}

// Completed indica se todas as perguntas foram respondidas.
func (s *Session) Completed() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Current retorna a pergunta aguardando resposta.
func (s *Session) Current() (Question, bool) {
	if s.Completed() {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Outcome descreve a transição causada por uma resposta aceita.
type Outcome struct {
	Correct   bool
	Miss      *MissRecord
	Completed bool
	Next      *Question
}

// Submit processa a resposta para a pergunta de posição index.
// Erros de validação não alteram o estado.
func (s *Session) Submit(index int, answerKey string) (Outcome, error) {
	if s.Completed() {
		return Outcome{}, ErrQuizFinalizado
	}
	if index != s.CurrentIndex {
		return Outcome{}, ErrPerguntaForaDeOrdem
	}

	key := NormalizeKey(answerKey)
	if key == "" {
		return Outcome{}, ErrNenhumaOpcao
	}

	q := s.Questions[s.CurrentIndex]
	if !q.HasOption(key) {
		return Outcome{}, ErrOpcaoInvalida
	}

	var out Outcome
	if key == q.CorrectKey {
		s.CorrectCount++
		out.Correct = true
	} else {
		miss := MissRecord{
			QuestionText: q.Text,
			ChosenKey:    key,
			ChosenText:   q.OptionText(key),
			CorrectKey:   q.CorrectKey,
			CorrectText:  q.OptionText(q.CorrectKey),
		}
		s.Missed = append(s.Missed, miss)
		out.Miss = &miss
	}

	s.CurrentIndex++
	if next, ok := s.Current(); ok {
		out.Next = &next
	} else {
		out.Completed = true
	}
	return out, nil
}

// Summarize gera o resultado final. Só pode ser chamado uma vez, após o fim.
func (s *Session) Summarize() (Summary, error) {
	if !s.Completed() {
		return Summary{}, ErrQuizNaoFinalizado
	}
	if s.summarized {
		return Summary{}, ErrResumoJaGerado
	}
	s.summarized = true

	missed := make([]MissRecord, len(s.Missed))
	copy(missed, s.Missed)
	return NewSummary(s.CorrectCount, len(s.Questions), missed), nil
}

// Summarized indica se o resultado já foi gerado.
func (s *Session) Summarized() bool {
	return s.summarized
}
