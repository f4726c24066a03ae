package quiz

// Summary é o resultado final de um quiz.
type Summary struct {
	CorrectCount int          `json:"correctCount"`
	Total        int          `json:"total"`
	Percentage   float64      `json:"percentage"`
	Missed       []MissRecord `json:"missed"`
}

// NewSummary calcula o percentual de acertos.
func NewSummary(correct, total int, missed []MissRecord) Summary {
	if missed == nil {
		missed = []MissRecord{}
	}
	return Summary{
		CorrectCount: correct,
		Total:        total,
		Percentage:   Percentage(correct, total),
		Missed:       missed,
	}
}

// Percentage retorna 100*correct/total, ou 0 para um quiz vazio.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// WrongCount é o número de perguntas erradas.
func (s Summary) WrongCount() int {
	return s.Total - s.CorrectCount
}
