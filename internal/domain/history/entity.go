package history

import (
	"time"

	"quizapp/internal/domain/quiz"
)

// Attempt é o registro persistido de um quiz finalizado.
type Attempt struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	Strategy     string            `json:"strategy"`
	Criteria     string            `json:"criteria"` // ex: "theme=historia"
	CorrectCount int               `json:"correctCount"`
	Total        int               `json:"total"`
	Percentage   float64           `json:"percentage"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`
	Missed       []quiz.MissRecord `json:"missed,omitempty"`
}

// Stats agrega os resultados de todos os jogadores.
type Stats struct {
	TotalAttempts     int                `json:"totalAttempts"`
	AveragePercentage float64            `json:"averagePercentage"`
	ByStrategy        map[string]int     `json:"byStrategy"`
	AverageByStrategy map[string]float64 `json:"averageByStrategy"`
}
