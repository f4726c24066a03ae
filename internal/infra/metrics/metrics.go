package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores da aplicação.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	QuizzesStarted  *prometheus.CounterVec
	Answers         *prometheus.CounterVec
	QuizzesDone     prometheus.Counter
	ScorePercentage prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New cria os coletores e os registra em reg. Em produção usa-se um
// prometheus.NewRegistry() por processo; nos testes, um por teste.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "endpoint"},
		),
		QuizzesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_started_total",
				Help: "Quizzes started, by selection strategy",
			},
			[]string{"strategy"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_total",
				Help: "Answers submitted, by outcome (correct, wrong, invalid)",
			},
			[]string{"outcome"},
		),
		QuizzesDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_completed_total",
			Help: "Quizzes summarized",
		}),
		ScorePercentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_score_percentage",
			Help:    "Final score percentage of completed quizzes",
			Buckets: []float64{0, 25, 50, 75, 90, 100},
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.QuizzesStarted,
		m.Answers,
		m.QuizzesDone,
		m.ScorePercentage,
	)
	return m
}

func (m *Metrics) QuizStarted(strategy string) {
	m.QuizzesStarted.WithLabelValues(strategy).Inc()
}

func (m *Metrics) AnswerRecorded(outcome string) {
	m.Answers.WithLabelValues(outcome).Inc()
}

func (m *Metrics) QuizCompleted(percentage float64) {
	m.QuizzesDone.Inc()
	m.ScorePercentage.Observe(percentage)
}

// Middleware mede cada requisição usando o padrão de rota do chi como endpoint,
// para não explodir a cardinalidade com IDs.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler expõe /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
