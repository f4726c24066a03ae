package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quizapp/internal/adapters/http/handlers"
	"quizapp/internal/adapters/http/middlewares"
	"quizapp/internal/adapters/websocket"
	"quizapp/internal/infra/metrics"
	"quizapp/internal/ports"
)

// Handlers reúne os handlers montados no main.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Question *handlers.QuestionHandler
	Quiz     *handlers.QuizHandler
	Report   *handlers.ReportHandler
	WS       *websocket.WebSocketHandler
}

// Options são as dependências transversais do roteador.
type Options struct {
	TokenService    ports.TokenService
	Sessions        ports.SessionRevoker
	Users           ports.UserRepository
	Metrics         *metrics.Metrics
	CORSOrigins     []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	// Stop encerra as goroutines de limpeza dos middlewares
	Stop <-chan struct{}
}

// NewRouter configura as rotas e middlewares.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	// Configuração CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := middlewares.AuthMiddleware(opts.TokenService, opts.Sessions)
	adminOnly := middlewares.RequireAdmin(opts.Users)

	// Rota de Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	// Feed de resultados (autenticado)
	r.With(auth).Get("/ws/results", h.WS.HandleWS)

	// Grupo de rotas de Auth
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RateLimiter(opts.RateLimitMax, opts.RateLimitWindow, opts.Stop))
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Rotas protegidas (Auth)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.GetMe)
		})
	})

	// Administração de contas
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth, adminOnly)
		r.Get("/users", h.Admin.ListUsers)
		r.Post("/users/{id}/promote", h.Admin.PromoteUser)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth)

		// Banco de perguntas completo (inclui a resposta correta)
		r.Route("/questions", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.Question.ListAll)
			r.Get("/difficulty/{difficulty}", h.Question.ByDifficulty)
			r.Get("/theme/{theme}", h.Question.ByTheme)
			r.Get("/random/{count}", h.Question.Random)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/catalog", h.Question.Catalog)
			r.Post("/start", h.Quiz.Start)
			r.Get("/current", h.Quiz.Current)
			r.Post("/answer", h.Quiz.Answer)
			r.Get("/summary", h.Quiz.Summary)
			r.Delete("/", h.Quiz.Abandon)
		})
	})

	// Grupo de rotas de Relatórios (Protegidas)
	r.Route("/reports", func(r chi.Router) {
		r.Use(auth)

		r.Get("/attempts", h.Report.ListAttempts)
		r.Get("/attempts/{id}", h.Report.GetAttempt)
		r.With(adminOnly).Get("/stats", h.Report.Stats)
	})

	return r
}
