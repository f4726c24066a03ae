package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	httpadapter "quizapp/internal/adapters/http"
	"quizapp/internal/adapters/http/handlers"
	"quizapp/internal/adapters/http/middlewares"
	"quizapp/internal/adapters/persistence"
	"quizapp/internal/adapters/security"
	"quizapp/internal/adapters/websocket"
	"quizapp/internal/application/usecases"
	"quizapp/internal/infra/config"
	infraDB "quizapp/internal/infra/db"
	"quizapp/internal/infra/logger"
	"quizapp/internal/infra/metrics"
	"quizapp/internal/ports"
	"quizapp/migrations"
)

// @title Quiz API
// @version 1.0
// @description Quiz de múltipla escolha com contas, histórico e feed de resultados.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name quiz_session
func main() {
	// 1. Configuração e Logger
	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Banco de perguntas (falha aqui é fatal)
	questionRepo, err := persistence.NewJSONQuestionRepository(cfg.QuestionsFile)
	if err != nil {
		logger.Error("Não foi possível carregar o banco de perguntas", "erro", err, "arquivo", cfg.QuestionsFile)
		os.Exit(1)
	}
	logger.Info("Banco de perguntas carregado", "total", len(questionRepo.All()))

	// 3. Banco de dados
	db, err := infraDB.NewSQLiteConnection(cfg.Database.DSN)
	if err != nil {
		logger.Error("Não foi possível conectar ao banco", "erro", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := infraDB.RunMigrations(db, migrations.Files); err != nil {
		logger.Error("Falha na migração", "erro", err)
		os.Exit(1)
	}

	// 4. Adapters
	userRepo := persistence.NewSQLiteUserRepository(db)
	historyRepo := persistence.NewSQLiteHistoryRepository(db)

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Error("Falha ao iniciar o store de sessão", "erro", err, "backend", cfg.Session.Backend)
		os.Exit(1)
	}

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	tokenService := security.NewJWTService(cfg.Session.Secret, cfg.Session.TTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	// Hub do feed de resultados em background
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// 5. Application (Use Cases)
	questionUC := usecases.NewQuestionUseCases(questionRepo)
	historyUC := usecases.NewHistoryUseCases(historyRepo)
	quizUC := usecases.NewQuizUseCases(questionUC, sessions, userRepo, historyUC, wsHub, appMetrics)
	sessionUC := usecases.NewSessionUseCases(sessions, quizUC)
	getMeUC := usecases.NewGetMeUseCase(userRepo)

	// 6. Handlers
	h := httpadapter.Handlers{
		Auth: handlers.NewAuthHandler(
			usecases.NewRegisterUserUseCase(userRepo, hasher),
			usecases.NewLoginUserUseCase(userRepo, hasher, tokenService),
			getMeUC,
			sessionUC,
			handlers.CookieOptions{Secure: cfg.Session.CookieSecure},
		),
		Admin:    handlers.NewAdminHandler(usecases.NewAdminUseCases(userRepo)),
		Question: handlers.NewQuestionHandler(questionUC),
		Quiz:     handlers.NewQuizHandler(quizUC),
		Report:   handlers.NewReportHandler(historyUC, getMeUC),
		WS:       websocket.NewWebSocketHandler(wsHub, middlewares.UserID),
	}

	// 7. Router
	router := httpadapter.NewRouter(h, httpadapter.Options{
		TokenService:    tokenService,
		Sessions:        sessionUC,
		Users:           userRepo,
		Metrics:         appMetrics,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitMax:    cfg.RateLimit.MaxRequests,
		RateLimitWindow: cfg.RateLimit.Window,
		Stop:            ctx.Done(),
	})

	// 8. Servidor
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Iniciando servidor", "porta", cfg.Port, "sessao", cfg.Session.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Falha no servidor HTTP", "erro", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Servidor forçado a encerrar", "erro", err)
	}
	logger.Info("Servidor encerrado")
}

// newSessionStore escolhe o backend de sessão. O store em memória ganha uma
// limpeza periódica das entradas expiradas.
func newSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		client, err := persistence.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			client.Close()
		}()
		logger.Info("Sessões no Redis", "endereco", cfg.Redis.Addr)
		return persistence.NewRedisSessionStore(client, cfg.Session.TTL), nil

	case "memory":
		store := persistence.NewInMemorySessionStore(cfg.Session.TTL)
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := store.Cleanup(); n > 0 {
						logger.Debug("Sessões expiradas removidas", "total", n)
					}
				}
			}
		}()
		return store, nil

	default:
		return nil, fmt.Errorf("SESSION_BACKEND desconhecido: %q", cfg.Session.Backend)
	}
}
