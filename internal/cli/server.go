package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cybercase-service/internal/app"
	"cybercase-service/internal/config"
	"cybercase-service/internal/infra/memory"
	pgstore "cybercase-service/internal/infra/postgres"
	redissession "cybercase-service/internal/infra/redis"
	"cybercase-service/internal/security"
	"cybercase-service/internal/seed"
	transport "cybercase-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the training server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	defaultBank, err := seed.Questions()
	if err != nil {
		return err
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(defaultBank)
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool, cfg.Quiz.Bank)
	}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	questions := memory.NewQuestionRepository(loader, quizTTL)

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = redissession.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var (
		users    app.UserRepository
		attempts app.AttemptRecorder
		files    app.CaseRepository
		drills   app.DrillRepository
		missions app.MissionRepository
	)
	if cfg.Postgres.URL != "" {
		db := openBun(cfg)
		defer db.Close()
		if err := pgstore.Seed(ctx, db); err != nil {
			return err
		}
		userRepo := pgstore.NewUserRepository(db)
		users, attempts = userRepo, userRepo
		files = pgstore.NewCaseRepository(db)
		drills = pgstore.NewDrillRepository(db)
		missions = pgstore.NewMissionRepository(db)
	} else {
		userStore := memory.NewUserStore()
		users, attempts = userStore, userStore
		files = memory.NewCaseRepository(seed.CaseNodes(), seed.CaseMetadata())
		drills = memory.NewDrillRepository(seed.DrillLevels())
		missions = memory.NewMissionStore()
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "cybercase-dev-secret"
		log.Println("auth secret not configured, using development default")
	}
	tokens := security.NewTokenManager([]byte(secret), config.TTLDuration(cfg.Auth.TTL, 24*time.Hour))
	hasher := security.NewBcryptHasher()

	feed := app.NewLeaderboardFeed()
	quizService := app.NewQuizService(questions, sessions, users, attempts, feed)
	authService := app.NewAuthService(users, hasher, tokens)
	caseService := app.NewCaseService(files)
	trainingService := app.NewTrainingService(drills, missions, seed.MissionOwner)

	router := transport.NewRouter(tokens, transport.Handlers{
		Auth:     transport.NewAuthHandler(authService),
		Quiz:     transport.NewQuizHandler(quizService),
		Case:     transport.NewCaseHandler(caseService),
		Training: transport.NewTrainingHandler(trainingService),
		WS:       transport.NewWSHandler(quizService, feed),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting cybercase service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
