package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	pgloader "vocab-quiz-service/internal/infra/postgres"
	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/quizgen"
	transport "vocab-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz room server",
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.WordLoader = memory.NewStaticWordLoader(sampleUnits())
	if pool != nil {
		loader = pgloader.NewWordLoader(pool)
	}

	wordTTL := config.TTLDuration(cfg.Words.TTL, 10*time.Minute)
	var wordRepo app.WordRepository
	if redisClient != nil {
		wordRepo = redisinfra.NewWordRepository(redisClient, loader, wordTTL)
	} else {
		wordRepo = memory.NewWordRepository(loader, wordTTL)
	}

	var rooms app.RoomRepository
	if redisClient != nil {
		rooms = redisinfra.NewRoomStore(redisClient, redisTTL)
	} else {
		rooms = memory.NewRoomStore()
	}
	service := app.NewRoomService(rooms, wordRepo, quizgen.NewBuilder())

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	idleTimeout := config.TTLDuration(cfg.Rooms.IdleTimeout, 10*time.Minute)
	reapInterval := config.TTLDuration(cfg.Rooms.ReapInterval, time.Minute)
	service.StartReaper(reaperCtx, idleTimeout, reapInterval)

	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting vocab quiz service on :%s", finalPort)
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

// sampleUnits provides a minimal word set; swap this loader with the Postgres-backed one in production.
func sampleUnits() map[string]domain.WordUnit {
	return map[string]domain.WordUnit{
		"unit-1": {
			ID:   "unit-1",
			Name: "Basics",
			Words: []domain.Word{
				{Headword: "perro", Translation: "dog"},
				{Headword: "gato", Translation: "cat"},
				{Headword: "casa", Translation: "house"},
				{Headword: "libro", Translation: "book"},
				{Headword: "agua", Translation: "water"},
			},
		},
	}
}
