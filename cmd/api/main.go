package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pusher/pusher-http-go/v5"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/config"
	"go-bingohall/internal/fairdraw"
	cardsclaim "go-bingohall/internal/http-server/handlers/cards/claim"
	cardsgenerate "go-bingohall/internal/http-server/handlers/cards/generate"
	cardslist "go-bingohall/internal/http-server/handlers/cards/list"
	"go-bingohall/internal/http-server/handlers/event"
	"go-bingohall/internal/http-server/handlers/job"
	"go-bingohall/internal/http-server/handlers/match/create"
	"go-bingohall/internal/http-server/handlers/match/draw"
	matchlist "go-bingohall/internal/http-server/handlers/match/list"
	"go-bingohall/internal/http-server/handlers/match/start"
	"go-bingohall/internal/http-server/handlers/match/state"
	"go-bingohall/internal/http-server/handlers/match/status"
	"go-bingohall/internal/http-server/handlers/match/verify"
	"go-bingohall/internal/http-server/handlers/postgres"
	"go-bingohall/internal/http-server/middleware/logger"
	"go-bingohall/internal/lib/logger/handler/slogpretty"
	"go-bingohall/internal/lib/logger/sl"
	"go-bingohall/internal/repository"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const workerPoolSize = 5

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting server...", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = db.Ping(); err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = postgres.CreateSchema(db); err != nil {
		log.Error("Failed to create schema", sl.Err(err))
		os.Exit(1)
	}

	handler := postgres.New(db)

	broadcaster, err := setupBroadcaster(cfg, log)
	if err != nil {
		log.Error("Failed to init event broadcaster", sl.Err(err))
		os.Exit(1)
	}

	job.Queue = make(job.JobQueue, 100)
	job.NewWorkerPool(workerPoolSize, job.Queue).Start()

	matchRepo := repository.NewMatchRepository(*handler)
	drawRepo := repository.NewDrawRepository(*handler)
	cardRepo := repository.NewCardRepository(*handler)
	userRepo := repository.NewUserRepository(*handler)
	auditRepo := repository.NewAuditRepository(*handler)
	transaction := repository.NewTransaction(*handler)

	registry := fairdraw.NewRegistry()

	createMatch := create.NewCreate(log, matchRepo, auditRepo, cfg.Draw)
	drawSvc := draw.NewDraw(log, matchRepo, drawRepo, cardRepo, auditRepo, registry, broadcaster, cfg.Draw.ServerSecret)
	autoDraw := start.NewAutoDraw(log, drawSvc)
	dealer := cardsgenerate.NewDealer(log, matchRepo, cardRepo, userRepo, auditRepo, transaction)
	starter := start.NewStarter(log, matchRepo, cardRepo, auditRepo, dealer, registry, broadcaster, autoDraw)
	changer := status.NewChanger(log, matchRepo, auditRepo, registry, broadcaster, autoDraw)
	claimer := cardsclaim.NewClaimer(log, matchRepo, drawRepo, cardRepo, userRepo, auditRepo, broadcaster)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/matches", createMatch.New())
	router.Get("/matches", matchlist.New(log, matchRepo))
	router.Get("/matches/{id}", matchlist.NewGet(log, matchRepo))
	router.Post("/matches/{id}/start", starter.New())
	router.Post("/matches/{id}/pause", changer.NewPause())
	router.Post("/matches/{id}/resume", changer.NewResume())
	router.Post("/matches/{id}/finish", changer.NewFinish())
	router.Post("/matches/{id}/draws", drawSvc.New())
	router.Post("/matches/{id}/draws/manual", drawSvc.NewManual())
	router.Delete("/matches/{id}/draws/last", drawSvc.NewUndo())
	router.Get("/matches/{id}/state", state.New(log, matchRepo, drawRepo, cardRepo, auditRepo))
	router.Get("/matches/{id}/reveal", verify.NewReveal(log, matchRepo))
	router.Post("/matches/{id}/verify-reveal", verify.NewVerifyReveal(log, matchRepo))
	router.Post("/draws/verify-signature", verify.NewVerifySignature(log, cfg.Draw.ServerSecret))
	router.Post("/matches/{id}/cards", dealer.New())
	router.Get("/matches/{id}/cards", cardslist.New(log, cardRepo))
	router.Post("/cards/{id}/claim", claimer.New())

	log.Info("Server started", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err = srv.ListenAndServe(); err != nil {
		log.Error("Server failed", sl.Err(err))
	}

	log.Error("Server stopped")
}

func setupBroadcaster(cfg *config.Config, log *slog.Logger) (event.Broadcaster, error) {
	if cfg.Pusher.Enabled {
		client := &pusher.Client{
			AppID:   cfg.Pusher.AppID,
			Key:     cfg.Pusher.Key,
			Secret:  cfg.Pusher.Secret,
			Cluster: cfg.Pusher.Cluster,
		}

		return event.NewPusherEvent(log, client), nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSServer.URL, nil)
	if err != nil {
		return nil, err
	}

	return event.NewWSEvent(log, conn), nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlogLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlogLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
