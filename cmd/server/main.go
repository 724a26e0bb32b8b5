package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/config"
	"github.com/goodlyheritage/entrance-portal/internal/exam"
	"github.com/goodlyheritage/entrance-portal/internal/handler"
	"github.com/goodlyheritage/entrance-portal/internal/logger"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/render"
	"github.com/goodlyheritage/entrance-portal/internal/report"
	"github.com/goodlyheritage/entrance-portal/internal/router"
	"github.com/goodlyheritage/entrance-portal/internal/session"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("backend", cfg.BackendURL).
		Msg("Starting Entrance Portal Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Backend Client ────────────────────────────────────────────────
	client := backend.New(cfg, log)

	// ─── Sessions ──────────────────────────────────────────────────────
	store := session.NewStore()
	registry := session.NewExamRegistry()

	// ─── Exam Controller ───────────────────────────────────────────────
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	controller := exam.NewController(client, client, exam.Defaults{
		DurationMinutes: cfg.DefaultDurationMinutes,
		SubjectQuota:    cfg.DefaultSubjectQuota,
	}, rng, log)

	// ─── Renderer and Exporter ─────────────────────────────────────────
	renderer := render.New(nil)
	exporter := report.NewExporter(cfg.FontDir, log)

	// ─── Initialize Handlers ───────────────────────────────────────────
	verifier := middleware.NewVerifier(cfg.JWTSecret)
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(client, store, log),
		Portal:   handler.NewPortalHandler(controller, registry, renderer, log),
		Report:   handler.NewReportHandler(client, exporter, log),
		Question: handler.NewQuestionHandler(client, renderer, log),
		Student:  handler.NewStudentHandler(client, exporter, log),
		Setting:  handler.NewSettingHandler(client, log),
		Result:   handler.NewResultHandler(client, exporter, log),
		WS:       handler.NewWSHandler(registry, cfg.AllowedOrigins, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(verifier, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Tear down live exam timers and portal sessions.
	registry.Close()
	store.Close()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
