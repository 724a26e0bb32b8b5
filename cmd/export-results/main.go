package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/config"
	"github.com/goodlyheritage/entrance-portal/internal/logger"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/report"
)

// export-results pulls the full results list from the backend and writes an
// XLSX workbook, for the admissions office. Admin credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD or an already-issued ADMIN_TOKEN.
func main() {
	out := flag.String("out", "", "output path (default exam-results-YYYY-MM-DD.xlsx)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := backend.New(cfg, log)

	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		email := os.Getenv("ADMIN_EMAIL")
		password := os.Getenv("ADMIN_PASSWORD")
		if email == "" || password == "" {
			log.Fatal().Msg("Set ADMIN_TOKEN, or ADMIN_EMAIL and ADMIN_PASSWORD")
		}

		var err error
		var user *backend.AuthUser
		token, user, err = client.Login(ctx, model.LoginRequest{Email: email, Password: password})
		if err != nil {
			log.Fatal().Err(err).Msg("Login failed")
		}
		if user.Role != model.RoleAdmin {
			log.Fatal().Str("role", string(user.Role)).Msg("An admin account is required")
		}
	}

	results, err := client.ListResults(ctx, token)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch results")
	}
	fmt.Printf("Fetched %d results\n", len(results))

	exporter := report.NewExporter(cfg.FontDir, log)
	workbook, err := exporter.ResultsWorkbook(results)
	if err != nil {
		log.Fatal().Err(err).Msg("Workbook export failed")
	}

	path := *out
	if path == "" {
		path = "exam-results-" + time.Now().Format("2006-01-02") + ".xlsx"
	}
	if err := os.WriteFile(path, workbook, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write workbook")
	}

	fmt.Printf("Wrote %s\n", path)
}
